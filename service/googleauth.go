package service

import (
	"context"
	"errors"

	"fintrack/config"

	"google.golang.org/api/idtoken"
)

// GoogleUser Google ID token 校验通过后提取的身份信息
type GoogleUser struct {
	Email    string
	Name     string
	GoogleID string // token 中的 sub
}

// GoogleVerifier 校验第三方身份 token，测试时可注入假实现
type GoogleVerifier interface {
	Verify(ctx context.Context, rawToken string) (*GoogleUser, error)
}

// GoogleAuthService 基于 Google 公钥校验 ID token 的签名与 audience
type GoogleAuthService struct {
	clientID string
}

// NewGoogleAuthService 创建 Google 登录服务
func NewGoogleAuthService(cfg *config.GoogleConfig) *GoogleAuthService {
	return &GoogleAuthService{clientID: cfg.ClientID}
}

// Verify 校验 ID token 并提取邮箱、姓名、sub
// audience 必须等于配置的 client_id，签名校验由 idtoken 包完成
func (s *GoogleAuthService) Verify(ctx context.Context, rawToken string) (*GoogleUser, error) {
	if s.clientID == "" {
		return nil, errors.New("google client_id 未配置")
	}
	payload, err := idtoken.Validate(ctx, rawToken, s.clientID)
	if err != nil {
		return nil, err
	}
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	return &GoogleUser{
		Email:    email,
		Name:     name,
		GoogleID: payload.Subject,
	}, nil
}
