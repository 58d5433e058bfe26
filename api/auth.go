package api

import (
	"fintrack/config"
	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"
	"fintrack/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// AuthHandler 认证处理器，负责 Google 登录与会话管理
type AuthHandler struct {
	cfg      *config.Config
	verifier service.GoogleVerifier
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config, verifier service.GoogleVerifier) *AuthHandler {
	return &AuthHandler{
		cfg:      cfg,
		verifier: verifier,
	}
}

// LoginRequest 登录请求，前端传 id_token 或 token 均可
type LoginRequest struct {
	IDToken string `json:"id_token"`
	Token   string `json:"token"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login Google 登录
// @Summary Google 登录
// @Description 校验 Google ID token，按邮箱 upsert 本地用户并签发会话 token（同时写入 httpOnly Cookie）
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Google ID token"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 400 {object} Response "缺少 id token"
// @Failure 401 {object} Response "token 校验失败"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	rawToken := req.IDToken
	if rawToken == "" {
		rawToken = req.Token
	}
	if rawToken == "" {
		BadRequest(c, "缺少 id token")
		return
	}

	identity, err := h.verifier.Verify(c.Request.Context(), rawToken)
	if err != nil {
		Unauthorized(c, "Google 登录校验失败")
		return
	}
	if identity.Email == "" {
		Unauthorized(c, "Google token 缺少邮箱信息")
		return
	}

	// 按邮箱 upsert：已存在则刷新姓名和 Google sub
	user := models.User{
		Email:    identity.Email,
		Name:     identity.Name,
		GoogleID: identity.GoogleID,
	}
	if err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "google_id"}),
	}).Create(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建用户失败"))
		return
	}
	// upsert 命中已有行时 user.ID 不可靠，重新按邮箱取一次
	if err := database.DB.Where("email = ?", identity.Email).First(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询用户失败"))
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "生成 token 失败")
		return
	}

	secure, sameSite := getCookieOptions()
	c.SetSameSite(sameSite)
	c.SetCookie("token", token, int(h.cfg.JWT.ExpireTime.Seconds()), "/", "", secure, true)

	Success(c, LoginResponse{Token: token, User: user})
}

// Logout 退出登录
// @Summary 退出登录
// @Description 清除会话 Cookie
// @Tags 认证
// @Produce json
// @Success 200 {object} Response "退出成功"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	secure, sameSite := getCookieOptions()
	c.SetSameSite(sameSite)
	c.SetCookie("token", "", -1, "/", "", secure, true)
	Success(c, gin.H{"ok": true})
}

// GetProfile 获取当前用户信息
// @Summary 获取当前用户信息
// @Description 获取当前登录用户的详细信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "用户不存在"
// @Router /auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	Success(c, user)
}
