package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/config"
	"fintrack/database"
	"fintrack/middleware"
	"fintrack/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	oldDB := database.DB
	database.DB = gormDB
	return mock, func() {
		database.DB = oldDB
		sqlDB.Close()
	}
}

// setUserIDMiddleware 模拟已登录用户
func setUserIDMiddleware(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func setupAuthTestConfig() *config.Config {
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireTime: 168 * time.Hour},
		Google: config.GoogleConfig{ClientID: "test-client-id"},
	}
	config.GlobalConfig = cfg
	middleware.InitJWT(cfg)
	return cfg
}

// fakeVerifier 测试用的 Google token 校验桩
type fakeVerifier struct {
	user *service.GoogleUser
	err  error
}

func (f *fakeVerifier) Verify(ctx context.Context, rawToken string) (*service.GoogleUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func loginRouter(cfg *config.Config, verifier service.GoogleVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAuthHandler(cfg, verifier)
	router.POST("/auth/login", h.Login)
	router.POST("/auth/logout", h.Logout)
	return router
}

func TestAuthHandler_Login(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := setupAuthTestConfig()
	defer func() { config.GlobalConfig = nil }()

	// upsert 用户（ON DUPLICATE KEY UPDATE）
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	// upsert 后重新按邮箱取用户
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "google_id", "created_at", "updated_at"}).
			AddRow(1, "alice@example.com", "Alice", "google-sub-1", time.Now(), time.Now()))

	verifier := &fakeVerifier{user: &service.GoogleUser{
		Email:    "alice@example.com",
		Name:     "Alice",
		GoogleID: "google-sub-1",
	}}
	router := loginRouter(cfg, verifier)

	body := `{"id_token":"valid-google-token"}`
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "alice@example.com", user["email"])

	// 会话 Cookie 已写入
	var sessionCookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "token" {
			sessionCookie = ck
		}
	}
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, sessionCookie.SameSite)
	assert.Equal(t, int((168 * time.Hour).Seconds()), sessionCookie.MaxAge)

	// 签发的 token 可解析且指向 upsert 后的用户
	claims, err := middleware.ParseToken(sessionCookie.Value)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_LoginMissingToken(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := setupAuthTestConfig()
	defer func() { config.GlobalConfig = nil }()

	router := loginRouter(cfg, &fakeVerifier{})

	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_LoginInvalidToken(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := setupAuthTestConfig()
	defer func() { config.GlobalConfig = nil }()

	router := loginRouter(cfg, &fakeVerifier{err: errors.New("token verification failed")})

	body := `{"id_token":"bogus"}`
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// 校验失败不能写入会话 Cookie
	for _, ck := range w.Result().Cookies() {
		assert.NotEqual(t, "token", ck.Name)
	}
}

func TestAuthHandler_LoginPayloadWithoutEmail(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := setupAuthTestConfig()
	defer func() { config.GlobalConfig = nil }()

	router := loginRouter(cfg, &fakeVerifier{user: &service.GoogleUser{Name: "NoMail", GoogleID: "sub"}})

	body := `{"token":"token-without-email"}`
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := setupAuthTestConfig()
	defer func() { config.GlobalConfig = nil }()

	router := loginRouter(cfg, &fakeVerifier{})

	req := httptest.NewRequest("POST", "/auth/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)

	var sessionCookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "token" {
			sessionCookie = ck
		}
	}
	require.NotNil(t, sessionCookie)
	assert.Equal(t, "", sessionCookie.Value)
	assert.Less(t, sessionCookie.MaxAge, 0)
}
