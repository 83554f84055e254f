package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	claims *auth.Claims
	err    error
}

func (s stubValidator) ValidateToken(string) (*auth.Claims, error) {
	return s.claims, s.err
}

type failingBlacklist struct{}

func (failingBlacklist) AddToBlacklist(context.Context, string, time.Duration) error { return nil }
func (failingBlacklist) IsBlacklisted(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars", Expiration: time.Hour})
}

func protectedRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddleware(cfg))
	router.GET("/me", func(c *gin.Context) {
		userID, _ := GetJWTUserID(c)
		ctxUserID, _ := logger.GetUserID(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": GetJWTRole(c), "ctx_user_id": ctxUserID})
	})
	return router
}

func doGet(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set(AuthHeaderKey, authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.NotEmpty(t, resp.Error.RequestID)
	return resp.Error.Code
}

func TestJWTAuthMiddleware(t *testing.T) {
	jwtService := newJWTService()

	t.Run("valid token exposes user and role", func(t *testing.T) {
		token, err := jwtService.GenerateToken(7, "customer")
		require.NoError(t, err)

		w := doGet(protectedRouter(JWTMiddlewareConfig{Validator: jwtService}), BearerPrefix+token.AccessToken)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(7), body["user_id"])
		assert.Equal(t, "customer", body["role"])
		assert.Equal(t, float64(7), body["ctx_user_id"])
	})

	t.Run("missing header", func(t *testing.T) {
		w := doGet(protectedRouter(JWTMiddlewareConfig{Validator: jwtService}), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, errorCode(t, w))
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w := doGet(protectedRouter(JWTMiddlewareConfig{Validator: jwtService}), "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenInvalid, errorCode(t, w))
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doGet(protectedRouter(JWTMiddlewareConfig{Validator: jwtService}), BearerPrefix+"not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenInvalid, errorCode(t, w))
	})

	t.Run("expired token", func(t *testing.T) {
		w := doGet(protectedRouter(JWTMiddlewareConfig{Validator: stubValidator{err: auth.ErrExpiredToken}}), BearerPrefix+"x")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenExpired, errorCode(t, w))
	})

	t.Run("revoked token", func(t *testing.T) {
		token, err := jwtService.GenerateToken(7, "customer")
		require.NoError(t, err)
		blacklist := auth.NewInMemoryTokenBlacklist()
		require.NoError(t, blacklist.AddToBlacklist(context.Background(), token.JTI, time.Hour))

		router := protectedRouter(JWTMiddlewareConfig{Validator: jwtService, TokenBlacklist: blacklist})
		w := doGet(router, BearerPrefix+token.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, w))
	})

	t.Run("blacklist outage fails open", func(t *testing.T) {
		token, err := jwtService.GenerateToken(7, "customer")
		require.NoError(t, err)

		router := protectedRouter(JWTMiddlewareConfig{Validator: jwtService, TokenBlacklist: failingBlacklist{}})
		w := doGet(router, BearerPrefix+token.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	jwtService := newJWTService()
	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddleware(JWTMiddlewareConfig{Validator: jwtService}), RequireRole(nil, "admin"))
	router.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })

	admin, err := jwtService.GenerateToken(1, "admin")
	require.NoError(t, err)
	customer, err := jwtService.GenerateToken(2, "customer")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doGet(router, BearerPrefix+admin.AccessToken).Code)

	w := doGet(router, BearerPrefix+customer.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrCodeForbidden, errorCode(t, w))
}

func TestRequireRole_WithoutAuthentication(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), RequireRole(nil, "admin"))
	router.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doGet(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
