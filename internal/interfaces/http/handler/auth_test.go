package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/identity"
	domainidentity "github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, input identity.LoginInput) (*identity.LoginResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.LoginResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, input identity.LogoutInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns token", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, identity.LoginInput{Email: "a@shop.io", Password: "secret123"}).
			Return(&identity.LoginResult{Token: "jwt", Role: "customer", UserID: 3, ExpiresAt: time.Now().Add(time.Hour)}, nil)

		router := newTestRouter()
		router.POST("/auth/login", NewAuthHandler(svc).Login)

		w := performJSON(router, http.MethodPost, "/auth/login", `{"email":"a@shop.io","password":"secret123"}`)
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		decode(t, w, &body)
		assert.Equal(t, "jwt", body["token"])
		assert.Equal(t, float64(3), body["userId"])
	})

	t.Run("bad credentials are 401", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, mock.Anything).Return(nil, domainidentity.ErrInvalidCredentials)

		router := newTestRouter()
		router.POST("/auth/login", NewAuthHandler(svc).Login)

		w := performJSON(router, http.MethodPost, "/auth/login", `{"email":"a@shop.io","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decode(t, w, nil).Error.Code)
	})

	t.Run("malformed email is a validation error", func(t *testing.T) {
		router := newTestRouter()
		router.POST("/auth/login", NewAuthHandler(new(MockAuthService)).Login)

		w := performJSON(router, http.MethodPost, "/auth/login", `{"email":"nope","password":"x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Logout", mock.Anything, mock.MatchedBy(func(in identity.LogoutInput) bool {
		return in.UserID == 3 && in.TokenJTI == "jti-1" && in.TokenTTL > 0
	})).Return(nil)

	withClaims := func(c *gin.Context) {
		claims := &auth.Claims{UserID: 3, Role: "customer"}
		claims.ID = "jti-1"
		claims.ExpiresAt = jwtTime(time.Now().Add(30 * time.Minute))
		c.Set(middleware.JWTClaimsKey, claims)
		c.Next()
	}

	router := newTestRouter(withClaims)
	router.POST("/auth/logout", NewAuthHandler(svc).Logout)

	w := performJSON(router, http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)

	bare := newTestRouter()
	bare.POST("/auth/logout", NewAuthHandler(svc).Logout)
	assert.Equal(t, http.StatusUnauthorized, performJSON(bare, http.MethodPost, "/auth/logout", nil).Code)
}
