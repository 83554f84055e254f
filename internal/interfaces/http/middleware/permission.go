package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RequireRole lets the request through only when the authenticated role is one
// of roles. It must run after JWTAuthMiddleware.
func RequireRole(log *zap.Logger, roles ...string) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		userID, ok := GetJWTUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}

		role := GetJWTRole(c)
		if !slices.Contains(roles, role) {
			log.Warn("Role check failed",
				zap.Int64("user_id", userID),
				zap.String("role", role),
				zap.Strings("required_any", roles),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "Insufficient permissions", GetRequestID(c)))
			return
		}
		c.Next()
	}
}
