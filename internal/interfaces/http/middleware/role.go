package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/bilemo/api/internal/domain/shared"
	"github.com/bilemo/api/internal/infrastructure/logger"
	"github.com/bilemo/api/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoleLoader returns the roles a client holds right now
type RoleLoader func(ctx context.Context, clientID int64) ([]string, error)

// RequireRole rejects authenticated clients that do not hold role.
// message is returned as-is in the 403 body.
//
// Roles come from load, not from the token, so a demotion applies at once to
// tokens issued before it. A nil load falls back to the token claims.
func RequireRole(load RoleLoader, role, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "JWT Token not found", c.GetString(logger.GinRequestIDKey)))
			return
		}

		allowed := claims.HasRole(role)
		if load != nil {
			roles, err := load(c.Request.Context(), claims.ClientID)
			switch {
			case errors.Is(err, shared.ErrNotFound):
				// the client was deleted after the token was issued
				abortUnauthorized(c, logger.GetGinLogger(c), err)
				return
			case err != nil:
				logger.GetGinLogger(c).Error("Failed to load client roles",
					zap.Int64("client_id", claims.ClientID), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeInternal, "An unexpected error occurred", c.GetString(logger.GinRequestIDKey)))
				return
			}
			allowed = slices.Contains(roles, role)
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, message, c.GetString(logger.GinRequestIDKey)))
			return
		}
		c.Next()
	}
}
