package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/bilemo/api/internal/infrastructure/auth"
	"github.com/bilemo/api/internal/infrastructure/logger"
	"github.com/bilemo/api/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTClientIDKey = "jwt_client_id"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// Revoker rejects tokens issued before a password change. Optional.
	Revoker auth.TokenRevoker
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	Logger    *zap.Logger
}

// DefaultJWTConfig returns default JWT middleware configuration
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/login_check",
		},
	}
}

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		if slices.Contains(cfg.SkipPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, log, errMissingToken)
			return
		}
		tokenString, ok := strings.CutPrefix(authHeader, BearerPrefix)
		if !ok || tokenString == "" {
			abortUnauthorized(c, log, errMissingToken)
			return
		}

		claims, err := cfg.JWTService.Validate(tokenString)
		if err != nil {
			abortUnauthorized(c, log, err)
			return
		}

		ctx := c.Request.Context()
		if cfg.Revoker != nil {
			revoked, err := cfg.Revoker.IsClientTokenRevoked(ctx, claims.ClientID, claims.GetIssuedAtTime())
			if err != nil {
				// Fail open: an unreachable revocation store must not lock every client out
				log.Error("Failed to check token revocation",
					zap.Int64("client_id", claims.ClientID),
					zap.Error(err))
			} else if revoked {
				abortUnauthorized(c, log, auth.ErrTokenRevoked)
				return
			}
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTClientIDKey, claims.ClientID)
		c.Request = c.Request.WithContext(logger.WithClientID(ctx, claims.ClientID))

		c.Next()
	}
}

var errMissingToken = errors.New("missing bearer token")

// abortUnauthorized writes the 401 envelope matching the token failure
func abortUnauthorized(c *gin.Context, log *zap.Logger, err error) {
	log.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)

	code := dto.ErrCodeTokenInvalid
	message := "Invalid JWT Token"
	switch {
	case errors.Is(err, errMissingToken):
		code = dto.ErrCodeUnauthorized
		message = "JWT Token not found"
	case errors.Is(err, auth.ErrExpiredToken):
		code = dto.ErrCodeTokenExpired
		message = "Expired JWT Token"
	case errors.Is(err, auth.ErrTokenRevoked):
		code = dto.ErrCodeTokenRevoked
		message = "Revoked JWT Token"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, c.GetString(logger.GinRequestIDKey)))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTClientID returns the authenticated client id, or 0 outside an authenticated route
func GetJWTClientID(c *gin.Context) int64 {
	if id, exists := c.Get(JWTClientIDKey); exists {
		if v, ok := id.(int64); ok {
			return v
		}
	}
	return 0
}
