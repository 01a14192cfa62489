package middleware

import (
	stderrors "errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bookshelf-backend/internal/errors"
	"github.com/ikkim/bookshelf-backend/pkg/util"
)

// Context keys for user information
const (
	UserIDKey = "user_id"
	ClaimsKey = "claims"
)

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate requires a valid "Bearer <token>" Authorization header.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, errors.AuthUnauthorized, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, errors.AuthTokenInvalid, "Authorization header must be: Bearer <token>")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(parts[1], m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if stderrors.Is(err, util.ErrExpiredToken) {
				errors.Unauthorized(c, errors.AuthTokenExpired, "Token has expired")
			} else {
				errors.Unauthorized(c, errors.AuthTokenInvalid, "Invalid or expired token")
			}
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(ClaimsKey, claims)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": claims.UserID,
		})

		c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetClaims returns the decoded session token set by Authenticate.
func GetClaims(c *gin.Context) (*util.Claims, bool) {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*util.Claims)
	return claims, ok
}
