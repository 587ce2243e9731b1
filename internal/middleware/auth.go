package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/01moynul/autoparts-golang/internal/apperrors"
	"github.com/01moynul/autoparts-golang/internal/auth"
	"github.com/01moynul/autoparts-golang/internal/logger"
	"github.com/01moynul/autoparts-golang/internal/models"
	"github.com/01moynul/autoparts-golang/internal/store"
)

const (
	userKey   = "user"
	userIDKey = "userID"
	roleKey   = "userRole"
)

// tokenFromRequest reads the auth cookie, falling back to a Bearer header.
func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(auth.CookieName); err == nil && cookie != "" {
		return cookie
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// AuthMiddleware rejects requests without a valid token and loads the user.
func AuthMiddleware(s *store.Store, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Find the token ---
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		// 2. --- Validate Token ---
		userID, err := tokens.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		// 3. --- Load the user; deleted accounts lose access ---
		user, err := s.GetUser(c.Request.Context(), userID)
		if err != nil {
			if apperrors.StatusCode(err) == http.StatusNotFound {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
				return
			}
			logger.FromGin(c).Error("load authenticated user", zap.Uint("user_id", userID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": apperrors.ErrInternal.Error()})
			return
		}

		// 4. --- Success ---
		c.Set(userKey, user)
		c.Set(userIDKey, user.ID)
		c.Set(roleKey, user.Role)
		logger.ToGin(c, logger.FromGin(c).With(zap.Uint("user_id", user.ID)))
		c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied: admin role required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user loaded by AuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
