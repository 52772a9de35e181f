package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/infrastructure/security"
)

// Context keys populated by Auth.
const (
	ContextClaimsKey    = "claims"
	ContextUserIDKey    = "userID"
	ContextSessionIDKey = "sessionID"
	ContextRolesKey     = "roles"
)

// TokenValidator validates bearer tokens including the revocation blacklist.
type TokenValidator interface {
	Validate(ctx context.Context, accessToken string) (*security.Claims, error)
}

// Auth requires a valid bearer token and stores its claims on the context.
func Auth(validator TokenValidator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header must be Bearer <token>"})
			return
		}

		claims, err := validator.Validate(c.Request.Context(), parts[1])
		if err != nil {
			logger.Debug("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextSessionIDKey, claims.SessionID)
		c.Set(ContextRolesKey, claims.Roles)
		c.Next()
	}
}

// ClaimsFromContext returns the authenticated claims, or nil.
func ClaimsFromContext(c *gin.Context) *security.Claims {
	value, ok := c.Get(ContextClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*security.Claims)
	return claims
}

// UserIDFromContext parses the authenticated user ID.
func UserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	claims := ClaimsFromContext(c)
	if claims == nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// SessionIDFromContext parses the authenticated session ID.
func SessionIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	claims := ClaimsFromContext(c)
	if claims == nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
