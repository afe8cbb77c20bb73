package middleware

import (
	"net/http"
	"strings"

	"emviapp/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Context keys set by JWTAuthMiddleware for downstream handlers.
const (
	CtxSubjectKey = "authSubject"
	CtxRoleKey    = "authRole"
)

// JWTAuthMiddleware authenticates the Bearer session token and, when roles
// are given, requires the token's role to be one of them. The token hash is
// checked against the Redis auth cache so revoked sessions stop working
// before they expire.
func JWTAuthMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		subject, role, err := utils.ExtractIdentityFromToken(tokenString)
		if err != nil || subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		if len(roles) > 0 && !roleAllowed(role, roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		// Revocation check: the stored hash must match the presented token.
		authCache := utils.GetAuthCacheClient()
		cachedHash, err := authCache.Get(c.Request.Context(), utils.AuthCachePrefix+subject).Result()
		if err == redis.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			return
		}
		if err != nil {
			zap.L().Warn("auth cache lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication error"})
			return
		}
		if cachedHash != utils.HashToken(tokenString) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token mismatch"})
			return
		}

		c.Set(CtxSubjectKey, subject)
		c.Set(CtxRoleKey, role)
		c.Next()
	}
}

func roleAllowed(role string, allowed []string) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
