package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kuraoka/signalquest/cache"
	"github.com/kuraoka/signalquest/config"
)

// AccountIDKey is the gin context key under which Auth stores the caller.
const AccountIDKey = "account_id"

const sessionCheckTimeout = 2 * time.Second

// Auth rejects requests without a valid Bearer token or a live session.
// Logout deletes the session cache entry, which invalidates the token
// before its JWT expiry.
func Auth(sec config.SecurityConfig, sessions cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			unauthorized(c, "missing token")
			return
		}
		claims, err := ParseToken(token, sec.JWTSecret)
		if err != nil {
			unauthorized(c, "invalid token")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), sessionCheckTimeout)
		defer cancel()
		alive, err := sessions.Exists(ctx, "session:"+token)
		if err != nil || !alive {
			unauthorized(c, "session expired")
			return
		}

		c.Set(AccountIDKey, claims.AccountID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	return token, found && token != ""
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// GetAccountID returns the account set by Auth, or 0 when unauthenticated.
func GetAccountID(c *gin.Context) int64 {
	if v, ok := c.Get(AccountIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
