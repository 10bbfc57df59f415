// Package cron exposes the secret-gated maintenance endpoints that an
// external scheduler (or the asynq worker) invokes periodically.
package cron

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Gate authorizes cron requests by comparing the Authorization header
// against the configured shared secret.
type Gate struct {
	secret string
}

// NewGate creates a cron gate. An empty secret authorizes nothing.
func NewGate(secret string) *Gate {
	return &Gate{secret: secret}
}

// IsAuthorized reports whether the Authorization header carries the cron
// secret as a bearer token. The comparison is constant time.
func (g *Gate) IsAuthorized(authorizationHeader string) bool {
	if g.secret == "" {
		return false
	}

	token, ok := strings.CutPrefix(authorizationHeader, "Bearer ")
	if !ok {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(token), []byte(g.secret)) == 1
}

// Middleware rejects unauthorized cron requests with 401.
func (g *Gate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.IsAuthorized(c.GetHeader("Authorization")) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
