// Package middleware provides gin middleware shared by all routes.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookieName is the cookie carrying the dashboard session id.
	SessionCookieName = "stockscope_session"
	// ContextSessionID is the gin context key holding the session id.
	ContextSessionID = "sessionID"
)

// Session returns a Gin middleware that assigns every browser a session id.
// A missing or malformed cookie is replaced with a fresh UUID; the cookie lives for ttl.
func Session(ttl time.Duration) gin.HandlerFunc {
	maxAge := int(ttl / time.Second)
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
		}

		// 期限はアクセスのたびに延長する
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookieName, id, maxAge, "/", "", c.Request.TLS != nil, true)

		c.Set(ContextSessionID, id)
		c.Next()
	}
}

// SessionID returns the session id set by Session, or "" when the middleware did not run.
func SessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}
