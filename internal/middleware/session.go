package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mergington/portal-gateway/internal/session"
	"github.com/mergington/portal-gateway/pkg/config"
)

// ContextSessionKey is the gin context key storing the session record.
const ContextSessionKey = "currentSession"

// Session restores the browser session from its cookie on every request and
// issues a fresh anonymous session (and cookie) when nothing valid exists.
func Session(mgr *session.Manager, cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := c.Cookie(cfg.CookieName)
		sess, fresh := mgr.Restore(c.Request.Context(), raw)
		if fresh {
			if token, err := mgr.CookieToken(sess.ID); err == nil {
				c.SetSameSite(http.SameSiteLaxMode)
				c.SetCookie(cfg.CookieName, token, int(cfg.TTL.Seconds()), "/", "", cfg.CookieSecure, true)
			}
		}

		c.Set(ContextSessionKey, sess)
		c.Next()
	}
}
