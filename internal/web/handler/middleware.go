package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/logger"
	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/session"
)

const currentUserKey = "currentUser"

// CurrentUser returns the user attached by RequireLogin, or nil.
func CurrentUser(c *gin.Context) *session.User {
	user, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	u, _ := user.(*session.User)
	return u
}

// RequireLogin guards a page: no cookie or failed verification means
// a redirect to /login, otherwise the verified user is attached to
// the request context and the chain continues.
func (h *Handler) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(session.CookieName)
		if err != nil || sessionID == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		user := h.auth.Verify(c.Request.Context(), sessionID)
		if user == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RedirectIfAuthenticated sends users who already hold a valid
// session straight to the dashboard, bypassing re-authentication.
func (h *Handler) RedirectIfAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(session.CookieName)
		if err == nil && sessionID != "" {
			if user := h.auth.Verify(c.Request.Context(), sessionID); user != nil {
				logger.Info("user already logged in, redirecting", nil)
				c.Redirect(http.StatusFound, "/dashboard")
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
