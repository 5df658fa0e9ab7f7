package handler

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/logger"
	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/session"
	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/web/client"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Handler struct {
	auth         *client.Client
	cookieSecure bool
	sessionTTL   int // seconds
}

func NewHandler(auth *client.Client, cookieSecure bool, sessionTTLSeconds int) *Handler {
	return &Handler{
		auth:         auth,
		cookieSecure: cookieSecure,
		sessionTTL:   sessionTTLSeconds,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	r.GET("/", h.home)
	r.GET("/login", h.RedirectIfAuthenticated(), h.loginPage)
	r.GET("/google-login", h.googleLogin)

	guarded := r.Group("/", h.RequireLogin())
	guarded.GET("/dashboard", h.dashboard)
	guarded.POST("/dashboard", h.dashboard)
	guarded.GET("/settings", h.settings)
	guarded.POST("/settings", h.settings)

	r.GET("/logout", h.logout)
	r.POST("/logout", h.logout)
}

// loginPage renders the login page with the provider URL fetched from
// the auth service. Each failure class gets its own status and
// user-facing message.
func (h *Handler) loginPage(c *gin.Context) {
	authURL, err := h.auth.LoginURL(c.Request.Context())
	if err != nil {
		h.renderLoginError(c, err)
		return
	}

	c.HTML(http.StatusOK, "login.html", gin.H{
		"GoogleOAuthURL": authURL,
	})
}

func (h *Handler) renderLoginError(c *gin.Context, err error) {
	var statusErr *client.StatusError

	switch {
	case errors.Is(err, client.ErrTimeout):
		logger.Warn("timed out fetching oauth url from auth service", nil)
		c.String(http.StatusGatewayTimeout, "Auth service timeout")
	case errors.As(err, &statusErr):
		logger.Error("auth service http error", map[string]any{
			"status": statusErr.Code,
		})
		c.String(statusErr.Code, fmt.Sprintf("Auth service error (%d)", statusErr.Code))
	case errors.Is(err, client.ErrUnavailable):
		logger.Error("network error contacting auth service", map[string]any{
			"error": err.Error(),
		})
		c.String(http.StatusServiceUnavailable, "Auth service unavailable")
	default:
		logger.Error("invalid response from auth service", map[string]any{
			"error": err.Error(),
		})
		c.String(http.StatusBadGateway, "Auth service error")
	}
}

// home shows a greeting when a valid session cookie exists and a
// login prompt otherwise. It never redirects.
func (h *Handler) home(c *gin.Context) {
	var user *session.User
	if sessionID, err := c.Cookie(session.CookieName); err == nil && sessionID != "" {
		user = h.auth.Verify(c.Request.Context(), sessionID)
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"User": user,
	})
}

// googleLogin is the OAuth landing route: the one place a session id
// moves from auth-service knowledge to browser knowledge.
func (h *Handler) googleLogin(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.String(http.StatusBadRequest, "Missing session ID")
		return
	}

	session.SetCookie(c.Writer, sessionID, session.CookieOptions{
		Secure: h.cookieSecure,
		Domain: c.Request.Host,
		MaxAge: h.sessionTTL,
	})

	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) dashboard(c *gin.Context) {
	user := CurrentUser(c)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fmt.Sprintf(
		"<h1>Dashboard — %s</h1>"+
			`<form action="/logout" method="post"><button>Logout</button></form>`+
			`<form action="/settings" method="post"><button>Settings</button></form>`,
		template.HTMLEscapeString(user.Name),
	)))
}

func (h *Handler) settings(c *gin.Context) {
	user := CurrentUser(c)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fmt.Sprintf(
		"<h1>Settings — %s</h1>"+
			`<form action="/logout" method="post"><button>Logout</button></form>`+
			`<form action="/dashboard" method="post"><button>Dashboard</button></form>`,
		template.HTMLEscapeString(user.Name),
	)))
}

// logout notifies the auth service when a session cookie exists, then
// clears the cookie and goes home. The notification is best-effort:
// clearing the browser session must succeed no matter what the auth
// service does.
func (h *Handler) logout(c *gin.Context) {
	if sessionID, err := c.Cookie(session.CookieName); err == nil && sessionID != "" {
		if err := h.auth.Logout(c.Request.Context(), sessionID); err != nil {
			logger.Warn("auth service logout notification failed", map[string]any{
				"error": err.Error(),
			})
		} else {
			logger.Info("notified auth service of logout", nil)
		}
	} else {
		logger.Debug("no session cookie present, skipping auth service call", nil)
	}

	session.ClearCookie(c.Writer)
	c.Redirect(http.StatusFound, "/")
}
