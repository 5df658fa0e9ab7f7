package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/auth"
	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/logger"
	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/session"
)

type Handler struct {
	provider     auth.Provider
	sessionStore session.Store
	frontendURL  string
	sessionTTL   time.Duration
}

func NewHandler(
	provider auth.Provider,
	sessionStore session.Store,
	frontendURL string,
	sessionTTL time.Duration,
) *Handler {
	return &Handler{
		provider:     provider,
		sessionStore: sessionStore,
		frontendURL:  frontendURL,
		sessionTTL:   sessionTTL,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/login/google", h.loginGoogle)
	r.GET("/auth/google", h.authGoogle)
	r.POST("/verify", h.verify)
	r.POST("/logout", h.logout)
}

// loginGoogle returns the provider authorization URL. The URL is
// built from static configuration, so the only failures possible are
// caught at startup.
func (h *Handler) loginGoogle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"auth_url": h.provider.AuthCodeURL(),
	})
}

// authGoogle handles the provider OAuth callback: code exchange,
// profile fetch, session creation, then a redirect that hands the new
// session id to the front end. This is the only path a session id
// ever takes to reach the browser.
func (h *Handler) authGoogle(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing code"})
		return
	}

	profile, err := h.provider.Exchange(c.Request.Context(), code)
	if err != nil {
		h.renderExchangeError(c, err)
		return
	}

	sessionID, err := session.GenerateID()
	if err != nil {
		logger.Error("failed to generate session id", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session storage error"})
		return
	}

	record, err := json.Marshal(session.User{
		Email:  profile.Email,
		Name:   profile.Name,
		Source: session.SourceGoogle,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session storage error"})
		return
	}

	if err := h.sessionStore.Save(c.Request.Context(), sessionID, record, h.sessionTTL); err != nil {
		logger.Error("failed to write session to store", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session storage error"})
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf(
		"%s/google-login?session_id=%s",
		h.frontendURL,
		url.QueryEscape(sessionID),
	))
}

func (h *Handler) renderExchangeError(c *gin.Context, err error) {
	if errors.Is(err, auth.ErrNoAccessToken) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "No access token returned from provider"})
		return
	}

	var upstream *auth.UpstreamError
	if !errors.As(err, &upstream) {
		logger.Error("unclassified exchange failure", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadGateway, gin.H{"error": "Authentication failed"})
		return
	}

	logger.Warn("provider call failed", map[string]any{
		"stage":   upstream.Stage,
		"timeout": upstream.Timeout,
		"error":   upstream.Err.Error(),
	})

	switch {
	case upstream.Stage == auth.StageToken && upstream.Timeout:
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Token endpoint request timed out"})
	case upstream.Stage == auth.StageToken:
		c.JSON(http.StatusBadGateway, gin.H{"error": "Token endpoint error"})
	case upstream.Timeout:
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "User-info request timed out"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "User-info endpoint error"})
	}
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

// verify checks a session id against the store and returns the stored
// record. The record goes back exactly as stored (a JSON string inside
// the JSON response); the caller re-parses it.
func (h *Handler) verify(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON payload"})
		return
	}
	if req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session_id"})
		return
	}

	record, err := h.sessionStore.Get(c.Request.Context(), req.SessionID)
	if err != nil {
		logger.Error("store error on verify", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	if record == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": string(record)})
}

// logout deletes the session. Deleting an absent key is a no-op, so
// repeated calls succeed identically.
func (h *Handler) logout(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON payload"})
		return
	}
	if req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session_id"})
		return
	}

	if err := h.sessionStore.Delete(c.Request.Context(), req.SessionID); err != nil {
		logger.Error("store error on logout", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
