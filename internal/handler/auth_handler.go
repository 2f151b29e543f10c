package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/config"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain/dto"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/service"
)

const oauthStateCookie = "oauth_state"

type AuthHandler struct {
	authService domain.AuthenticationService
	config      *config.Config
}

func NewAuthHandler(authService domain.AuthenticationService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		config:      cfg,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(),
		req.Email, req.Password, req.FirstName, req.LastName,
		c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAuthResponse(result))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password,
		c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAuthResponse(result))
}

func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	if !h.authService.GoogleEnabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Google login is not enabled", "code": "OAUTH_DISABLED"})
		return
	}

	state := uuid.New().String()
	c.SetCookie(oauthStateCookie, state, 600, "/", "", h.config.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"auth_url": h.authService.InitiateGoogleAuth(state)})
}

// GoogleCallback finishes the OAuth flow and redirects to the front end with a
// one-time auth code. Failures redirect to the login page with an error key.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	storedState, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != storedState {
		h.redirectLogin(c, "invalid_state")
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.config.CookieSecure, true)

	if oauthErr := c.Query("error"); oauthErr != "" {
		log.Warn().Str("error", oauthErr).Msg("google login cancelled")
		h.redirectLogin(c, "access_denied")
		return
	}

	result, err := h.authService.CompleteGoogleAuth(c.Request.Context(), c.Query("code"),
		c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		log.Error().Err(err).Msg("google login failed")
		h.redirectLogin(c, "auth_failed")
		return
	}

	authCode := uuid.New().String()
	if err := h.authService.StoreTemporaryAuth(c.Request.Context(), authCode, result, service.TempAuthCodeDuration); err != nil {
		log.Error().Err(err).Msg("failed to store temporary auth code")
		h.redirectLogin(c, "storage_failed")
		return
	}

	target := fmt.Sprintf("%s/auth/callback?auth_code=%s", h.config.FrontendURL, url.QueryEscape(authCode))
	c.Redirect(http.StatusTemporaryRedirect, target)
}

func (h *AuthHandler) redirectLogin(c *gin.Context, reason string) {
	c.Redirect(http.StatusTemporaryRedirect,
		fmt.Sprintf("%s/auth/login?error=%s", h.config.FrontendURL, reason))
}

func (h *AuthHandler) ExchangeAuthCode(c *gin.Context) {
	var req dto.ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authService.ExchangeAuthCode(c.Request.Context(), req.AuthCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAuthResponse(result))
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tokens, err := h.authService.RefreshAccessToken(c.Request.Context(), req.RefreshToken,
		c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := c.GetString("session_id")
	if sessionID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found", "code": "UNAUTHORIZED"})
		return
	}

	if err := h.authService.RevokeSession(c.Request.Context(), sessionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) GetSessions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	sessions, err := h.authService.GetUserSessions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessions": dto.NewSessionResponses(sessions, c.GetString("session_id")),
		"total":    len(sessions),
	})
}

// RevokeSession only revokes sessions of the calling user.
func (h *AuthHandler) RevokeSession(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sessionID := c.Param("sessionId")

	sessions, err := h.authService.GetUserSessions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	found := false
	for _, s := range sessions {
		if s.ID == sessionID {
			found = true
			break
		}
	}
	if !found {
		respondError(c, domain.ErrNotFound)
		return
	}

	if err := h.authService.RevokeSession(c.Request.Context(), sessionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session revoked successfully"})
}

func (h *AuthHandler) RevokeAllSessions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.authService.RevokeAllUserSessions(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All sessions revoked successfully"})
}
