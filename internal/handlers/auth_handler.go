package handlers

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"churchadmin/internal/metrics"
	"churchadmin/internal/models"
	"churchadmin/internal/security"
	"churchadmin/internal/service"
)

// AuthHandler handles admin login and session requests
type AuthHandler struct {
	authService *service.AuthService
	tokens      *security.TokenManager
	csrf        *security.CSRFGenerator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, tokens *security.TokenManager, csrf *security.CSRFGenerator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
		csrf:        csrf,
	}
}

type sessionResponse struct {
	Admin     *models.AdminSession `json:"admin"`
	CSRFToken string               `json:"csrfToken"`
}

// Login checks the credentials and sets the session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithError(w, r, err)
		return
	}

	identity, err := h.authService.Login(r.Context(), in)
	if err != nil {
		if service.KindOf(err) == service.KindUnauthorized {
			metrics.RecordLogin("failure")
			log.WithFields(log.Fields{
				"username": in.Username,
				"ip":       clientIP(r),
			}).Warn("Failed admin login")
		}
		respondWithError(w, r, err)
		return
	}

	token, session, err := h.tokens.Issue(identity.ID, identity.Username)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	csrfToken, err := h.csrf.GenerateToken(session.TokenID)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	metrics.RecordLogin("success")
	http.SetCookie(w, security.CreateSessionCookie(r, token, session.ExpiresAt))
	respondWithJSON(w, http.StatusOK, sessionResponse{Admin: session, CSRFToken: csrfToken})
}

// Logout clears the session cookie. It is routed behind Admin, so it needs
// a live session and its CSRF token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, security.CreateDeleteCookie(r))
	respondWithSuccess(w)
}

// Session returns the current admin and its CSRF token
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	if session == nil {
		respondWithStatus(w, http.StatusUnauthorized, string(service.KindUnauthorized), ErrUnauthorized)
		return
	}

	csrfToken, err := h.csrf.GenerateToken(session.TokenID)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sessionResponse{Admin: session, CSRFToken: csrfToken})
}
