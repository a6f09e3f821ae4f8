package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"churchadmin/internal/metrics"
	"churchadmin/internal/models"
	"churchadmin/internal/security"
	"churchadmin/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	AdminSessionContextKey ContextKey = "admin"
	ClientIPContextKey     ContextKey = "client_ip"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	tokens       *security.TokenManager
	csrf         *security.CSRFGenerator
	loginLimiter *security.RateLimiter
	trustProxy   bool
}

// NewMiddleware creates a new middleware instance. trustProxy lets client
// IPs come from X-Forwarded-For and X-Real-IP.
func NewMiddleware(tokens *security.TokenManager, csrf *security.CSRFGenerator, loginLimiter *security.RateLimiter, trustProxy bool) *Middleware {
	return &Middleware{
		tokens:       tokens,
		csrf:         csrf,
		loginLimiter: loginLimiter,
		trustProxy:   trustProxy,
	}
}

// RequireAdmin rejects requests without a valid admin session token and
// puts the session into the request context
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(security.SessionCookieName)
		if err != nil {
			respondWithStatus(w, http.StatusUnauthorized, string(service.KindUnauthorized), ErrUnauthorized)
			return
		}

		session, err := m.tokens.Parse(cookie.Value)
		if err != nil {
			http.SetCookie(w, security.CreateDeleteCookie(r))
			respondWithStatus(w, http.StatusUnauthorized, string(service.KindUnauthorized), ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), AdminSessionContextKey, session)
		next(w, r.WithContext(ctx))
	}
}

// CSRFProtect requires the session's CSRF token on state-changing methods.
// It must run inside RequireAdmin.
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next(w, r)
			return
		}

		session := SessionFromContext(r.Context())
		if session == nil || !m.csrf.ValidateToken(session.TokenID, r.Header.Get(security.CSRFHeader)) {
			respondWithStatus(w, http.StatusForbidden, CodeForbidden, ErrInvalidCSRFToken)
			return
		}
		next(w, r)
	}
}

// Admin is RequireAdmin followed by CSRFProtect
func (m *Middleware) Admin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAdmin(m.CSRFProtect(next))
}

// RateLimit limits login attempts per client IP and records that IP in
// the request context
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r, m.trustProxy)
		if !m.loginLimiter.Allow(ip) {
			metrics.RecordLogin("rate_limited")
			log.WithField("ip", ip).Warn("Login rate limit exceeded")
			w.Header().Set("Retry-After", "60")
			respondWithStatus(w, http.StatusTooManyRequests, CodeTooManyRequests, ErrTooManyAttempts)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ClientIPContextKey, ip)))
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *loggingResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Logging middleware tags each request with an ID and logs it once served
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, requestID)

		lw := &loggingResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(lw, r)

		log.WithFields(log.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     lw.status,
			"duration":   time.Since(start).String(),
		}).Info("Request served")
	})
}

// SessionFromContext retrieves the admin session from the request context
func SessionFromContext(ctx context.Context) *models.AdminSession {
	session, ok := ctx.Value(AdminSessionContextKey).(*models.AdminSession)
	if !ok {
		return nil
	}
	return session
}

// clientIP returns the IP RateLimit resolved, or the connection's peer
func clientIP(r *http.Request) string {
	if ip, ok := r.Context().Value(ClientIPContextKey).(string); ok {
		return ip
	}
	return security.GetClientIP(r, false)
}
