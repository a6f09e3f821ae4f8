package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"churchadmin/internal/service"
)

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).WithField("status", status).Error("Failed to encode JSON response")
	}
}

func respondWithStatus(w http.ResponseWriter, status int, code, message string) {
	respondWithJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

// respondWithError writes err as a JSON error. Service errors keep their
// kind and message; anything else is logged and reported as a 500.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		log.WithError(err).WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": w.Header().Get(RequestIDHeader),
		}).Error("Request failed")
		respondWithStatus(w, http.StatusInternalServerError, CodeInternalServerError, ErrInternalServerError)
		return
	}

	respondWithJSON(w, statusForKind(svcErr.Kind), errorResponse{Error: errorBody{
		Code:    string(svcErr.Kind),
		Message: svcErr.Message,
		Fields:  svcErr.Fields,
	}})
}

func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func respondWithSuccess(w http.ResponseWriter) {
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}
