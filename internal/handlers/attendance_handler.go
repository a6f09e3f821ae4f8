package handlers

import (
	"net/http"

	"churchadmin/internal/metrics"
	"churchadmin/internal/service"
)

// AttendanceHandler serves attendance sessions and their rosters
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// List returns a page of sessions
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	params := service.ListAttendanceParams{
		PageParams:      q.page(),
		DateRangeParams: q.dateRange(),
		Type:            q.str("type"),
		Search:          q.str("search"),
	}
	if err := q.err(); err != nil {
		respondWithError(w, r, err)
		return
	}

	result, err := h.attendanceService.List(r.Context(), params)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// Get returns one session
func (h *AttendanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	session, err := h.attendanceService.Get(r.Context(), id)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// Create adds a session without a roster
func (h *AttendanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateAttendanceInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithError(w, r, err)
		return
	}

	session, err := h.attendanceService.Create(r.Context(), in)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, session)
}

// Update changes a session's date or type
func (h *AttendanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	var in service.UpdateAttendanceInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithError(w, r, err)
		return
	}

	session, err := h.attendanceService.Update(r.Context(), id, in)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// Delete removes a session and its roster
func (h *AttendanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	if err := h.attendanceService.Delete(r.Context(), id); err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithSuccess(w)
}

// Roster returns the member directory and, given attendanceId, the
// statuses recorded for that session
func (h *AttendanceHandler) Roster(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	sessionID := q.int64("attendanceId")
	search := q.str("search")
	if err := q.err(); err != nil {
		respondWithError(w, r, err)
		return
	}

	roster, err := h.attendanceService.GetRoster(r.Context(), sessionID, search)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, roster)
}

// CreateWithRoster adds a session together with its member statuses
func (h *AttendanceHandler) CreateWithRoster(w http.ResponseWriter, r *http.Request) {
	var in service.CreateRosterInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithError(w, r, err)
		return
	}

	result, err := h.attendanceService.CreateWithRoster(r.Context(), in)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	metrics.RecordRosterWrite("create", result.Count)
	respondWithJSON(w, http.StatusCreated, result)
}

// ReplaceRoster swaps a session's member statuses for the submitted list
func (h *AttendanceHandler) ReplaceRoster(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	var in service.ReplaceRosterInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithError(w, r, err)
		return
	}

	result, err := h.attendanceService.ReplaceRoster(r.Context(), id, in)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	metrics.RecordRosterWrite("replace", result.Count)
	respondWithJSON(w, http.StatusOK, result)
}
