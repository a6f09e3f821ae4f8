package handlers

import (
	"net/http"

	"churchadmin/internal/service"
)

// PrayerRequestHandler serves prayer requests
type PrayerRequestHandler struct {
	prayerRequestService *service.PrayerRequestService
}

// NewPrayerRequestHandler creates a new prayer request handler
func NewPrayerRequestHandler(prayerRequestService *service.PrayerRequestService) *PrayerRequestHandler {
	return &PrayerRequestHandler{prayerRequestService: prayerRequestService}
}

func prayerRequestFilter(q *queryReader) service.PrayerRequestFilterParams {
	return service.PrayerRequestFilterParams{
		DateRangeParams: q.dateRange(),
		Status:          q.str("status"),
		UserType:        q.str("userType"),
		Search:          q.str("search"),
	}
}

// List returns a page of prayer requests
func (h *PrayerRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	params := service.ListPrayerRequestsParams{
		PageParams:                q.page(),
		PrayerRequestFilterParams: prayerRequestFilter(q),
	}
	if err := q.err(); err != nil {
		respondWithError(w, r, err)
		return
	}

	result, err := h.prayerRequestService.List(r.Context(), params)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// Stats counts the filtered prayer requests by status and user type
func (h *PrayerRequestHandler) Stats(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	params := prayerRequestFilter(q)
	if err := q.err(); err != nil {
		respondWithError(w, r, err)
		return
	}

	stats, err := h.prayerRequestService.Stats(r.Context(), params)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// Get returns one prayer request
func (h *PrayerRequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	request, err := h.prayerRequestService.Get(r.Context(), id)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, request)
}

// Create submits a prayer request
func (h *PrayerRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreatePrayerRequestInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithError(w, r, err)
		return
	}

	request, err := h.prayerRequestService.Create(r.Context(), in)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, request)
}

// Update changes the fields present in the body
func (h *PrayerRequestHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	var in service.UpdatePrayerRequestInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithError(w, r, err)
		return
	}

	request, err := h.prayerRequestService.Update(r.Context(), id, in)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, request)
}

// Delete removes a prayer request
func (h *PrayerRequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	if err := h.prayerRequestService.Delete(r.Context(), id); err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithSuccess(w)
}
