package handlers

import (
	"net/http"

	"churchadmin/internal/service"
)

// OfferingHandler serves tithes and offerings
type OfferingHandler struct {
	offeringService *service.OfferingService
}

// NewOfferingHandler creates a new offering handler
func NewOfferingHandler(offeringService *service.OfferingService) *OfferingHandler {
	return &OfferingHandler{offeringService: offeringService}
}

func offeringFilter(q *queryReader) service.OfferingFilterParams {
	return service.OfferingFilterParams{
		DateRangeParams: q.dateRange(),
		Type:            q.str("type"),
		UserType:        q.str("userType"),
		IsAnonymous:     q.bool("isAnonymous"),
		Search:          q.str("search"),
	}
}

// List returns a page of offerings and the total of the filtered set
func (h *OfferingHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	params := service.ListOfferingsParams{
		PageParams:           q.page(),
		OfferingFilterParams: offeringFilter(q),
	}
	if err := q.err(); err != nil {
		respondWithError(w, r, err)
		return
	}

	result, err := h.offeringService.List(r.Context(), params)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// Stats aggregates the filtered offerings
func (h *OfferingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	params := offeringFilter(q)
	if err := q.err(); err != nil {
		respondWithError(w, r, err)
		return
	}

	stats, err := h.offeringService.Stats(r.Context(), params)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// Get returns one offering
func (h *OfferingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	offering, err := h.offeringService.Get(r.Context(), id)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, offering)
}

// Create records an offering
func (h *OfferingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateOfferingInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithError(w, r, err)
		return
	}

	offering, err := h.offeringService.Create(r.Context(), in)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, offering)
}

// Update changes the fields present in the body
func (h *OfferingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	var in service.UpdateOfferingInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithError(w, r, err)
		return
	}

	offering, err := h.offeringService.Update(r.Context(), id, in)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, offering)
}

// Delete removes an offering
func (h *OfferingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	if err := h.offeringService.Delete(r.Context(), id); err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithSuccess(w)
}
