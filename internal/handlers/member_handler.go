package handlers

import (
	"net/http"

	"churchadmin/internal/service"
)

// MemberHandler serves the member directory
type MemberHandler struct {
	memberService *service.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// List returns a page of members
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	params := service.ListMembersParams{
		PageParams: q.page(),
		Search:     q.str("search"),
		Sex:        q.str("sex"),
		UserType:   q.str("userType"),
	}
	if err := q.err(); err != nil {
		respondWithError(w, r, err)
		return
	}

	result, err := h.memberService.List(r.Context(), params)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// Get returns one member
func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	member, err := h.memberService.Get(r.Context(), id)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, member)
}

// Create adds a member or guest
func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateMemberInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithError(w, r, err)
		return
	}

	member, err := h.memberService.Create(r.Context(), in)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, member)
}

// Update changes the fields present in the body
func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	var in service.UpdateMemberInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithError(w, r, err)
		return
	}

	member, err := h.memberService.Update(r.Context(), id, in)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, member)
}

// Delete removes a member
func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	if err := h.memberService.Delete(r.Context(), id); err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithSuccess(w)
}
