package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gatelog/server/internal/api/problem"
	"github.com/gatelog/server/internal/domain/roster"
)

// RosterHandler serves the admin CRUD surface for the authorized-uid roster.
// Errors follow RFC 7807; this surface has no legacy clients to stay
// compatible with.
type RosterHandler struct {
	service *roster.Service
	env     string
}

func NewRosterHandler(service *roster.Service, env string) *RosterHandler {
	return &RosterHandler{service: service, env: env}
}

type memberPayload struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
}

func (h *RosterHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.List(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, "about:blank", "Failed to list roster", err, h.env)
		return
	}

	payload := make([]memberPayload, 0, len(members))
	for _, m := range members {
		payload = append(payload, memberPayload{UID: m.UID, Username: m.Username})
	}
	writeJSON(w, r, http.StatusOK, payload)
}

func (h *RosterHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req memberPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "about:blank", "Invalid request body", err, h.env)
		return
	}

	member, err := h.service.Add(r.Context(), roster.MemberInput{UID: req.UID, Username: req.Username})
	if err != nil {
		h.writeError(w, r, err, "Failed to add roster member")
		return
	}

	writeJSON(w, r, http.StatusCreated, memberPayload{UID: member.UID, Username: member.Username})
}

func (h *RosterHandler) Rename(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")

	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "about:blank", "Invalid request body", err, h.env)
		return
	}

	member, err := h.service.Rename(r.Context(), uid, req.Username)
	if err != nil {
		h.writeError(w, r, err, "Failed to rename roster member")
		return
	}

	writeJSON(w, r, http.StatusOK, memberPayload{UID: member.UID, Username: member.Username})
}

func (h *RosterHandler) Remove(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")

	if err := h.service.Remove(r.Context(), uid); err != nil {
		h.writeError(w, r, err, "Failed to remove roster member")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RosterHandler) writeError(w http.ResponseWriter, r *http.Request, err error, title string) {
	var validationErr roster.ValidationError
	switch {
	case errors.As(err, &validationErr):
		problem.Write(w, r, http.StatusUnprocessableEntity, "about:blank", "Validation failed", err, h.env,
			problem.WithErrors(map[string]interface{}{validationErr.Field: validationErr.Message}))
	case errors.Is(err, roster.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, "about:blank", "Member not found", err, h.env)
	case errors.Is(err, roster.ErrConflict):
		problem.Write(w, r, http.StatusConflict, "about:blank", "Member already exists", err, h.env)
	default:
		problem.Write(w, r, http.StatusInternalServerError, "about:blank", title, err, h.env)
	}
}
