package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type messageRequest struct {
	Content string `json:"content"`
}

type toggleResponse struct {
	Enabled bool `json:"enabled"`
}

// JoinConference handles POST /conference/{id}/join
func (h *Handler) JoinConference(w http.ResponseWriter, r *http.Request) {
	room, err := h.conference.Join(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// LeaveConference handles POST /conference/{id}/leave
func (h *Handler) LeaveConference(w http.ResponseWriter, r *http.Request) {
	if err := h.conference.Leave(chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetConference handles GET /conference/{id}
func (h *Handler) GetConference(w http.ResponseWriter, r *http.Request) {
	room, ok := h.conference.Snapshot(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "conference not started")
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// SendMessage handles POST /conference/{id}/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	msg, err := h.conference.SendMessage(r.Context(), chi.URLParam(r, "id"), req.Content)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// ToggleVideo handles POST /conference/{id}/video
func (h *Handler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.conference.ToggleVideo)
}

// ToggleAudio handles POST /conference/{id}/audio
func (h *Handler) ToggleAudio(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.conference.ToggleAudio)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, flip func(string) (bool, error)) {
	enabled, err := flip(chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Enabled: enabled})
}
