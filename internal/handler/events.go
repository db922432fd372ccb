package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/virtual-events/internal/calendar"
	"github.com/Shivanand-hulikatti/virtual-events/internal/catalog"
	"github.com/Shivanand-hulikatti/virtual-events/internal/filter"
	"github.com/Shivanand-hulikatti/virtual-events/internal/model"
	"github.com/Shivanand-hulikatti/virtual-events/internal/service"
	"github.com/go-chi/chi/v5"
)

type idsResponse struct {
	IDs []string `json:"ids"`
}

// ListEvents handles GET /events
// Query parameters narrow and order the result; see filter.Parse.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	criteria, err := filter.Parse(r.URL.Query())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.app.Registry.FilterEvents(criteria))
}

// CreateEvent handles POST /events
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var in model.EventInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.app.Registry.CreateEvent(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// FeaturedEvents handles GET /events/featured
func (h *Handler) FeaturedEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Registry.Featured())
}

// MyEvents handles GET /events/mine
// Returns the events organized by the signed-in organizer.
func (h *Handler) MyEvents(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.app.Sessions.Current(); !ok {
		h.writeServiceError(w, r, service.ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, h.app.Registry.OrganizedEvents())
}

// RegisteredEvents handles GET /events/registered
func (h *Handler) RegisteredEvents(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.app.Sessions.Current(); !ok {
		h.writeServiceError(w, r, service.ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, h.app.Registry.RegisteredEvents(r.Context()))
}

// BookmarkedEvents handles GET /events/bookmarked
func (h *Handler) BookmarkedEvents(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.app.Sessions.Current(); !ok {
		h.writeServiceError(w, r, service.ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, h.app.Registry.BookmarkedEvents(r.Context()))
}

// GetEvent handles GET /events/{id}
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := h.app.Registry.GetEventByID(chi.URLParam(r, "id"))
	if !ok {
		h.writeServiceError(w, r, service.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// UpdateEvent handles PATCH /events/{id}
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var patch model.EventPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.app.Registry.UpdateEvent(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /events/{id}
// Succeeds whether or not the event exists.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Registry.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Register handles POST /events/{id}/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.app.Registry.RegisterForEvent(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	event, _ := h.app.Registry.GetEventByID(id)
	writeJSON(w, http.StatusCreated, event)
}

// CancelRegistration handles DELETE /events/{id}/register
func (h *Handler) CancelRegistration(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Registry.CancelRegistration(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Bookmark handles POST /events/{id}/bookmark
// Without a session nothing is stored and the empty list is returned.
func (h *Handler) Bookmark(w http.ResponseWriter, r *http.Request) {
	h.app.Registry.BookmarkEvent(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, idsResponse{IDs: h.app.Registry.BookmarkedIDs(r.Context())})
}

// RemoveBookmark handles DELETE /events/{id}/bookmark
func (h *Handler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	h.app.Registry.RemoveBookmark(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, idsResponse{IDs: h.app.Registry.BookmarkedIDs(r.Context())})
}

// StartHosting handles POST /events/{id}/host
func (h *Handler) StartHosting(w http.ResponseWriter, r *http.Request) {
	event, err := h.app.Registry.StartHosting(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Calendar handles GET /events/{id}/calendar.ics
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	event, ok := h.app.Registry.GetEventByID(chi.URLParam(r, "id"))
	if !ok {
		h.writeServiceError(w, r, service.ErrNotFound)
		return
	}

	doc, err := calendar.Export(event, h.baseURL)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", calendar.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="event-`+event.ID+`.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

// Comments handles GET /events/{id}/comments
func (h *Handler) Comments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.app.Registry.GetEventByID(id); !ok {
		h.writeServiceError(w, r, service.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, catalog.CommentsFor(id))
}

// Categories handles GET /catalog/categories
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Registry.Categories())
}

// Tags handles GET /catalog/tags
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Registry.Tags())
}
