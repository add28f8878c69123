package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/byrencheema/tappy/pkg/notifications"
	"github.com/byrencheema/tappy/pkg/pipeline"
)

const maxNoteBytes = 64 * 1024

// noteRequest is the payload for POST /api/notes.
type noteRequest struct {
	Text string `json:"text"`
}

// handleCreateNote handles POST /api/notes. The note is processed
// synchronously; the response carries the planner decision and, when a skill
// ran, the execution result and the persisted notification.
func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req noteRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxNoteBytes))
	if err := decoder.Decode(&req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	outcome, err := s.pipeline.Process(ctx, req.Text)
	if errors.Is(err, pipeline.ErrEmptyNote) {
		s.writeErrorResponse(w, http.StatusBadRequest, "note text is empty", nil)
		return
	}
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "failed to process note", err)
		return
	}

	s.writeJSONResponse(w, outcome)
}

// handleListNotifications handles GET /api/notifications
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}

	list, err := s.service.Store().List(r.Context(), limit)
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "failed to list notifications", err)
		return
	}

	s.writeJSONResponse(w, map[string]any{"notifications": list})
}

// handleUnreadCount handles GET /api/notifications/unread-count
func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.service.Store().CountUnread(r.Context())
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "failed to count unread notifications", err)
		return
	}

	s.writeJSONResponse(w, map[string]any{"count": count})
}

// handleGetNotification handles GET /api/notifications/{id}
func (s *Server) handleGetNotification(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	notification, err := s.service.Store().Get(r.Context(), id)
	if errors.Is(err, notifications.ErrNotFound) {
		s.writeErrorResponse(w, http.StatusNotFound, "notification not found", nil)
		return
	}
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "failed to get notification", err)
		return
	}

	s.writeJSONResponse(w, notification)
}

// handleMarkRead handles PATCH /api/notifications/{id}/read
func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := s.service.Store().MarkRead(r.Context(), id)
	if errors.Is(err, notifications.ErrNotFound) {
		s.writeErrorResponse(w, http.StatusNotFound, "notification not found", nil)
		return
	}
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "failed to mark notification read", err)
		return
	}

	s.writeJSONResponse(w, map[string]any{"success": true})
}

// handleDeleteNotification handles DELETE /api/notifications/{id}
func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := s.service.Store().Delete(r.Context(), id)
	if errors.Is(err, notifications.ErrNotFound) {
		s.writeErrorResponse(w, http.StatusNotFound, "notification not found", nil)
		return
	}
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "failed to delete notification", err)
		return
	}

	s.writeJSONResponse(w, map[string]any{"success": true})
}
