package server

import (
	"net/http"
	"strings"

	"github.com/marketlens/marketlens/internal/models"
)

// routeNotes dispatches /api/notes/{userID}[/{noteID}] requests.
func (s *Server) routeNotes(w http.ResponseWriter, r *http.Request) {
	rest := PathParam(r.URL.Path, "/api/notes/", "")
	if rest == "" {
		WriteError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	parts := strings.Split(rest, "/")
	userID := parts[0]

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		s.handleNotesList(w, r, userID)
	case len(parts) == 1 && r.Method == http.MethodPost:
		s.handleNoteAdd(w, r, userID)
	case len(parts) == 2 && r.Method == http.MethodPut:
		s.handleNoteUpdate(w, r, userID, parts[1])
	case len(parts) == 2 && r.Method == http.MethodDelete:
		s.handleNoteDelete(w, r, userID, parts[1])
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete)
	}
}

// handleNotesList handles GET /api/notes/{userID}.
func (s *Server) handleNotesList(w http.ResponseWriter, r *http.Request, userID string) {
	doc, err := s.app.UserStore.GetDocument(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	notes := doc.Notes
	if notes == nil {
		notes = []models.Note{}
	}
	WriteJSON(w, http.StatusOK, notes)
}

// handleNoteAdd handles POST /api/notes/{userID}.
func (s *Server) handleNoteAdd(w http.ResponseWriter, r *http.Request, userID string) {
	var note models.Note
	if !DecodeJSON(w, r, &note) {
		return
	}

	if strings.TrimSpace(note.Title) == "" && strings.TrimSpace(note.Content) == "" {
		WriteError(w, http.StatusBadRequest, "Note title or content is required")
		return
	}

	created, err := s.app.UserStore.AddNote(r.Context(), userID, note)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// handleNoteUpdate handles PUT /api/notes/{userID}/{noteID}.
func (s *Server) handleNoteUpdate(w http.ResponseWriter, r *http.Request, userID, noteID string) {
	var note models.Note
	if !DecodeJSON(w, r, &note) {
		return
	}
	note.ID = noteID

	if err := s.app.UserStore.UpdateNote(r.Context(), userID, note); err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, note)
}

// handleNoteDelete handles DELETE /api/notes/{userID}/{noteID}.
func (s *Server) handleNoteDelete(w http.ResponseWriter, r *http.Request, userID, noteID string) {
	if err := s.app.UserStore.DeleteNote(r.Context(), userID, noteID); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
