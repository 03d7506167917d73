package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/notekit/server/services"
)

// NotesHandler handles note endpoints.
type NotesHandler struct {
	noteService *services.NoteService
	hub         *services.Hub
}

func NewNotesHandler(noteService *services.NoteService, hub *services.Hub) *NotesHandler {
	return &NotesHandler{
		noteService: noteService,
		hub:         hub,
	}
}

// Create stores a new note.
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.NoteInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	user := username(r)
	note, err := h.noteService.Create(r.Context(), user, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.hub.Notify(user, services.Event{Type: "notes", Data: note})
	writeJSON(w, http.StatusOK, note)
}

// List returns every note for the user.
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.noteService.List(r.Context(), username(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// Update replaces a note by id.
func (h *NotesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.NoteInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	user := username(r)
	id := mux.Vars(r)["id"]
	note, err := h.noteService.Update(r.Context(), user, id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.hub.Notify(user, services.Event{Type: "notes", Data: note})
	writeJSON(w, http.StatusOK, note)
}

// Delete removes a note by id.
func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := username(r)
	id := mux.Vars(r)["id"]
	if err := h.noteService.Delete(r.Context(), user, id); err != nil {
		writeServiceError(w, err)
		return
	}

	h.hub.Notify(user, services.Event{Type: "notes"})
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Note %s deleted successfully", id),
	})
}
