package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/notekit/server/database"
	"github.com/notekit/server/services"
)

// TimetableHandler handles weekly template and streak endpoints.
type TimetableHandler struct {
	timetableService *services.TimetableService
	hub              *services.Hub
}

func NewTimetableHandler(timetableService *services.TimetableService, hub *services.Hub) *TimetableHandler {
	return &TimetableHandler{
		timetableService: timetableService,
		hub:              hub,
	}
}

// GetTemplates loads the weekly template.
func (h *TimetableHandler) GetTemplates(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.timetableService.Templates(r.Context(), username(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

// SaveTemplates stores the weekly template, assigning slot ids where
// missing.
func (h *TimetableHandler) SaveTemplates(w http.ResponseWriter, r *http.Request) {
	var tpl database.WeeklyTemplate
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	user := username(r)
	if err := h.timetableService.SaveTemplates(r.Context(), user, &tpl); err != nil {
		writeServiceError(w, err)
		return
	}

	h.hub.Notify(user, services.Event{Type: "timetable"})
	writeJSON(w, http.StatusOK, map[string]string{"message": "templates_saved"})
}

// Today returns the active sequence for today with streak state attached.
func (h *TimetableHandler) Today(w http.ResponseWriter, r *http.Request) {
	view, err := h.timetableService.Today(r.Context(), username(r), time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// MarkComplete records a completion for a slot and returns the new streak.
func (h *TimetableHandler) MarkComplete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaskID string `json:"task_id"`
		Date   string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	user := username(r)
	newStreak, err := h.timetableService.MarkComplete(r.Context(), user, req.TaskID, req.Date)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.hub.Notify(user, services.Event{Type: "timetable"})
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "done",
		"new_streak": newStreak,
	})
}
