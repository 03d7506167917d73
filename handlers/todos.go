package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/notekit/server/services"
)

// TodosHandler handles todo block endpoints.
type TodosHandler struct {
	todoService *services.TodoService
	hub         *services.Hub
}

func NewTodosHandler(todoService *services.TodoService, hub *services.Hub) *TodosHandler {
	return &TodosHandler{
		todoService: todoService,
		hub:         hub,
	}
}

// Create stores a new todo block with server-assigned item ids.
func (h *TodosHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.TodoBlockInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	user := username(r)
	block, err := h.todoService.Create(r.Context(), user, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.hub.Notify(user, services.Event{Type: "todos", Data: block})
	writeJSON(w, http.StatusOK, block)
}

// List returns every todo block for the user.
func (h *TodosHandler) List(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.todoService.List(r.Context(), username(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, blocks)
}

// Get returns a single todo block by id.
func (h *TodosHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	block, err := h.todoService.Get(r.Context(), username(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, block)
}

// Update merges the submitted items into the stored block.
func (h *TodosHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.TodoBlockInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	user := username(r)
	id := mux.Vars(r)["id"]
	block, err := h.todoService.Update(r.Context(), user, id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.hub.Notify(user, services.Event{Type: "todos", Data: block})
	writeJSON(w, http.StatusOK, block)
}

// Delete removes a todo block.
func (h *TodosHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := username(r)
	id := mux.Vars(r)["id"]
	if err := h.todoService.Delete(r.Context(), user, id); err != nil {
		writeServiceError(w, err)
		return
	}

	h.hub.Notify(user, services.Event{Type: "todos"})
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Todo block %s deleted successfully", id),
	})
}
