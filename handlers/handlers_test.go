package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notekit/server/database"
	"github.com/notekit/server/services"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	store, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	hub := services.NewHub()
	go hub.Run()

	todosHandler := NewTodosHandler(services.NewTodoService(store), hub)
	timetableHandler := NewTimetableHandler(services.NewTimetableService(store), hub)

	r := mux.NewRouter()
	r.HandleFunc("/api/todos", todosHandler.Create).Methods("POST")
	r.HandleFunc("/api/todos", todosHandler.List).Methods("GET")
	r.HandleFunc("/api/todos/{id}", todosHandler.Get).Methods("GET")
	r.HandleFunc("/api/todos/{id}", todosHandler.Update).Methods("PUT")
	r.HandleFunc("/api/todos/{id}", todosHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/timetable/mark-complete", timetableHandler.MarkComplete).Methods("POST")
	return r
}

func doJSON(t *testing.T, r *mux.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateTodoBlock_SeedsSingleItem(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "POST", "/api/todos?username=alice", `{}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var block database.TodoBlock
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &block))
	assert.NotEmpty(t, block.ID)
	assert.Equal(t, "Untitled List", block.Title)
	require.Len(t, block.Items, 1)
	assert.Equal(t, 1, block.Items[0].ID)

	// Retrieving returns the same block unchanged.
	rec = doJSON(t, r, "GET", "/api/todos/"+block.ID+"?username=alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got database.TodoBlock
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, block, got)
}

func TestCreateTodoBlock_MissingUsername(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "POST", "/api/todos", `{"title":"No tenant"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username is required")
}

func TestUpdateTodoBlock_NotFound(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "PUT", "/api/todos/does-not-exist?username=alice", `{"items":[]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "does-not-exist")
}

func TestUpdateTodoBlock_MalformedItemID(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "POST", "/api/todos?username=alice", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var block database.TodoBlock
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &block))

	rec = doJSON(t, r, "PUT", "/api/todos/"+block.ID+"?username=alice",
		`{"items":[{"id":"not-a-number","text":"x"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "an id that cannot cast to integer is rejected")
}

func TestMarkComplete_ReturnsNewStreak(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "POST", "/api/timetable/mark-complete?username=alice",
		`{"task_id":"slot-1","date":"2026-03-01"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Message   string `json:"message"`
		NewStreak int    `json:"new_streak"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "done", resp.Message)
	assert.Equal(t, 1, resp.NewStreak)
}

func TestMarkComplete_MalformedDate(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "POST", "/api/timetable/mark-complete?username=alice",
		`{"task_id":"slot-1","date":"March 1st"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
