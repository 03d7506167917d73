package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/notekit/server/database"
	"github.com/notekit/server/services"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeServiceError maps errors onto the response taxonomy: validation
// failures 400, missing documents 404, bad credentials 401, everything
// else an opaque 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *database.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		log.Printf("Internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// username extracts the tenant username query parameter. Validation
// happens in the storage layer, before any table is touched.
func username(r *http.Request) string {
	return r.URL.Query().Get("username")
}
