package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sanketrathod07/taskview/logging"
	"github.com/sanketrathod07/taskview/services"
)

type envelope map[string]interface{}

func writeJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"success": false, "message": message})
}

// decodeJSON parses the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// writeServiceError maps a registry failure to the HTTP contract. notFoundMsg
// names the entity for 404s; internal errors are logged and replaced with a
// generic message so store details never reach the client.
func writeServiceError(w http.ResponseWriter, err error, notFoundMsg string) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, services.ErrQuotaExceeded):
		writeError(w, http.StatusBadRequest, "You cannot create more than 4 projects")
	case errors.Is(err, services.ErrEmailExists):
		writeError(w, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMsg)
	default:
		logging.Logger.Errorf("Event ID: INTERNAL_ERROR, Description: Unexpected error: %v", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong on the server")
	}
}
