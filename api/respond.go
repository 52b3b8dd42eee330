package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/garnizeh/keepalive/pkg/repository"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", "err", err)
	}
}

// storeError maps repository sentinel errors onto HTTP status codes.
func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, "project not found", http.StatusNotFound)
	case errors.Is(err, repository.ErrDuplicateName):
		http.Error(w, "project name already exists", http.StatusConflict)
	case errors.Is(err, repository.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrStoreBusy):
		http.Error(w, "store is busy, try again", http.StatusServiceUnavailable)
	default:
		logger.Error("store operation failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
