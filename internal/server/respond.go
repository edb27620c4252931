package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/jask/taskdeck/internal/database/repository"
	"github.com/jask/taskdeck/internal/service"
	"github.com/jask/taskdeck/internal/workflow"
)

type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("http: encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorBody{Error: msg})
}

// respondServiceError maps domain errors onto HTTP statuses: missing records
// are 404, workflow violations 409, validation problems 400, the rest 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, workflow.ErrInvalidTransition):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, workflow.ErrUnknownStatus),
		errors.Is(err, service.ErrEmptyTitle),
		errors.Is(err, service.ErrDuplicateTitle):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("http: internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	return true
}
