package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/jask/taskdeck/internal/database/repository"
)

type projectHandlers struct {
	repo *repository.ProjectRepo
}

func (h projectHandlers) list(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("archived") == "true"
	out, err := h.repo.List(r.Context(), includeArchived)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if out == nil {
		out = []repository.Project{}
	}
	respondJSON(w, http.StatusOK, out)
}

func (h projectHandlers) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.repo.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h projectHandlers) create(w http.ResponseWriter, r *http.Request) {
	var p repository.Project
	if !decodeBody(w, r, &p) {
		return
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		respondError(w, http.StatusBadRequest, "project name must not be empty")
		return
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := h.repo.Upsert(r.Context(), p); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h projectHandlers) update(w http.ResponseWriter, r *http.Request) {
	var p repository.Project
	if !decodeBody(w, r, &p) {
		return
	}
	p.ID = mux.Vars(r)["id"]
	if _, err := h.repo.Get(r.Context(), p.ID); err != nil {
		respondServiceError(w, err)
		return
	}
	if err := h.repo.Upsert(r.Context(), p); err != nil {
		respondServiceError(w, err)
		return
	}
	updated, err := h.repo.Get(r.Context(), p.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h projectHandlers) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type initiativeHandlers struct {
	repo *repository.InitiativeRepo
}

func (h initiativeHandlers) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if out == nil {
		out = []repository.Initiative{}
	}
	respondJSON(w, http.StatusOK, out)
}

func (h initiativeHandlers) get(w http.ResponseWriter, r *http.Request) {
	in, err := h.repo.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, in)
}
