package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jask/taskdeck/internal/database/repository"
	"github.com/jask/taskdeck/internal/service"
)

type knowledgeHandlers struct {
	svc *service.KnowledgeService
}

func (h knowledgeHandlers) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := repository.KnowledgeFilters{
		Status:    q.Get("status"),
		ProjectID: q.Get("project"),
		Tag:       q.Get("tag"),
		Search:    q.Get("search"),
	}
	out, err := h.svc.List(r.Context(), filters)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if out == nil {
		out = []repository.KnowledgeEntry{}
	}
	respondJSON(w, http.StatusOK, out)
}

func (h knowledgeHandlers) get(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, e)
}

func (h knowledgeHandlers) create(w http.ResponseWriter, r *http.Request) {
	var e repository.KnowledgeEntry
	if !decodeBody(w, r, &e) {
		return
	}
	created, err := h.svc.Create(r.Context(), e)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h knowledgeHandlers) update(w http.ResponseWriter, r *http.Request) {
	var e repository.KnowledgeEntry
	if !decodeBody(w, r, &e) {
		return
	}
	e.ID = mux.Vars(r)["id"]
	if err := h.svc.Update(r.Context(), e); err != nil {
		respondServiceError(w, err)
		return
	}
	updated, err := h.svc.Get(r.Context(), e.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h knowledgeHandlers) transition(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	e, err := h.svc.Transition(r.Context(), mux.Vars(r)["id"], body.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, e)
}

func (h knowledgeHandlers) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
