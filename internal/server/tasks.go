package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jask/taskdeck/internal/database/repository"
	"github.com/jask/taskdeck/internal/service"
)

type taskHandlers struct {
	svc *service.TaskService
}

// createTaskResponse carries the created task plus an optional warning when
// a near-duplicate title exists in the project.
type createTaskResponse struct {
	Task          repository.Task `json:"task"`
	NearDuplicate *string         `json:"near_duplicate,omitempty"`
}

func (h taskHandlers) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := repository.TaskFilters{
		Status:       q.Get("status"),
		ProjectID:    q.Get("project"),
		InitiativeID: q.Get("initiative"),
		Label:        q.Get("label"),
		Search:       q.Get("search"),
		SortBy:       q.Get("sort"),
		SortAsc:      q.Get("order") == "asc",
	}
	out, err := h.svc.List(r.Context(), filters)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if out == nil {
		out = []repository.Task{}
	}
	respondJSON(w, http.StatusOK, out)
}

func (h taskHandlers) get(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (h taskHandlers) create(w http.ResponseWriter, r *http.Request) {
	var t repository.Task
	if !decodeBody(w, r, &t) {
		return
	}
	res, err := h.svc.Create(r.Context(), t)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	resp := createTaskResponse{Task: res.Task}
	if res.NearDuplicate != nil {
		resp.NearDuplicate = &res.NearDuplicate.Title
	}
	respondJSON(w, http.StatusCreated, resp)
}

func (h taskHandlers) update(w http.ResponseWriter, r *http.Request) {
	var t repository.Task
	if !decodeBody(w, r, &t) {
		return
	}
	t.ID = mux.Vars(r)["id"]
	if err := h.svc.Update(r.Context(), t); err != nil {
		respondServiceError(w, err)
		return
	}
	updated, err := h.svc.Get(r.Context(), t.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h taskHandlers) stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.CountByStatus(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, counts)
}

func (h taskHandlers) reorder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SortOrder int `json:"sort_order"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if err := h.svc.Reorder(r.Context(), mux.Vars(r)["id"], body.SortOrder); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h taskHandlers) transition(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	t, err := h.svc.Transition(r.Context(), mux.Vars(r)["id"], body.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (h taskHandlers) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
