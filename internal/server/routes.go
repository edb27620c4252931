package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

func registerRoutes(r *mux.Router, deps Deps) {
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", handleHealth).Methods(http.MethodGet)

	tasks := taskHandlers{svc: deps.Tasks}
	api.HandleFunc("/tasks", tasks.list).Methods(http.MethodGet)
	api.HandleFunc("/tasks", tasks.create).Methods(http.MethodPost)
	api.HandleFunc("/tasks/stats", tasks.stats).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", tasks.get).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", tasks.update).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}", tasks.delete).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{id}/status", tasks.transition).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}/sort", tasks.reorder).Methods(http.MethodPut)

	kb := knowledgeHandlers{svc: deps.Knowledge}
	api.HandleFunc("/knowledge", kb.list).Methods(http.MethodGet)
	api.HandleFunc("/knowledge", kb.create).Methods(http.MethodPost)
	api.HandleFunc("/knowledge/{id}", kb.get).Methods(http.MethodGet)
	api.HandleFunc("/knowledge/{id}", kb.update).Methods(http.MethodPut)
	api.HandleFunc("/knowledge/{id}", kb.delete).Methods(http.MethodDelete)
	api.HandleFunc("/knowledge/{id}/status", kb.transition).Methods(http.MethodPut)

	projects := projectHandlers{repo: deps.Projects}
	api.HandleFunc("/projects", projects.list).Methods(http.MethodGet)
	api.HandleFunc("/projects", projects.create).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}", projects.get).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", projects.update).Methods(http.MethodPut)
	api.HandleFunc("/projects/{id}", projects.delete).Methods(http.MethodDelete)

	initiatives := initiativeHandlers{repo: deps.Initiatives}
	api.HandleFunc("/initiatives", initiatives.list).Methods(http.MethodGet)
	api.HandleFunc("/initiatives/{id}", initiatives.get).Methods(http.MethodGet)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
