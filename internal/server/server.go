// Package server exposes the REST surface: conventional CRUD per data model
// plus a status-transition endpoint backed by the workflow table.
package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jask/taskdeck/internal/database/repository"
	"github.com/jask/taskdeck/internal/service"
)

// Deps bundles what the handlers need.
type Deps struct {
	Tasks       *service.TaskService
	Knowledge   *service.KnowledgeService
	Projects    *repository.ProjectRepo
	Initiatives *repository.InitiativeRepo
}

// Server wraps the router and the HTTP listener.
type Server struct {
	http *http.Server
}

// New builds the router and returns a server ready to listen on addr.
func New(addr string, deps Deps) *Server {
	r := mux.NewRouter()
	registerRoutes(r, deps)
	r.Use(logMiddleware)

	return &Server{
		http: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	log.Printf("serve: listening on http://%s", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler exposes the router for httptest.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("http: %s %s (%s)", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}
