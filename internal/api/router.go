// Package api exposes the recipe box over HTTP.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/hammamikhairi/recipebox/internal/engine"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// Server holds the handler dependencies.
type Server struct {
	engine  *engine.Engine
	log     *logger.Logger
	metrics http.Handler
}

// NewServer creates the API server. metrics may be nil, in which case
// /metrics is not routed.
func NewServer(eng *engine.Engine, log *logger.Logger, metrics http.Handler) *Server {
	return &Server{engine: eng, log: log.Named("api"), metrics: metrics}
}

// Router returns the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if _, err := fmt.Fprintln(w, "OK"); err != nil {
			s.log.Debug("health write: %v", err)
		}
	}).Methods(http.MethodGet)

	r.HandleFunc("/recipes", s.listRecipes).Methods(http.MethodGet)
	r.HandleFunc("/recipes", s.createRecipe).Methods(http.MethodPost)
	r.HandleFunc("/recipes/{id}", s.getRecipe).Methods(http.MethodGet)
	r.HandleFunc("/recipes/{id}", s.updateRecipe).Methods(http.MethodPut)
	r.HandleFunc("/recipes/{id}", s.deleteRecipe).Methods(http.MethodDelete)
	r.HandleFunc("/recipes/{id}/view", s.viewRecipe).Methods(http.MethodGet)

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics).Methods(http.MethodGet)
	}
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
