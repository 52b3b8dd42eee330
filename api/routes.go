package api

import (
	"github.com/garnizeh/keepalive/pkg/repository"
	"github.com/gorilla/mux"
)

func SetupRoutes(version, buildTime string, store repository.ProjectStore, runner Runner) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{}
	projectsHandler := NewProjectsHandler(store)
	runHandler := NewRunHandler(runner)

	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")

	// API v1 routes. Single-operator deployment on a trusted host; there is
	// no operator authentication layer.
	apiV1 := r.PathPrefix("/v1").Subrouter()

	apiV1.HandleFunc("/projects", projectsHandler.List).Methods("GET")
	apiV1.HandleFunc("/projects", projectsHandler.Create).Methods("POST")
	apiV1.HandleFunc("/projects/{id}", projectsHandler.Get).Methods("GET")
	apiV1.HandleFunc("/projects/{id}", projectsHandler.Update).Methods("PATCH")
	apiV1.HandleFunc("/projects/{id}", projectsHandler.Delete).Methods("DELETE")
	apiV1.HandleFunc("/projects/{id}/enable", projectsHandler.SetEnabled(true)).Methods("POST")
	apiV1.HandleFunc("/projects/{id}/disable", projectsHandler.SetEnabled(false)).Methods("POST")
	apiV1.HandleFunc("/run", runHandler.Trigger).Methods("POST")

	return r
}
