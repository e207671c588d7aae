// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"taskdesk/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given. A non-nil adminGate is
// applied to the destructive routes only: entity deletes and budget updates.
func NewRouter(
	projectHandler *handlers.ProjectHandler,
	taskHandler *handlers.TaskHandler,
	healthHandler *handlers.HealthHandler,
	adminGate func(http.Handler) http.Handler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	gated := func(r chi.Router) chi.Router {
		if adminGate == nil {
			return r
		}
		return r.With(adminGate)
	}

	// Health endpoints (outside /api/v1 prefix).
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// API v1 routes.
	r.Route("/api/v1", func(r chi.Router) {
		// Project CRUD.
		r.Get("/projects", projectHandler.ListProjects)
		r.Post("/projects", projectHandler.CreateProject)
		r.Get("/projects/{id}", projectHandler.GetProject)
		r.Patch("/projects/{id}", projectHandler.UpdateProject)
		gated(r).Delete("/projects/{id}", projectHandler.DeleteProject)

		// Project workflow operations.
		gated(r).Post("/projects/{id}/budget", projectHandler.UpdateBudget)
		r.Get("/projects/{id}/stats", projectHandler.GetStats)

		// Task CRUD.
		r.Get("/tasks", taskHandler.ListTasks)
		r.Post("/tasks", taskHandler.CreateTask)
		r.Get("/tasks/{id}", taskHandler.GetTask)
		r.Patch("/tasks/{id}", taskHandler.UpdateTask)
		gated(r).Delete("/tasks/{id}", taskHandler.DeleteTask)

		// Task workflow operations.
		r.Post("/tasks/{id}/complete", taskHandler.CompleteTask)
		r.Post("/tasks/{id}/assign", taskHandler.AssignTask)
	})

	return r
}
