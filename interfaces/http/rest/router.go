// Package rest exposes the latest benchmark results over HTTP for the serve
// command.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"ddbench/interfaces/http/rest/handlers"
	"ddbench/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	resultsPath string
	logger      *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(resultsPath string, logger *zap.Logger) *Router {
	return &Router{resultsPath: resultsPath, logger: logger}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", rt.healthCheck)

	reportHandler := handlers.NewReportHandler(rt.resultsPath, rt.logger)
	router.Get("/report", reportHandler.GetReport)
	router.Get("/summaries", reportHandler.GetSummaries)
	router.Get("/measurements", reportHandler.GetMeasurements)

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
