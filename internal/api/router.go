package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/netops-tools/subnet-inventory/internal/api/handler"
	"github.com/netops-tools/subnet-inventory/internal/api/middleware"
	"github.com/netops-tools/subnet-inventory/internal/inventory"
	"github.com/netops-tools/subnet-inventory/internal/storage"
)

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(store storage.Storage, svc *inventory.Service, bootstrapKey string) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging)

	// Health check (no auth required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes (auth required, JSON Content-Type)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ContentType)
		r.Use(middleware.Auth(store, bootstrapKey))

		// API Keys
		keyHandler := handler.NewAPIKeyHandler(store)
		r.Post("/keys", keyHandler.Create)
		r.Get("/keys", keyHandler.List)
		r.Delete("/keys/{id}", keyHandler.Delete)

		// Subnets
		subnetHandler := handler.NewSubnetHandler(svc)
		r.Post("/subnets", subnetHandler.Create)
		r.Get("/subnets", subnetHandler.List)
		r.Get("/subnets/conflicts", subnetHandler.Conflicts)
		r.Get("/subnets/query", subnetHandler.Query)
		r.Get("/subnets/{name}", subnetHandler.Get)
		r.Delete("/subnets/{name}", subnetHandler.Delete)
	})

	return r
}
