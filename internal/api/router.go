package api

import (
	"net/http"

	"coffee-proximity-service/internal/api/handlers"
	"coffee-proximity-service/internal/ports"
	"coffee-proximity-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. Handlers stay unaware of concrete adapters.
func NewRouter(repo ports.ShopRepository, sync *services.Synchronizer) http.Handler {
	mux := http.NewServeMux()

	shopHandler := &handlers.ShopHandler{Repo: repo}
	syncHandler := &handlers.SyncHandler{Sync: sync, Repo: repo}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/api/v1/coffee-shops", shopHandler.Shops)
	mux.HandleFunc("/api/v1/sync", syncHandler.Trigger)
	mux.HandleFunc("/api/v1/sync/status", syncHandler.Status)

	return loggingMiddleware(mux)
}
