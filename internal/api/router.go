package api

import (
	"net/http"
	"store-locator/internal/api/handlers"
	"store-locator/internal/platform/obs"
	"store-locator/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(repo ports.StoreRepository, maxResults int, metrics *obs.Metrics) http.Handler {
	mux := http.NewServeMux()

	storeHandler := &handlers.StoreHandler{Repo: repo, MaxResults: maxResults}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/address", storeHandler.List)
	mux.HandleFunc("/address/", storeHandler.List)
	mux.Handle("/metrics", metrics.Handler())

	return requestIDMiddleware(loggingMiddleware(mux, metrics))
}
