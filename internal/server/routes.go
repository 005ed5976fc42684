package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Places
	mux.HandleFunc("/api/places/search", s.app.PlacesHandler.SearchHandler)         // GET - routed text/category search
	mux.HandleFunc("/api/places/categories", s.app.PlacesHandler.CategoriesHandler) // POST - multi-category fan-out
	mux.HandleFunc("/api/places/photo", s.app.PlacesHandler.PhotoHandler)           // GET - photo media proxy
	mux.HandleFunc("/api/places/", s.app.PlacesHandler.DetailsHandler)              // GET /{id}

	// API routes - Enrichment and filtering
	mux.HandleFunc("/api/enrich", s.app.EnrichHandler.EnrichHandler)
	mux.HandleFunc("/api/filter", s.app.EnrichHandler.FilterHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	return mux
}
