package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/reperio/internal/interfaces"
	"github.com/ternarybob/reperio/internal/models"
)

// EnrichHandler handles enrichment and filter HTTP requests
type EnrichHandler struct {
	enrichment interfaces.EnrichmentService
	filter     FilterEngine
	logger     arbor.ILogger
}

// FilterEngine narrows a place list against a filter state.
type FilterEngine interface {
	Apply(places []models.Place, state models.FilterState) []models.Place
}

// NewEnrichHandler creates a new enrichment handler with dependencies
func NewEnrichHandler(enrichment interfaces.EnrichmentService, filter FilterEngine, logger arbor.ILogger) *EnrichHandler {
	return &EnrichHandler{
		enrichment: enrichment,
		filter:     filter,
		logger:     logger,
	}
}

// enrichRequest is the body for POST /api/enrich
type enrichRequest struct {
	Places []models.Place `json:"places"`
}

// enrichResponse maps place ids to their enrichment records. Places absent
// from the mapping were skipped, not failed.
type enrichResponse struct {
	Records map[string]models.EnrichmentRecord `json:"records"`
}

// EnrichHandler handles POST /api/enrich requests
func (h *EnrichHandler) EnrichHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req enrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	records := h.enrichment.Enrich(r.Context(), req.Places)

	WriteJSON(w, http.StatusOK, enrichResponse{Records: records})
}

// filterRequest is the body for POST /api/filter
type filterRequest struct {
	Places []models.Place     `json:"places"`
	Filter models.FilterState `json:"filter"`
}

// filterResponse carries the narrowed place list.
type filterResponse struct {
	Places []models.Place `json:"places"`
}

// FilterHandler handles POST /api/filter requests
func (h *EnrichHandler) FilterHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	filtered := h.filter.Apply(req.Places, req.Filter)
	if filtered == nil {
		filtered = []models.Place{}
	}

	WriteJSON(w, http.StatusOK, filterResponse{Places: filtered})
}
