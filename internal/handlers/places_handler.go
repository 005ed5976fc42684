package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/interfaces"
	"github.com/ternarybob/reperio/internal/models"
)

// PlacesHandler handles place search, aggregation, details and photo requests
type PlacesHandler struct {
	places        interfaces.PlacesService
	router        interfaces.SearchRouter
	aggregator    interfaces.CategoryAggregator
	enrichment    interfaces.EnrichmentService
	eventService  interfaces.EventService
	logger        arbor.ILogger
	validate      *validator.Validate
	defaultRadius float64
	photoWidth    int
}

// NewPlacesHandler creates a new places handler with dependencies
func NewPlacesHandler(
	cfg *common.Config,
	places interfaces.PlacesService,
	router interfaces.SearchRouter,
	aggregator interfaces.CategoryAggregator,
	enrichment interfaces.EnrichmentService,
	eventService interfaces.EventService,
	logger arbor.ILogger,
) *PlacesHandler {
	return &PlacesHandler{
		places:        places,
		router:        router,
		aggregator:    aggregator,
		enrichment:    enrichment,
		eventService:  eventService,
		logger:        logger,
		validate:      validator.New(),
		defaultRadius: cfg.PlacesAPI.DefaultRadius,
		photoWidth:    cfg.Enrichment.PhotoMaxWidth,
	}
}

// SearchHandler handles GET /api/places/search requests
func (h *PlacesHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query()

	req := &models.SearchRequest{
		Query:        query.Get("q"),
		CategoryType: query.Get("category"),
		PageToken:    query.Get("pagetoken"),
		RadiusMeters: h.defaultRadius,
	}

	if lat := query.Get("lat"); lat != "" {
		if parsed, err := strconv.ParseFloat(lat, 64); err == nil {
			req.Center.Lat = parsed
		}
	}
	if lng := query.Get("lng"); lng != "" {
		if parsed, err := strconv.ParseFloat(lng, 64); err == nil {
			req.Center.Lng = parsed
		}
	}
	if radius := query.Get("radius"); radius != "" {
		if parsed, err := strconv.ParseFloat(radius, 64); err == nil && parsed > 0 {
			req.RadiusMeters = parsed
		}
	}

	if err := h.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid search request: "+err.Error())
		return
	}

	requestID := common.NewRequestID()
	h.publishEvent(r, interfaces.EventSearchStarted, map[string]interface{}{
		"request_id": requestID,
		"query":      req.Query,
		"category":   req.CategoryType,
	})

	result, err := h.router.Route(r.Context(), req)
	if err != nil {
		h.logger.Warn().
			Str("request_id", requestID).
			Str("query", req.Query).
			Err(err).
			Msg("Search failed")
		h.publishEvent(r, interfaces.EventSearchFailed, map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		WriteProviderError(w, err)
		return
	}

	h.publishEvent(r, interfaces.EventSearchCompleted, map[string]interface{}{
		"request_id":   requestID,
		"result_count": len(result.Places),
	})

	WriteJSON(w, http.StatusOK, result)
}

// categoriesRequest is the body for POST /api/places/categories
type categoriesRequest struct {
	Categories   []string        `json:"categories" validate:"required,min=1"`
	Center       models.Location `json:"center"`
	RadiusMeters float64         `json:"radius_meters"`
	Enrich       bool            `json:"enrich"`
}

// categoriesResponse carries the merged (and optionally enriched) places.
type categoriesResponse struct {
	Places  []models.Place                     `json:"places"`
	Records map[string]models.EnrichmentRecord `json:"records,omitempty"`
}

// CategoriesHandler handles POST /api/places/categories requests. It fans out
// one provider call per category, merges with first-seen dedup, and optionally
// runs the enrichment pipeline over the merged set.
func (h *PlacesHandler) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req categoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid categories request: "+err.Error())
		return
	}
	if req.Center.Lat == 0 && req.Center.Lng == 0 {
		WriteError(w, http.StatusBadRequest, "search center coordinates are required")
		return
	}
	if req.RadiusMeters <= 0 {
		req.RadiusMeters = h.defaultRadius
	}

	merged, err := h.aggregator.SearchAllCategories(r.Context(), req.Categories, req.Center, req.RadiusMeters)
	if err != nil {
		WriteProviderError(w, err)
		return
	}

	resp := categoriesResponse{Places: merged}

	if req.Enrich && len(merged) > 0 {
		records := h.enrichment.Enrich(r.Context(), merged)
		for i := range resp.Places {
			if record, ok := records[resp.Places[i].ID]; ok {
				resp.Places[i].Labels = record.Labels
				resp.Places[i].Tags = append(resp.Places[i].Tags, record.Tags...)
				resp.Places[i].Features = append(resp.Places[i].Features, record.Features...)
			}
		}
		resp.Records = records
	}

	WriteJSON(w, http.StatusOK, resp)
}

// DetailsHandler handles GET /api/places/{id} requests
func (h *PlacesHandler) DetailsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	placeID := strings.TrimPrefix(r.URL.Path, "/api/places/")
	if placeID == "" || strings.Contains(placeID, "/") {
		WriteError(w, http.StatusBadRequest, "place id is required")
		return
	}

	details, err := h.places.GetDetails(r.Context(), placeID)
	if err != nil {
		WriteProviderError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, details)
}

// PhotoHandler handles GET /api/places/photo?ref=...&maxwidth=... requests,
// streaming the provider photo bytes so the credential never reaches clients.
func (h *PlacesHandler) PhotoHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ref := r.URL.Query().Get("ref")
	if ref == "" {
		WriteError(w, http.StatusBadRequest, "photo ref is required")
		return
	}

	maxWidth := h.photoWidth
	if widthStr := r.URL.Query().Get("maxwidth"); widthStr != "" {
		if parsed, err := strconv.Atoi(widthStr); err == nil && parsed > 0 {
			maxWidth = parsed
		}
	}

	data, contentType, err := h.places.FetchPhoto(r.Context(), models.PhotoRef(ref), maxWidth)
	if err != nil {
		WriteProviderError(w, err)
		return
	}

	if contentType == "" {
		contentType = "image/jpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}

func (h *PlacesHandler) publishEvent(r *http.Request, eventType interfaces.EventType, payload map[string]interface{}) {
	if h.eventService == nil {
		return
	}
	if err := h.eventService.Publish(r.Context(), interfaces.Event{Type: eventType, Payload: payload}); err != nil {
		h.logger.Warn().Err(err).Str("event_type", string(eventType)).Msg("Failed to publish event")
	}
}
