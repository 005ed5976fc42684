package places

import (
	"context"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/reperio/internal/interfaces"
	"github.com/ternarybob/reperio/internal/models"
)

// canonicalTypes maps the three canonical category labels to fixed provider
// place type strings. Any other label is passed through lowercased.
var canonicalTypes = map[string]string{
	"cafe":       "cafe",
	"restaurant": "restaurant",
	"bar":        "bar",
}

// Aggregator fans out one category search per requested category and merges
// the results with first-seen-wins dedup by place id.
type Aggregator struct {
	places       interfaces.PlacesService
	eventService interfaces.EventService
	logger       arbor.ILogger
}

// NewAggregator creates a new category aggregator.
func NewAggregator(places interfaces.PlacesService, eventService interfaces.EventService, logger arbor.ILogger) interfaces.CategoryAggregator {
	return &Aggregator{
		places:       places,
		eventService: eventService,
		logger:       logger,
	}
}

// providerType resolves a category label to the provider place type.
func providerType(category string) string {
	lowered := strings.ToLower(strings.TrimSpace(category))
	if t, ok := canonicalTypes[lowered]; ok {
		return t
	}
	return lowered
}

// SearchAllCategories issues the per-category searches concurrently and merges
// the results. A failed category contributes zero results and a warning; the
// aggregation proceeds with the remaining categories. Merge order is the
// requested category order, then provider order within each category, so the
// output is deterministic regardless of which call returns first.
func (a *Aggregator) SearchAllCategories(ctx context.Context, categories []string, center models.Location, radiusMeters float64) ([]models.Place, error) {
	results := make([]*models.SearchResult, len(categories))

	var wg sync.WaitGroup
	for i, category := range categories {
		wg.Add(1)
		go func(idx int, cat string) {
			defer wg.Done()

			req := &models.SearchRequest{
				Query:        strings.ToLower(strings.TrimSpace(cat)),
				Center:       center,
				RadiusMeters: radiusMeters,
				CategoryType: providerType(cat),
			}

			result, err := a.places.NearbySearch(ctx, req)
			if err != nil {
				a.logger.Warn().
					Str("category", cat).
					Err(err).
					Msg("Category search failed, continuing with remaining categories")
				a.publishEvent(ctx, interfaces.EventCategoryFailed, map[string]interface{}{
					"category": cat,
					"error":    err.Error(),
				})
				return
			}
			results[idx] = result
		}(i, category)
	}
	wg.Wait()

	seen := make(map[string]bool)
	merged := make([]models.Place, 0)
	for _, result := range results {
		if result == nil {
			continue
		}
		for _, place := range result.Places {
			if seen[place.ID] {
				continue
			}
			seen[place.ID] = true
			merged = append(merged, place)
		}
	}

	a.logger.Info().
		Int("categories", len(categories)).
		Int("merged_places", len(merged)).
		Msg("Category aggregation completed")

	return merged, nil
}

func (a *Aggregator) publishEvent(ctx context.Context, eventType interfaces.EventType, payload map[string]interface{}) {
	if a.eventService == nil {
		return
	}
	if err := a.eventService.Publish(ctx, interfaces.Event{Type: eventType, Payload: payload}); err != nil {
		a.logger.Warn().Err(err).Str("event_type", string(eventType)).Msg("Failed to publish event")
	}
}
