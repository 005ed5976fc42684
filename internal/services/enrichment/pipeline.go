package enrichment

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/interfaces"
	"github.com/ternarybob/reperio/internal/models"
)

// Service implements the EnrichmentService interface. Places are processed
// sequentially, one vision call in flight at a time, to bound upstream request
// size and rate.
type Service struct {
	vision       interfaces.VisionService
	places       interfaces.PlacesService
	storage      interfaces.EnrichmentStorage
	eventService interfaces.EventService
	logger       arbor.ILogger
	prompt       *promptLoader
	maxPhotos    int
	photoWidth   int
}

// NewService creates a new enrichment service. Storage and event service are
// optional; without storage every place is analyzed fresh.
func NewService(
	cfg *common.EnrichmentConfig,
	vision interfaces.VisionService,
	places interfaces.PlacesService,
	storage interfaces.EnrichmentStorage,
	eventService interfaces.EventService,
	logger arbor.ILogger,
) interfaces.EnrichmentService {
	maxPhotos := cfg.MaxPhotos
	if maxPhotos <= 0 {
		maxPhotos = 6
	}
	photoWidth := cfg.PhotoMaxWidth
	if photoWidth <= 0 {
		photoWidth = 800
	}

	return &Service{
		vision:       vision,
		places:       places,
		storage:      storage,
		eventService: eventService,
		logger:       logger,
		prompt:       newPromptLoader(cfg.SystemPromptURL),
		maxPhotos:    maxPhotos,
		photoWidth:   photoWidth,
	}
}

// Enrich analyzes each place's photos and returns the per-place records.
// Never fails as a whole: per-place failures are logged and the place is
// simply absent from the returned mapping.
func (s *Service) Enrich(ctx context.Context, places []models.Place) map[string]models.EnrichmentRecord {
	results := make(map[string]models.EnrichmentRecord)
	if len(places) == 0 {
		return results
	}
	if s.vision == nil {
		s.logger.Warn().Msg("No vision service configured, skipping enrichment")
		return results
	}

	runID := common.NewEnrichmentID()
	s.publishEvent(ctx, interfaces.EventEnrichmentStarted, map[string]interface{}{
		"enrichment_id": runID,
		"place_count":   len(places),
	})

	systemPrompt := s.prompt.Load()

	for _, place := range places {
		record, ok := s.enrichOne(ctx, systemPrompt, &place)
		if !ok {
			continue
		}
		results[place.ID] = *record
	}

	// Delivered to all subscribers before the caller's response is written
	s.publishEventSync(ctx, interfaces.EventEnrichmentCompleted, map[string]interface{}{
		"enrichment_id":  runID,
		"place_count":    len(places),
		"enriched_count": len(results),
	})

	s.logger.Info().
		Str("enrichment_id", runID).
		Int("place_count", len(places)).
		Int("enriched_count", len(results)).
		Msg("Enrichment run completed")

	return results
}

// enrichOne runs the per-place pipeline. Any failure results in (nil, false);
// the caller skips the place and continues.
func (s *Service) enrichOne(ctx context.Context, systemPrompt string, place *models.Place) (*models.EnrichmentRecord, bool) {
	if s.storage != nil {
		if cached, ok := s.storage.GetRecord(place.ID); ok {
			s.logger.Debug().Str("place_id", place.ID).Msg("Using cached enrichment record")
			return cached, true
		}
	}

	photoURLs := s.collectPhotoURLs(place)
	if len(photoURLs) == 0 {
		s.skipPlace(ctx, place, "no photos")
		return nil, false
	}

	messages := buildMessages(systemPrompt, place.Name, photoURLs)

	reply, err := s.vision.Chat(ctx, messages)
	if err != nil {
		s.logger.Warn().
			Str("place_id", place.ID).
			Str("name", place.Name).
			Err(err).
			Msg("Vision call failed, skipping place")
		s.skipPlace(ctx, place, "vision call failed")
		return nil, false
	}

	raw, ok := ExtractJSON(reply)
	if !ok {
		s.logger.Warn().
			Str("place_id", place.ID).
			Str("name", place.Name).
			Msg("No JSON object in vision reply, skipping place")
		s.skipPlace(ctx, place, "no JSON in reply")
		return nil, false
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		s.logger.Warn().
			Str("place_id", place.ID).
			Str("name", place.Name).
			Err(err).
			Msg("Failed to parse vision reply, skipping place")
		s.skipPlace(ctx, place, "unparsable JSON")
		return nil, false
	}

	labels, features, tags := MapLabels(&analysis)
	record := &models.EnrichmentRecord{
		PlaceID:  place.ID,
		Labels:   labels,
		Features: features,
		Tags:     tags,
	}

	if s.storage != nil {
		if err := s.storage.SaveRecord(record); err != nil {
			s.logger.Warn().Str("place_id", place.ID).Err(err).Msg("Failed to cache enrichment record")
		}
	}

	s.logger.Debug().
		Str("place_id", place.ID).
		Str("name", place.Name).
		Int("label_count", len(labels)).
		Msg("Place enriched")

	return record, true
}

// collectPhotoURLs gathers up to maxPhotos fetchable photo URLs for a place:
// its photo reference list first, then the single legacy fallback field.
// Duplicates and anything not shaped like a URL are dropped.
func (s *Service) collectPhotoURLs(place *models.Place) []string {
	candidates := make([]string, 0, len(place.Photos)+1)
	for _, ref := range place.Photos {
		if ref == "" {
			continue
		}
		candidates = append(candidates, s.places.PhotoURL(ref, s.photoWidth))
	}
	if place.Photo != "" {
		candidates = append(candidates, place.Photo)
	}

	seen := make(map[string]bool)
	urls := make([]string, 0, len(candidates))
	for _, u := range candidates {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			continue
		}
		if seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
		if len(urls) == s.maxPhotos {
			break
		}
	}
	return urls
}

func (s *Service) skipPlace(ctx context.Context, place *models.Place, reason string) {
	s.publishEvent(ctx, interfaces.EventPlaceSkipped, map[string]interface{}{
		"place_id": place.ID,
		"name":     place.Name,
		"reason":   reason,
	})
}

func (s *Service) publishEvent(ctx context.Context, eventType interfaces.EventType, payload map[string]interface{}) {
	if s.eventService == nil {
		return
	}
	if err := s.eventService.Publish(ctx, interfaces.Event{Type: eventType, Payload: payload}); err != nil {
		s.logger.Warn().Err(err).Str("event_type", string(eventType)).Msg("Failed to publish event")
	}
}

func (s *Service) publishEventSync(ctx context.Context, eventType interfaces.EventType, payload map[string]interface{}) {
	if s.eventService == nil {
		return
	}
	if err := s.eventService.PublishSync(ctx, interfaces.Event{Type: eventType, Payload: payload}); err != nil {
		s.logger.Warn().Err(err).Str("event_type", string(eventType)).Msg("Failed to publish event")
	}
}
