package interfaces

import (
	"context"

	"github.com/ternarybob/reperio/internal/models"
)

// EnrichmentService derives semantic ambiance labels for places by analyzing
// their photos with a vision-capable chat model.
//
// Enrich never fails as a whole: individual place failures are swallowed and
// the affected place is simply absent from the returned mapping.
type EnrichmentService interface {
	Enrich(ctx context.Context, places []models.Place) map[string]models.EnrichmentRecord
}

// EnrichmentStorage caches enrichment records so repeated category rounds do
// not re-invoke the vision model for recently analyzed places.
type EnrichmentStorage interface {
	GetRecord(placeID string) (*models.EnrichmentRecord, bool)
	SaveRecord(record *models.EnrichmentRecord) error
	Close() error
}
