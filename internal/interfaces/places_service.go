package interfaces

import (
	"context"

	"github.com/ternarybob/reperio/internal/models"
)

// PlacesService defines the operations exposed by the places provider client.
// All search results are normalized into the internal Place schema regardless
// of which upstream API shape served the request.
type PlacesService interface {
	// TextSearch performs a free-text search biased to the request center.
	TextSearch(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error)

	// NearbySearch performs a category/nearby search restricted to the request
	// center and radius. The request's CategoryType selects the provider place
	// type.
	NearbySearch(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error)

	// GetDetails fetches details for a single place. The place id may arrive
	// bare or already namespaced; normalization is idempotent.
	GetDetails(ctx context.Context, placeID string) (*models.PlaceDetails, error)

	// FetchPhoto streams the photo media bytes for the given reference.
	FetchPhoto(ctx context.Context, ref models.PhotoRef, maxWidth int) ([]byte, string, error)

	// PhotoURL resolves an opaque photo reference to a fetchable media URL.
	// Pure string construction, no network.
	PhotoURL(ref models.PhotoRef, maxWidth int) string
}

// SearchRouter decides, per query, whether to issue a text search or a
// nearby/category search, and threads pagination tokens.
type SearchRouter interface {
	Route(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error)
}

// CategoryAggregator fans out one provider call per requested category and
// merges the results with first-seen-wins dedup by place id.
type CategoryAggregator interface {
	SearchAllCategories(ctx context.Context, categories []string, center models.Location, radiusMeters float64) ([]models.Place, error)
}
