package places

import (
	"context"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/reperio/internal/interfaces"
	"github.com/ternarybob/reperio/internal/models"
)

// Router decides, per query, whether to issue a text search or a category
// search.
//
// The single-word-plus-category rule treats a lone term as a category hint
// rather than free text. Provider category search is more precise for
// single-token category-like queries. The rule lives here, behind the
// SearchRouter interface, so it can be revisited without touching aggregation
// or enrichment.
type Router struct {
	places interfaces.PlacesService
	logger arbor.ILogger
}

// NewRouter creates a new search router.
func NewRouter(places interfaces.PlacesService, logger arbor.ILogger) interfaces.SearchRouter {
	return &Router{
		places: places,
		logger: logger,
	}
}

// Route dispatches the request to text or category search based on the query
// shape, threading the pagination token through unchanged.
func (r *Router) Route(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error) {
	// Coordinates are mandatory; fail before any provider call
	if req.Center.Lat == 0 && req.Center.Lng == 0 {
		return nil, &models.ProviderError{
			Kind:    models.ErrMissingCoordinates,
			Message: "search center coordinates are required",
		}
	}

	query := strings.TrimSpace(req.Query)
	words := strings.Fields(query)

	switch {
	case len(words) == 1 && req.CategoryType != "":
		r.logger.Debug().
			Str("query", req.Query).
			Str("category_type", req.CategoryType).
			Msg("Routing single-word query to category search")
		return r.places.NearbySearch(ctx, req)

	case query == "" && req.CategoryType != "":
		r.logger.Debug().
			Str("category_type", req.CategoryType).
			Msg("Routing blank query to category search")
		return r.places.NearbySearch(ctx, req)

	case query != "":
		r.logger.Debug().
			Str("query", req.Query).
			Msg("Routing to text search")
		return r.places.TextSearch(ctx, req)

	default:
		return nil, &models.ProviderError{
			Kind:    models.ErrMissingQuery,
			Message: "search requires query text or a category type",
		}
	}
}
