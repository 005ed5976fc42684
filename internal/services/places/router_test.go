package places

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/reperio/internal/models"
)

// mockPlacesService records which search mode was invoked.
type mockPlacesService struct {
	textSearchFunc   func(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error)
	nearbySearchFunc func(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error)
}

func (m *mockPlacesService) TextSearch(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error) {
	if m.textSearchFunc != nil {
		return m.textSearchFunc(ctx, req)
	}
	return &models.SearchResult{Status: models.SearchStatusZeroResults}, nil
}

func (m *mockPlacesService) NearbySearch(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error) {
	if m.nearbySearchFunc != nil {
		return m.nearbySearchFunc(ctx, req)
	}
	return &models.SearchResult{Status: models.SearchStatusZeroResults}, nil
}

func (m *mockPlacesService) GetDetails(ctx context.Context, placeID string) (*models.PlaceDetails, error) {
	return nil, nil
}

func (m *mockPlacesService) FetchPhoto(ctx context.Context, ref models.PhotoRef, maxWidth int) ([]byte, string, error) {
	return nil, "", nil
}

func (m *mockPlacesService) PhotoURL(ref models.PhotoRef, maxWidth int) string {
	return "https://example.com/" + string(ref)
}

func routeModes(t *testing.T, query, categoryType string) (textCalled, nearbyCalled bool) {
	t.Helper()

	mock := &mockPlacesService{
		textSearchFunc: func(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error) {
			textCalled = true
			return &models.SearchResult{Status: models.SearchStatusOK}, nil
		},
		nearbySearchFunc: func(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error) {
			nearbyCalled = true
			return &models.SearchResult{Status: models.SearchStatusOK}, nil
		},
	}

	router := NewRouter(mock, arbor.NewLogger())
	_, err := router.Route(context.Background(), &models.SearchRequest{
		Query:        query,
		Center:       models.Location{Lat: 41.0, Lng: 29.0},
		RadiusMeters: 3000,
		CategoryType: categoryType,
	})
	require.NoError(t, err)
	return textCalled, nearbyCalled
}

func TestRouteSingleWordWithCategoryGoesNearby(t *testing.T) {
	text, nearby := routeModes(t, "cafe", "cafe")
	assert.False(t, text)
	assert.True(t, nearby)
}

func TestRouteBlankQueryWithCategoryGoesNearby(t *testing.T) {
	text, nearby := routeModes(t, "   ", "restaurant")
	assert.False(t, text)
	assert.True(t, nearby)
}

func TestRouteMultiWordGoesTextSearch(t *testing.T) {
	text, nearby := routeModes(t, "best coffee in kadikoy", "cafe")
	assert.True(t, text)
	assert.False(t, nearby)
}

func TestRouteSingleWordWithoutCategoryGoesTextSearch(t *testing.T) {
	text, nearby := routeModes(t, "cafe", "")
	assert.True(t, text)
	assert.False(t, nearby)
}

func TestRouteBlankQueryNoCategoryFails(t *testing.T) {
	router := NewRouter(&mockPlacesService{}, arbor.NewLogger())
	_, err := router.Route(context.Background(), &models.SearchRequest{
		Query:        "",
		Center:       models.Location{Lat: 41.0, Lng: 29.0},
		RadiusMeters: 3000,
	})
	require.Error(t, err)
	assert.Equal(t, models.ErrMissingQuery, models.ErrorKindOf(err))
}

func TestRouteMissingCoordinatesFailsFirst(t *testing.T) {
	called := false
	mock := &mockPlacesService{
		textSearchFunc: func(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error) {
			called = true
			return nil, nil
		},
		nearbySearchFunc: func(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error) {
			called = true
			return nil, nil
		},
	}

	router := NewRouter(mock, arbor.NewLogger())
	_, err := router.Route(context.Background(), &models.SearchRequest{
		Query:        "cafe",
		CategoryType: "cafe",
		RadiusMeters: 3000,
	})
	require.Error(t, err)
	assert.Equal(t, models.ErrMissingCoordinates, models.ErrorKindOf(err))
	assert.False(t, called)
}

func TestRouteIsDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		text, nearby := routeModes(t, "cafe", "cafe")
		assert.False(t, text)
		assert.True(t, nearby)
	}
}
