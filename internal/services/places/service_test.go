package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/models"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &common.PlacesAPIConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	}
	return NewService(cfg, arbor.NewLogger()).(*Service)
}

func searchReq() *models.SearchRequest {
	return &models.SearchRequest{
		Query:        "coffee in kadikoy",
		Center:       models.Location{Lat: 40.99, Lng: 29.02},
		RadiusMeters: 3000,
	}
}

func TestTextSearchSendsHeadersAndBody(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places:searchText", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		assert.Contains(t, r.Header.Get("X-Goog-FieldMask"), "places.displayName")

		w.Write([]byte(`{"places": [{"id": "p1", "displayName": {"text": "Cafe One"}}], "nextPageToken": "tok1"}`))
	})

	result, err := svc.TextSearch(context.Background(), searchReq())
	require.NoError(t, err)

	assert.Equal(t, models.SearchStatusOK, result.Status)
	require.Len(t, result.Places, 1)
	assert.Equal(t, "Cafe One", result.Places[0].Name)
	assert.Equal(t, "tok1", result.NextPageToken)
}

func TestNearbySearchUsesCategoryType(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places:searchNearby", r.URL.Path)
		w.Write([]byte(`{"places": []}`))
	})

	req := searchReq()
	req.CategoryType = "cafe"
	result, err := svc.NearbySearch(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.SearchStatusZeroResults, result.Status)
}

func TestSearchLegacyResponseShape(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": "OK",
			"results": [{"place_id": "p9", "name": "Legacy Cafe", "geometry": {"location": {"lat": 41.0, "lng": 29.0}}}],
			"next_page_token": "legacy-tok"
		}`))
	})

	result, err := svc.TextSearch(context.Background(), searchReq())
	require.NoError(t, err)
	require.Len(t, result.Places, 1)
	assert.Equal(t, "p9", result.Places[0].ID)
	assert.Equal(t, "Legacy Cafe", result.Places[0].Name)
	assert.Equal(t, "legacy-tok", result.NextPageToken)
}

func TestSearchUnconfiguredFailsBeforeNetwork(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	cfg := &common.PlacesAPIConfig{APIKey: "", BaseURL: server.URL}
	svc := NewService(cfg, arbor.NewLogger())

	_, err := svc.TextSearch(context.Background(), searchReq())
	require.Error(t, err)
	assert.Equal(t, models.ErrUnconfigured, models.ErrorKindOf(err))
	assert.False(t, called)
}

func TestSearchAuthRejectedDistinctFromRateLimited(t *testing.T) {
	svc403 := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"code": 403, "message": "API key not authorized", "status": "PERMISSION_DENIED"}}`))
	})
	_, err403 := svc403.TextSearch(context.Background(), searchReq())
	require.Error(t, err403)
	assert.Equal(t, models.ErrAuthRejected, models.ErrorKindOf(err403))

	svc429 := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"code": 429, "message": "Quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`))
	})
	_, err429 := svc429.TextSearch(context.Background(), searchReq())
	require.Error(t, err429)
	assert.Equal(t, models.ErrRateLimited, models.ErrorKindOf(err429))

	assert.NotEqual(t, err403.Error(), err429.Error())
	assert.Contains(t, err403.Error(), "API key not authorized")
	assert.Contains(t, err429.Error(), "Quota exceeded")
}

func TestSearchBadRequestEchoesUpstreamMessage(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"code": 400, "message": "Invalid field mask", "status": "INVALID_ARGUMENT"}}`))
	})

	_, err := svc.TextSearch(context.Background(), searchReq())
	require.Error(t, err)
	assert.Equal(t, models.ErrBadRequest, models.ErrorKindOf(err))
	assert.Contains(t, err.Error(), "Invalid field mask")
}

func TestSearchUnparsableErrorBodyFallsBackToStatusText(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>gateway error</html>"))
	})

	_, err := svc.TextSearch(context.Background(), searchReq())
	require.Error(t, err)
	assert.Equal(t, models.ErrUpstream, models.ErrorKindOf(err))
	assert.Contains(t, err.Error(), http.StatusText(http.StatusBadGateway))
}

func TestSearchUnreachable(t *testing.T) {
	cfg := &common.PlacesAPIConfig{APIKey: "test-key", BaseURL: "http://127.0.0.1:1"}
	svc := NewService(cfg, arbor.NewLogger())

	_, err := svc.TextSearch(context.Background(), searchReq())
	require.Error(t, err)
	assert.Equal(t, models.ErrUnreachable, models.ErrorKindOf(err))
}

func TestGetDetailsNamespacesID(t *testing.T) {
	var gotPath string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"id": "places/abc", "displayName": {"text": "Detail Cafe"}}`))
	})

	details, err := svc.GetDetails(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "/places/abc", gotPath)
	assert.Equal(t, "abc", details.ID)
	assert.Equal(t, "Detail Cafe", details.Name)

	// Already-namespaced id must not be double-prefixed
	_, err = svc.GetDetails(context.Background(), "places/abc")
	require.NoError(t, err)
	assert.Equal(t, "/places/abc", gotPath)
}

func TestPhotoURL(t *testing.T) {
	cfg := &common.PlacesAPIConfig{APIKey: "k123", BaseURL: "https://places.googleapis.com/v1"}
	svc := NewService(cfg, arbor.NewLogger())

	url := svc.PhotoURL(models.PhotoRef("places/p1/photos/ph1"), 800)
	assert.Equal(t, "https://places.googleapis.com/v1/places/p1/photos/ph1/media?maxWidthPx=800&key=k123", url)
}

func TestFetchPhoto(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places/p1/photos/ph1/media", r.URL.Path)
		assert.Equal(t, "800", r.URL.Query().Get("maxWidthPx"))
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpegbytes"))
	})

	data, contentType, err := svc.FetchPhoto(context.Background(), models.PhotoRef("places/p1/photos/ph1"), 800)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)
	assert.Equal(t, []byte("jpegbytes"), data)
}
