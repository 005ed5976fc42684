package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/reperio/internal/models"
	"github.com/ternarybob/reperio/internal/services/filter"
)

func TestEnrichHandler_Success(t *testing.T) {
	enrichment := &mockEnrichment{
		enrichFunc: func(ctx context.Context, places []models.Place) map[string]models.EnrichmentRecord {
			if len(places) != 2 {
				t.Errorf("Expected 2 places, got %d", len(places))
			}
			return map[string]models.EnrichmentRecord{
				"p1": {PlaceID: "p1", Labels: []string{"Los", "Koltuk var"}},
			}
		},
	}
	handler := NewEnrichHandler(enrichment, filter.NewEngine(), arbor.NewLogger())

	body, _ := json.Marshal(map[string]interface{}{
		"places": []models.Place{{ID: "p1"}, {ID: "p2"}},
	})
	req := httptest.NewRequest("POST", "/api/enrich", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.EnrichHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp enrichResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(resp.Records))
	}
	// p2 absent from the mapping means skipped, not failed
	if _, ok := resp.Records["p2"]; ok {
		t.Error("Expected no record for p2")
	}
}

func TestEnrichHandler_InvalidBody(t *testing.T) {
	handler := NewEnrichHandler(&mockEnrichment{}, filter.NewEngine(), arbor.NewLogger())

	req := httptest.NewRequest("POST", "/api/enrich", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	handler.EnrichHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestFilterHandler_Success(t *testing.T) {
	handler := NewEnrichHandler(&mockEnrichment{}, filter.NewEngine(), arbor.NewLogger())

	body, _ := json.Marshal(filterRequest{
		Places: []models.Place{
			{ID: "p1", Types: []string{"cafe"}, Labels: []string{"Deniz goruyor"}},
			{ID: "p2", Types: []string{"bar"}, Labels: []string{"Deniz gormuyor"}},
		},
		Filter: models.FilterState{
			Sub: map[string][]string{"manzara": {"Deniz goruyor"}},
		},
	})
	req := httptest.NewRequest("POST", "/api/filter", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.FilterHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp filterResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp.Places) != 1 || resp.Places[0].ID != "p1" {
		t.Errorf("Unexpected filtered places: %+v", resp.Places)
	}
}

func TestFilterHandler_EmptyStatePassesEverything(t *testing.T) {
	handler := NewEnrichHandler(&mockEnrichment{}, filter.NewEngine(), arbor.NewLogger())

	body, _ := json.Marshal(filterRequest{
		Places: []models.Place{{ID: "p1"}, {ID: "p2"}},
		Filter: models.FilterState{},
	})
	req := httptest.NewRequest("POST", "/api/filter", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.FilterHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp filterResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp.Places) != 2 {
		t.Errorf("Expected 2 places, got %d", len(resp.Places))
	}
}

func TestFilterHandler_MethodNotAllowed(t *testing.T) {
	handler := NewEnrichHandler(&mockEnrichment{}, filter.NewEngine(), arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/filter", nil)
	rec := httptest.NewRecorder()
	handler.FilterHandler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rec.Code)
	}
}
