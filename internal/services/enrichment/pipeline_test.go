package enrichment

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/interfaces"
	"github.com/ternarybob/reperio/internal/models"
)

// mockVisionService returns canned replies keyed by call order.
type mockVisionService struct {
	mu       sync.Mutex
	chatFunc func(ctx context.Context, messages []interfaces.VisionMessage) (string, error)
	calls    int
}

func (m *mockVisionService) Chat(ctx context.Context, messages []interfaces.VisionMessage) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.chatFunc != nil {
		return m.chatFunc(ctx, messages)
	}
	return `{"deniz_manzarasi": true}`, nil
}

func (m *mockVisionService) Model() string { return "mock-model" }
func (m *mockVisionService) Close() error  { return nil }

// mockPhotoResolver implements the PlacesService methods the pipeline uses.
type mockPhotoResolver struct{}

func (m *mockPhotoResolver) TextSearch(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error) {
	return nil, nil
}

func (m *mockPhotoResolver) NearbySearch(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error) {
	return nil, nil
}

func (m *mockPhotoResolver) GetDetails(ctx context.Context, placeID string) (*models.PlaceDetails, error) {
	return nil, nil
}

func (m *mockPhotoResolver) FetchPhoto(ctx context.Context, ref models.PhotoRef, maxWidth int) ([]byte, string, error) {
	return nil, "", nil
}

func (m *mockPhotoResolver) PhotoURL(ref models.PhotoRef, maxWidth int) string {
	return fmt.Sprintf("https://photos.example.com/%s?w=%d", string(ref), maxWidth)
}

// mockEnrichmentStorage is an in-memory EnrichmentStorage.
type mockEnrichmentStorage struct {
	mu      sync.Mutex
	records map[string]models.EnrichmentRecord
}

func newMockStorage() *mockEnrichmentStorage {
	return &mockEnrichmentStorage{records: make(map[string]models.EnrichmentRecord)}
}

func (m *mockEnrichmentStorage) GetRecord(placeID string) (*models.EnrichmentRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if record, ok := m.records[placeID]; ok {
		return &record, true
	}
	return nil, false
}

func (m *mockEnrichmentStorage) SaveRecord(record *models.EnrichmentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.PlaceID] = *record
	return nil
}

func (m *mockEnrichmentStorage) Close() error { return nil }

// mockEventService records published events and how they were delivered.
type mockEventService struct {
	mu          sync.Mutex
	asyncEvents []interfaces.Event
	syncEvents  []interfaces.Event
}

func (m *mockEventService) Subscribe(eventType interfaces.EventType, handler interfaces.EventHandler) error {
	return nil
}

func (m *mockEventService) Publish(ctx context.Context, event interfaces.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.asyncEvents = append(m.asyncEvents, event)
	return nil
}

func (m *mockEventService) PublishSync(ctx context.Context, event interfaces.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncEvents = append(m.syncEvents, event)
	return nil
}

func (m *mockEventService) Close() error { return nil }

func (m *mockEventService) byType(eventType interfaces.EventType) []interfaces.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []interfaces.Event
	for _, e := range append(append([]interfaces.Event{}, m.asyncEvents...), m.syncEvents...) {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func newTestPipeline(t *testing.T, vision *mockVisionService, storage interfaces.EnrichmentStorage) interfaces.EnrichmentService {
	t.Helper()
	cfg := &common.EnrichmentConfig{
		MaxPhotos:       6,
		PhotoMaxWidth:   800,
		SystemPromptURL: "/nonexistent/prompt.txt",
	}
	return NewService(cfg, vision, &mockPhotoResolver{}, storage, nil, arbor.NewLogger())
}

func placeWithPhotos(id string, refs ...string) models.Place {
	p := models.Place{ID: id, Name: "Place " + id}
	for _, ref := range refs {
		p.Photos = append(p.Photos, models.PhotoRef(ref))
	}
	return p
}

func TestEnrichNoPhotosSkipsPlace(t *testing.T) {
	vision := &mockVisionService{}
	svc := newTestPipeline(t, vision, nil)

	results := svc.Enrich(context.Background(), []models.Place{{ID: "p1", Name: "Photoless"}})
	assert.Empty(t, results)
	assert.Equal(t, 0, vision.calls)
}

func TestEnrichExtractsJSONFromProse(t *testing.T) {
	vision := &mockVisionService{
		chatFunc: func(ctx context.Context, messages []interfaces.VisionMessage) (string, error) {
			return `Sure, here: {"deniz_manzarasi": true} thanks`, nil
		},
	}
	svc := newTestPipeline(t, vision, nil)

	results := svc.Enrich(context.Background(), []models.Place{placeWithPhotos("p1", "ref1")})
	require.Contains(t, results, "p1")
	assert.Contains(t, results["p1"].Labels, "Deniz goruyor")
	assert.NotContains(t, results["p1"].Labels, "Deniz gormuyor")
}

func TestEnrichNoJSONInReplySkipsPlace(t *testing.T) {
	vision := &mockVisionService{
		chatFunc: func(ctx context.Context, messages []interfaces.VisionMessage) (string, error) {
			return "I cannot analyze these images.", nil
		},
	}
	svc := newTestPipeline(t, vision, nil)

	results := svc.Enrich(context.Background(), []models.Place{placeWithPhotos("p1", "ref1")})
	assert.Empty(t, results)
}

func TestEnrichVisionFailureIsolatedPerPlace(t *testing.T) {
	vision := &mockVisionService{
		chatFunc: func(ctx context.Context, messages []interfaces.VisionMessage) (string, error) {
			// Fail only the first place
			for _, part := range messages[len(messages)-1].Parts {
				if part.Type == interfaces.PartTypeText && part.Text == `Tüm fotoğraflar "Place p1" mekanına aittir. Kurallara birebir uyarak analiz et.` {
					return "", fmt.Errorf("upstream timeout")
				}
			}
			return `{"koltuk_var_mi": true}`, nil
		},
	}
	svc := newTestPipeline(t, vision, nil)

	results := svc.Enrich(context.Background(), []models.Place{
		placeWithPhotos("p1", "ref1"),
		placeWithPhotos("p2", "ref2"),
	})

	assert.NotContains(t, results, "p1")
	require.Contains(t, results, "p2")
	assert.Contains(t, results["p2"].Labels, "Koltuk var")
}

func TestEnrichUsesCachedRecord(t *testing.T) {
	storage := newMockStorage()
	require.NoError(t, storage.SaveRecord(&models.EnrichmentRecord{
		PlaceID: "p1",
		Labels:  []string{"Los"},
	}))

	vision := &mockVisionService{}
	svc := newTestPipeline(t, vision, storage)

	results := svc.Enrich(context.Background(), []models.Place{placeWithPhotos("p1", "ref1")})
	require.Contains(t, results, "p1")
	assert.Contains(t, results["p1"].Labels, "Los")
	assert.Equal(t, 0, vision.calls)
}

func TestEnrichSavesRecordToStorage(t *testing.T) {
	storage := newMockStorage()
	vision := &mockVisionService{}
	svc := newTestPipeline(t, vision, storage)

	results := svc.Enrich(context.Background(), []models.Place{placeWithPhotos("p1", "ref1")})
	require.Contains(t, results, "p1")

	saved, ok := storage.GetRecord("p1")
	require.True(t, ok)
	assert.Equal(t, results["p1"].Labels, saved.Labels)
}

func TestEnrichPhotoLimitAndDedup(t *testing.T) {
	var gotImageCount int
	vision := &mockVisionService{
		chatFunc: func(ctx context.Context, messages []interfaces.VisionMessage) (string, error) {
			last := messages[len(messages)-1]
			gotImageCount = 0
			for _, part := range last.Parts {
				if part.Type == interfaces.PartTypeImage {
					gotImageCount++
				}
			}
			return `{"deniz_manzarasi": false}`, nil
		},
	}
	svc := newTestPipeline(t, vision, nil)

	// Eight refs with one duplicate: six unique URLs survive the cap
	place := placeWithPhotos("p1", "r1", "r2", "r3", "r4", "r5", "r1", "r6", "r7")
	results := svc.Enrich(context.Background(), []models.Place{place})

	require.Contains(t, results, "p1")
	assert.Equal(t, 6, gotImageCount)
}

func TestEnrichLegacyPhotoFieldFallback(t *testing.T) {
	vision := &mockVisionService{}
	svc := newTestPipeline(t, vision, nil)

	place := models.Place{ID: "p1", Name: "Legacy", Photo: "https://legacy.example.com/photo.jpg"}
	results := svc.Enrich(context.Background(), []models.Place{place})
	require.Contains(t, results, "p1")
	assert.Equal(t, 1, vision.calls)
}

func TestEnrichDropsNonURLPhoto(t *testing.T) {
	vision := &mockVisionService{}
	svc := newTestPipeline(t, vision, nil)

	place := models.Place{ID: "p1", Name: "Broken", Photo: "not-a-url"}
	results := svc.Enrich(context.Background(), []models.Place{place})
	assert.Empty(t, results)
	assert.Equal(t, 0, vision.calls)
}

func TestEnrichEmptyInput(t *testing.T) {
	vision := &mockVisionService{}
	svc := newTestPipeline(t, vision, nil)

	results := svc.Enrich(context.Background(), nil)
	assert.Empty(t, results)
}

func TestEnrichPublishesRunEvents(t *testing.T) {
	events := &mockEventService{}
	vision := &mockVisionService{}
	cfg := &common.EnrichmentConfig{
		MaxPhotos:       6,
		PhotoMaxWidth:   800,
		SystemPromptURL: "/nonexistent/prompt.txt",
	}
	svc := NewService(cfg, vision, &mockPhotoResolver{}, nil, events, arbor.NewLogger())

	results := svc.Enrich(context.Background(), []models.Place{placeWithPhotos("p1", "ref1")})
	require.Contains(t, results, "p1")

	started := events.byType(interfaces.EventEnrichmentStarted)
	require.Len(t, started, 1)
	startedPayload := started[0].Payload.(map[string]interface{})
	runID, _ := startedPayload["enrichment_id"].(string)
	assert.True(t, strings.HasPrefix(runID, "enr_"), "expected enr_ run id, got %q", runID)

	// Completion carries the same run id and is delivered synchronously
	require.Len(t, events.syncEvents, 1)
	assert.Equal(t, interfaces.EventEnrichmentCompleted, events.syncEvents[0].Type)
	completedPayload := events.syncEvents[0].Payload.(map[string]interface{})
	assert.Equal(t, runID, completedPayload["enrichment_id"])
	assert.Equal(t, 1, completedPayload["enriched_count"])
}

func TestBuildMessagesStructure(t *testing.T) {
	messages := buildMessages("system rules", "Moda Cafe", []string{"https://example.com/a.jpg"})

	// System + three exemplar pairs + one place turn
	require.Len(t, messages, 1+2*len(fewShotExemplars)+1)
	assert.Equal(t, "system", messages[0].Role)

	last := messages[len(messages)-1]
	assert.Equal(t, "user", last.Role)
	require.Len(t, last.Parts, 2)
	assert.Equal(t, interfaces.PartTypeImage, last.Parts[0].Type)
	assert.Contains(t, last.Parts[1].Text, `"Moda Cafe"`)
}

func TestPromptLoaderFallback(t *testing.T) {
	loader := newPromptLoader("/nonexistent/prompt.txt")
	assert.Equal(t, fallbackSystemPrompt, loader.Load())
	// Cached on repeat calls
	assert.Equal(t, fallbackSystemPrompt, loader.Load())
}

func TestPromptLoaderSingleFlight(t *testing.T) {
	loader := newPromptLoader("/nonexistent/prompt.txt")

	var wg sync.WaitGroup
	results := make([]string, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = loader.Load()
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, fallbackSystemPrompt, r)
	}
}
