package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/interfaces"
	"github.com/ternarybob/reperio/internal/models"
)

const (
	// DefaultBaseURL is the base URL for the Google Places API (New).
	DefaultBaseURL = "https://places.googleapis.com/v1"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 10

	// maxPageSize is the provider's cap on results per page.
	maxPageSize = 20

	// searchFieldMask selects the place fields returned by search calls.
	searchFieldMask = "places.id,places.displayName,places.formattedAddress,places.location,places.types,places.rating,places.userRatingCount,places.photos,places.websiteUri,places.priceLevel"

	// detailsFieldMask selects the place fields returned by the details call.
	detailsFieldMask = "id,displayName,formattedAddress,formattedPhoneNumber,websiteUri,regularOpeningHours,photos,location,types,rating,userRatingCount,reviews"
)

// Service implements the PlacesService interface against the Google Places
// API (New).
type Service struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ServiceOption {
	return func(s *Service) {
		s.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ServiceOption {
	return func(s *Service) {
		s.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ServiceOption {
	return func(s *Service) {
		s.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewService creates a new Places service instance from configuration.
func NewService(config *common.PlacesAPIConfig, logger arbor.ILogger, opts ...ServiceOption) interfaces.PlacesService {
	s := &Service{
		baseURL: DefaultBaseURL,
		apiKey:  config.APIKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	if config.BaseURL != "" {
		s.baseURL = config.BaseURL
	}
	if config.RequestTimeout > 0 {
		s.httpClient.Timeout = config.RequestTimeout
	}
	if config.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), config.RateLimit)
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// TextSearch performs a free-text search biased to the request center.
func (s *Service) TextSearch(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error) {
	body := textSearchRequest{
		TextQuery: req.Query,
		PageSize:  maxPageSize,
		PageToken: req.PageToken,
		LocationBias: &locationBias{
			Circle: &circle{
				Center: latLng{Latitude: req.Center.Lat, Longitude: req.Center.Lng},
				Radius: req.RadiusMeters,
			},
		},
	}

	var resp searchResponse
	if err := s.post(ctx, "/places:searchText", searchFieldMask, body, &resp); err != nil {
		return nil, err
	}

	result := normalizeSearchResponse(&resp)

	s.logger.Debug().
		Str("query", req.Query).
		Int("results", len(result.Places)).
		Str("status", string(result.Status)).
		Msg("Text search completed")

	return result, nil
}

// NearbySearch performs a category search restricted to the request center and
// radius. The request's CategoryType selects the provider place type.
func (s *Service) NearbySearch(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error) {
	body := nearbySearchRequest{
		IncludedTypes:  []string{req.CategoryType},
		MaxResultCount: maxPageSize,
		LocationRestriction: &locationRestriction{
			Circle: &circle{
				Center: latLng{Latitude: req.Center.Lat, Longitude: req.Center.Lng},
				Radius: req.RadiusMeters,
			},
		},
	}

	var resp searchResponse
	if err := s.post(ctx, "/places:searchNearby", searchFieldMask, body, &resp); err != nil {
		return nil, err
	}

	result := normalizeSearchResponse(&resp)

	s.logger.Debug().
		Str("category_type", req.CategoryType).
		Int("results", len(result.Places)).
		Str("status", string(result.Status)).
		Msg("Nearby search completed")

	return result, nil
}

// GetDetails fetches details for a single place. The id may arrive bare or
// already namespaced; namespacing is idempotent.
func (s *Service) GetDetails(ctx context.Context, placeID string) (*models.PlaceDetails, error) {
	if err := s.checkConfigured(); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/%s", s.baseURL, NamespacePlaceID(placeID))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("X-Goog-Api-Key", s.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", detailsFieldMask)

	respBody, err := s.execute(ctx, httpReq)
	if err != nil {
		return nil, err
	}

	var payload placePayload
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode details response: %w", err)
	}

	details := normalizeDetails(&payload)

	s.logger.Debug().
		Str("place_id", details.ID).
		Str("name", details.Name).
		Msg("Place details fetched")

	return details, nil
}

// FetchPhoto streams the photo media bytes for the given reference. Returns
// the bytes and the content type.
func (s *Service) FetchPhoto(ctx context.Context, ref models.PhotoRef, maxWidth int) ([]byte, string, error) {
	if err := s.checkConfigured(); err != nil {
		return nil, "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.PhotoURL(ref, maxWidth), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, "", &models.ProviderError{Kind: models.ErrRateLimited, Message: "local rate limit wait aborted"}
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", &models.ProviderError{Kind: models.ErrUnreachable, Message: fmt.Sprintf("places API unreachable: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &models.ProviderError{Kind: models.ErrUnreachable, Message: fmt.Sprintf("failed to read photo body: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", classifyHTTPError(resp.StatusCode, body)
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// PhotoURL resolves an opaque photo reference to a fetchable media URL. Pure
// string construction, no network.
func (s *Service) PhotoURL(ref models.PhotoRef, maxWidth int) string {
	return fmt.Sprintf("%s/%s/media?maxWidthPx=%d&key=%s", s.baseURL, string(ref), maxWidth, s.apiKey)
}

// post performs a POST request against a search endpoint and decodes the
// response into result.
func (s *Service) post(ctx context.Context, path, fieldMask string, body, result interface{}) error {
	if err := s.checkConfigured(); err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", s.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", fieldMask)

	respBody, err := s.execute(ctx, httpReq)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// execute runs an HTTP request through the rate limiter and classifies
// transport and status failures.
func (s *Service) execute(ctx context.Context, req *http.Request) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &models.ProviderError{Kind: models.ErrRateLimited, Message: "local rate limit wait aborted"}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &models.ProviderError{Kind: models.ErrUnreachable, Message: fmt.Sprintf("places API unreachable: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.ProviderError{Kind: models.ErrUnreachable, Message: fmt.Sprintf("failed to read response body: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		providerErr := classifyHTTPError(resp.StatusCode, body)
		s.logger.Warn().
			Int("status", resp.StatusCode).
			Str("kind", string(providerErr.Kind)).
			Str("url", req.URL.Path).
			Msg("Places API request failed")
		return nil, providerErr
	}

	return body, nil
}

// checkConfigured fails fast before any network call when the credential is
// missing.
func (s *Service) checkConfigured() error {
	if s.apiKey == "" {
		return &models.ProviderError{
			Kind:    models.ErrUnconfigured,
			Message: "places API key is not configured",
		}
	}
	return nil
}
