package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/reperio/internal/interfaces"
	"github.com/ternarybob/reperio/internal/models"
)

// storedRecord wraps an enrichment record with its write timestamp so stale
// cache entries can be aged out.
type storedRecord struct {
	PlaceID   string `badgerhold:"key"`
	Record    models.EnrichmentRecord
	CreatedAt time.Time
}

// EnrichmentStorage implements the EnrichmentStorage interface for Badger.
// Records older than the freshness window are treated as absent and analyzed
// again.
type EnrichmentStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
	maxAge time.Duration
}

// NewEnrichmentStorage creates a new EnrichmentStorage instance. maxAge <= 0
// means records never expire.
func NewEnrichmentStorage(db *BadgerDB, maxAge time.Duration, logger arbor.ILogger) interfaces.EnrichmentStorage {
	return &EnrichmentStorage{
		db:     db,
		logger: logger,
		maxAge: maxAge,
	}
}

// GetRecord returns the cached record for a place, if present and fresh.
func (s *EnrichmentStorage) GetRecord(placeID string) (*models.EnrichmentRecord, bool) {
	var stored storedRecord
	if err := s.db.Store().Get(placeID, &stored); err != nil {
		if err != badgerhold.ErrNotFound {
			s.logger.Warn().Err(err).Str("place_id", placeID).Msg("Failed to read enrichment record")
		}
		return nil, false
	}

	if s.maxAge > 0 && time.Since(stored.CreatedAt) > s.maxAge {
		s.logger.Debug().
			Str("place_id", placeID).
			Str("created_at", stored.CreatedAt.Format(time.RFC3339)).
			Msg("Cached enrichment record expired")
		return nil, false
	}

	return &stored.Record, true
}

// SaveRecord upserts the record for a place, stamping it with the current
// time.
func (s *EnrichmentStorage) SaveRecord(record *models.EnrichmentRecord) error {
	if record.PlaceID == "" {
		return fmt.Errorf("place ID is required")
	}

	stored := storedRecord{
		PlaceID:   record.PlaceID,
		Record:    *record,
		CreatedAt: time.Now(),
	}

	if err := s.db.Store().Upsert(stored.PlaceID, &stored); err != nil {
		return fmt.Errorf("failed to save enrichment record: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *EnrichmentStorage) Close() error {
	return s.db.Close()
}
