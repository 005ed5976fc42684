package common

import (
	"github.com/google/uuid"
)

// NewRequestID generates a unique request ID with the "req_" prefix
// Format: req_<uuid>
func NewRequestID() string {
	return "req_" + uuid.New().String()
}

// NewEnrichmentID generates a unique enrichment run ID with the "enr_" prefix
// Format: enr_<uuid>
func NewEnrichmentID() string {
	return "enr_" + uuid.New().String()
}
