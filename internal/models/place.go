package models

// PriceLevel is the ordinal price bracket reported by the places provider.
// The provider's newer API reports these as enum strings; they are mapped to
// ordinals at the provider boundary so internal code never sees the strings.
type PriceLevel int

const (
	PriceLevelFree PriceLevel = iota
	PriceLevelInexpensive
	PriceLevelModerate
	PriceLevelExpensive
	PriceLevelVeryExpensive
)

// String returns the provider enum name for the price level.
func (p PriceLevel) String() string {
	switch p {
	case PriceLevelFree:
		return "FREE"
	case PriceLevelInexpensive:
		return "INEXPENSIVE"
	case PriceLevelModerate:
		return "MODERATE"
	case PriceLevelExpensive:
		return "EXPENSIVE"
	case PriceLevelVeryExpensive:
		return "VERY_EXPENSIVE"
	default:
		return "UNKNOWN"
	}
}

// Location represents geographic coordinates in decimal degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PhotoRef is an opaque provider-native photo handle. It is resolved to a
// fetchable URL only when needed for display or AI input.
type PhotoRef string

// Place is the normalized point-of-interest record used everywhere inside the
// pipeline. Both upstream response shapes are converted into this schema at the
// provider boundary.
//
// ID is the dedup key across all aggregation: two Place records with the same
// ID are the same entity and later occurrences are discarded, never merged
// field by field.
type Place struct {
	ID          string      `json:"id" badgerhold:"key"`
	Name        string      `json:"name"`
	Address     string      `json:"address,omitempty"`
	Location    Location    `json:"location"`
	Types       []string    `json:"types,omitempty"`
	Rating      *float64    `json:"rating,omitempty"`
	RatingCount int         `json:"rating_count"`
	Photos      []PhotoRef  `json:"photos,omitempty"`
	Photo       string      `json:"photo,omitempty"` // legacy single-photo fallback field
	Website     string      `json:"website,omitempty"`
	PriceLevel  *PriceLevel `json:"price_level,omitempty"`

	// Derived by enrichment. Labels are replaced wholesale per enrichment run;
	// Tags and Features are appended, never replaced.
	Labels   []string `json:"labels,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Features []string `json:"features,omitempty"`
}

// Review is a single user review attached to place details.
type Review struct {
	Author string   `json:"author"`
	Text   string   `json:"text"`
	Rating *float64 `json:"rating,omitempty"`
	Time   string   `json:"time,omitempty"`
}

// PlaceDetails extends Place with the detail-only fields returned by the
// provider's details endpoint.
type PlaceDetails struct {
	Place
	Phone        string   `json:"phone,omitempty"`
	OpeningHours []string `json:"opening_hours,omitempty"`
	Reviews      []Review `json:"reviews,omitempty"`
}

// SearchRequest describes one provider search. It is constructed per user
// action or per category in a multi-category round and never mutated after
// construction.
type SearchRequest struct {
	Query        string   `json:"query"`
	Center       Location `json:"center"`
	RadiusMeters float64  `json:"radius_meters" validate:"gt=0"`
	CategoryType string   `json:"category_type,omitempty"`
	PageToken    string   `json:"page_token,omitempty"`
}

// SearchStatus reports whether a search produced any places. It is computed
// from the normalized place count, never passed through from upstream: the two
// upstream shapes do not share a status field.
type SearchStatus string

const (
	SearchStatusOK          SearchStatus = "OK"
	SearchStatusZeroResults SearchStatus = "ZERO_RESULTS"
)

// SearchResult is the normalized outcome of one provider search.
type SearchResult struct {
	Status        SearchStatus `json:"status"`
	Places        []Place      `json:"places"`
	NextPageToken string       `json:"next_page_token,omitempty"`
}

// EnrichmentRecord holds the AI-derived attributes for one place. Absence of a
// record for a given place id means "skipped, leave place unlabeled", not an
// error.
type EnrichmentRecord struct {
	PlaceID  string   `json:"place_id"`
	Labels   []string `json:"labels"`
	Features []string `json:"features"`
	Tags     []string `json:"tags"`
}

// FilterState holds the user's filter selections. Options within a sub-filter
// group are OR'd; groups are AND'd. Main (if populated) must intersect the
// place's provider types. Empty state passes everything.
type FilterState struct {
	Main []string            `json:"main"`
	Sub  map[string][]string `json:"sub"`
}

// IsEmpty reports whether no filter options are selected at all.
func (f FilterState) IsEmpty() bool {
	if len(f.Main) > 0 {
		return false
	}
	for _, opts := range f.Sub {
		if len(opts) > 0 {
			return false
		}
	}
	return true
}
