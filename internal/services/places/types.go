package places

import "encoding/json"

// textSearchRequest is the request body for the v1 searchText endpoint.
type textSearchRequest struct {
	TextQuery    string        `json:"textQuery"`
	LocationBias *locationBias `json:"locationBias,omitempty"`
	PageSize     int           `json:"pageSize,omitempty"`
	PageToken    string        `json:"pageToken,omitempty"`
}

// nearbySearchRequest is the request body for the v1 searchNearby endpoint.
type nearbySearchRequest struct {
	IncludedTypes       []string             `json:"includedTypes"`
	MaxResultCount      int                  `json:"maxResultCount,omitempty"`
	LocationRestriction *locationRestriction `json:"locationRestriction,omitempty"`
}

type locationBias struct {
	Circle *circle `json:"circle,omitempty"`
}

type locationRestriction struct {
	Circle *circle `json:"circle,omitempty"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// searchResponse is the upstream search response envelope. The newer shape
// carries "places"/"nextPageToken"; the legacy shape carries "results",
// "status" and "next_page_token". Both are accepted and reconciled during
// normalization.
type searchResponse struct {
	Places        []placePayload `json:"places"`
	NextPageToken string         `json:"nextPageToken"`

	Results             []placePayload `json:"results"`
	Status              string         `json:"status"`
	ErrorMessage        string         `json:"error_message"`
	LegacyNextPageToken string         `json:"next_page_token"`
}

// placePayload is a single upstream place object in either API shape. Newer
// fields and their legacy equivalents coexist; normalization prefers the newer
// field and falls back to the legacy one.
type placePayload struct {
	// Newer shape
	ID               string          `json:"id"`
	DisplayName      *localizedText  `json:"displayName"`
	FormattedAddress string          `json:"formattedAddress"`
	Location         *latLng         `json:"location"`
	Types            []string        `json:"types"`
	Rating           *float64        `json:"rating"`
	UserRatingCount  *int            `json:"userRatingCount"`
	Photos           []photoPayload  `json:"photos"`
	WebsiteURI       string          `json:"websiteUri"`
	PriceLevel       json.RawMessage `json:"priceLevel"`

	// Detail-only fields
	FormattedPhoneNumber string           `json:"formattedPhoneNumber"`
	RegularOpeningHours  *openingHours    `json:"regularOpeningHours"`
	Reviews              []reviewPayload  `json:"reviews"`

	// Legacy shape
	PlaceID                string          `json:"place_id"`
	Name                   string          `json:"name"`
	LegacyFormattedAddress string          `json:"formatted_address"`
	Vicinity               string          `json:"vicinity"`
	Geometry               *geometry       `json:"geometry"`
	LegacyUserRatingsTotal *int            `json:"user_ratings_total"`
	LegacyPriceLevel       *int            `json:"price_level"`
	LegacyWebsite          string          `json:"website"`
}

type localizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode"`
}

// photoPayload accepts both the newer "name" resource handle and the legacy
// "photo_reference".
type photoPayload struct {
	Name           string `json:"name"`
	PhotoReference string `json:"photo_reference"`
	WidthPx        int    `json:"widthPx"`
	HeightPx       int    `json:"heightPx"`
}

type openingHours struct {
	OpenNow             bool     `json:"openNow"`
	WeekdayDescriptions []string `json:"weekdayDescriptions"`
}

type reviewPayload struct {
	AuthorAttribution *authorAttribution `json:"authorAttribution"`
	AuthorName        string             `json:"author_name"`
	Text              *localizedText     `json:"text"`
	Rating            *float64           `json:"rating"`
	RelativeTime      string             `json:"relativePublishTimeDescription"`
}

type authorAttribution struct {
	DisplayName string `json:"displayName"`
	URI         string `json:"uri"`
}

type geometry struct {
	Location *legacyLatLng `json:"location"`
}

type legacyLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// errorResponse is the upstream error body for non-2xx responses, parsed
// best-effort.
type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
	ErrorMessage string `json:"error_message"`
}
