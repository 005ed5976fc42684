package places

import (
	"encoding/json"
	"strings"

	"github.com/ternarybob/reperio/internal/models"
)

// priceLevelOrdinals maps the provider's price level enum strings to ordinals.
// The "PRICE_LEVEL_" prefix used by the newer API shape is stripped before
// lookup.
var priceLevelOrdinals = map[string]models.PriceLevel{
	"FREE":           models.PriceLevelFree,
	"INEXPENSIVE":    models.PriceLevelInexpensive,
	"MODERATE":       models.PriceLevelModerate,
	"EXPENSIVE":      models.PriceLevelExpensive,
	"VERY_EXPENSIVE": models.PriceLevelVeryExpensive,
}

// NamespacePlaceID converts a bare place id into its namespaced resource form.
// Idempotent: an already-namespaced id is returned unchanged.
func NamespacePlaceID(id string) string {
	if strings.HasPrefix(id, "places/") {
		return id
	}
	return "places/" + id
}

// normalizePlace converts an upstream place object in either API shape into
// the internal Place schema. Newer-shape fields win over their legacy
// equivalents when both are present.
func normalizePlace(p *placePayload) models.Place {
	place := models.Place{
		ID:      firstNonEmpty(p.ID, p.PlaceID),
		Address: firstNonEmpty(p.FormattedAddress, p.LegacyFormattedAddress, p.Vicinity),
		Types:   p.Types,
		Rating:  p.Rating,
		Website: firstNonEmpty(p.WebsiteURI, p.LegacyWebsite),
	}

	if p.DisplayName != nil && p.DisplayName.Text != "" {
		place.Name = p.DisplayName.Text
	} else {
		place.Name = p.Name
	}

	// Coordinates default to 0 when the provider omits them
	if p.Location != nil {
		place.Location = models.Location{Lat: p.Location.Latitude, Lng: p.Location.Longitude}
	} else if p.Geometry != nil && p.Geometry.Location != nil {
		place.Location = models.Location{Lat: p.Geometry.Location.Lat, Lng: p.Geometry.Location.Lng}
	}

	if p.UserRatingCount != nil {
		place.RatingCount = *p.UserRatingCount
	} else if p.LegacyUserRatingsTotal != nil {
		place.RatingCount = *p.LegacyUserRatingsTotal
	}

	for _, photo := range p.Photos {
		if ref := firstNonEmpty(photo.Name, photo.PhotoReference); ref != "" {
			place.Photos = append(place.Photos, models.PhotoRef(ref))
		}
	}

	place.PriceLevel = normalizePriceLevel(p)

	return place
}

// normalizePriceLevel maps the newer enum string or the legacy ordinal into
// the internal price level. Unknown values are dropped rather than guessed.
func normalizePriceLevel(p *placePayload) *models.PriceLevel {
	if len(p.PriceLevel) > 0 {
		var s string
		if err := json.Unmarshal(p.PriceLevel, &s); err == nil {
			s = strings.TrimPrefix(s, "PRICE_LEVEL_")
			if level, ok := priceLevelOrdinals[s]; ok {
				return &level
			}
			return nil
		}
		// Some responses carry the ordinal directly
		var n int
		if err := json.Unmarshal(p.PriceLevel, &n); err == nil {
			return ordinalPriceLevel(n)
		}
		return nil
	}
	if p.LegacyPriceLevel != nil {
		return ordinalPriceLevel(*p.LegacyPriceLevel)
	}
	return nil
}

func ordinalPriceLevel(n int) *models.PriceLevel {
	if n < int(models.PriceLevelFree) || n > int(models.PriceLevelVeryExpensive) {
		return nil
	}
	level := models.PriceLevel(n)
	return &level
}

// normalizeSearchResponse converts an upstream search envelope in either shape
// into a SearchResult. Status is computed from the normalized place count; the
// two upstream shapes do not share a status field.
func normalizeSearchResponse(resp *searchResponse) *models.SearchResult {
	payloads := resp.Places
	if len(payloads) == 0 {
		payloads = resp.Results
	}

	result := &models.SearchResult{
		Places:        make([]models.Place, 0, len(payloads)),
		NextPageToken: firstNonEmpty(resp.NextPageToken, resp.LegacyNextPageToken),
	}

	for i := range payloads {
		place := normalizePlace(&payloads[i])
		if place.ID == "" {
			continue
		}
		result.Places = append(result.Places, place)
	}

	if len(result.Places) > 0 {
		result.Status = models.SearchStatusOK
	} else {
		result.Status = models.SearchStatusZeroResults
	}

	return result
}

// normalizeDetails converts an upstream details payload into PlaceDetails.
func normalizeDetails(p *placePayload) *models.PlaceDetails {
	details := &models.PlaceDetails{
		Place: normalizePlace(p),
		Phone: p.FormattedPhoneNumber,
	}

	// The details endpoint returns the resource name in "id"; strip the
	// namespace so internal ids stay bare.
	details.ID = strings.TrimPrefix(details.ID, "places/")

	if p.RegularOpeningHours != nil {
		details.OpeningHours = p.RegularOpeningHours.WeekdayDescriptions
	}

	for _, r := range p.Reviews {
		review := models.Review{
			Author: r.AuthorName,
			Rating: r.Rating,
			Time:   r.RelativeTime,
		}
		if r.AuthorAttribution != nil && r.AuthorAttribution.DisplayName != "" {
			review.Author = r.AuthorAttribution.DisplayName
		}
		if r.Text != nil {
			review.Text = r.Text.Text
		}
		details.Reviews = append(details.Reviews, review)
	}

	return details
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
