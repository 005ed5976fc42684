package filter

import "github.com/ternarybob/reperio/internal/models"

// Engine narrows a place list against the user's filter selections. Pure and
// synchronous, no I/O.
type Engine struct{}

// NewEngine creates a new filter engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Apply returns the places that satisfy the filter state. Options within a
// sub-filter group are OR'd, groups are AND'd, and the main category filter
// additionally requires a provider type match. Empty state returns the input
// unchanged.
func (e *Engine) Apply(places []models.Place, state models.FilterState) []models.Place {
	if state.IsEmpty() {
		return places
	}

	out := make([]models.Place, 0, len(places))
	for _, place := range places {
		if e.matches(&place, state) {
			out = append(out, place)
		}
	}
	return out
}

func (e *Engine) matches(place *models.Place, state models.FilterState) bool {
	if len(state.Main) > 0 && !intersects(place.Types, state.Main) {
		return false
	}

	for _, options := range state.Sub {
		if len(options) == 0 {
			continue
		}
		if !intersects(place.Labels, options) && !intersects(place.Types, options) {
			return false
		}
	}

	return true
}

func intersects(values, options []string) bool {
	for _, v := range values {
		for _, o := range options {
			if v == o {
				return true
			}
		}
	}
	return false
}
