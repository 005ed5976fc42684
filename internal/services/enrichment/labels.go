package enrichment

// Analysis is the structured output reported by the vision model. Every field
// is optional; absent fields fall through the mapping rules as "not reported".
type Analysis struct {
	Lighting       *string   `json:"mekan_isiklandirma,omitempty"` // "los", "canli" or "dogal"
	Ambiance       *Ambiance `json:"ambiyans,omitempty"`
	TableOutlets   *bool     `json:"masada_priz_var_mi,omitempty"`
	HasSofas       *bool     `json:"koltuk_var_mi,omitempty"`
	SmokingAllowed *bool     `json:"sigara_iciliyor,omitempty"`
	SmokingAreas   []string  `json:"sigara_alani,omitempty"` // "acik" and/or "kapali"
	SeaView        *bool     `json:"deniz_manzarasi,omitempty"`
}

// Ambiance holds the retro/modern style flags.
type Ambiance struct {
	Retro  bool `json:"retro"`
	Modern bool `json:"modern"`
}

// MapLabels converts a parsed analysis into label/feature/tag sets via the
// fixed rule table. Boolean fields with explicit negative labels ("Koltuk
// yok", "Deniz gormuyor") emit the negative label when the field is absent or
// false, matching the filter vocabulary.
func MapLabels(a *Analysis) (labels, features, tags []string) {
	labels = []string{}
	features = []string{}
	tags = []string{}

	if a.Lighting != nil {
		switch *a.Lighting {
		case "los":
			labels = append(labels, "Los")
		case "canli":
			labels = append(labels, "Canli")
		case "dogal":
			labels = append(labels, "Dogal")
		}
	}

	if a.Ambiance != nil {
		if a.Ambiance.Retro {
			labels = append(labels, "Retro")
		}
		if a.Ambiance.Modern {
			labels = append(labels, "Modern")
		}
	}

	if a.TableOutlets != nil && *a.TableOutlets {
		labels = append(labels, "Masada priz")
	}

	if a.HasSofas != nil && *a.HasSofas {
		labels = append(labels, "Koltuk var")
	} else {
		labels = append(labels, "Koltuk yok")
	}

	if a.SmokingAllowed != nil && *a.SmokingAllowed {
		labels = append(labels, "Sigara icilebilir")
		for _, area := range a.SmokingAreas {
			if area == "kapali" {
				labels = append(labels, "Kapali alanda sigara icilebilir")
				break
			}
		}
	}

	if a.SeaView != nil && *a.SeaView {
		labels = append(labels, "Deniz goruyor")
	} else {
		labels = append(labels, "Deniz gormuyor")
	}

	return labels, features, tags
}
