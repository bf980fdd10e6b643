package models

// PlanetPosition is one body's place in a chart. House is nil when the cusp
// data could not place the body; that is a degraded state, not an error.
type PlanetPosition struct {
	Name         string  `json:"name"`
	Longitude    float64 `json:"longitude"`
	Sign         string  `json:"sign"`
	DegreeInSign float64 `json:"degree_in_sign"`
	IsRetrograde bool    `json:"is_retrograde"`
	House        *int    `json:"house"`
}

// Aspect is an angular relation detected between two bodies of one chart.
// Planet1/Planet2 keep the detection order; the orb is rounded to 2 decimals.
type Aspect struct {
	Planet1    string  `json:"planet1"`
	Planet2    string  `json:"planet2"`
	AspectType string  `json:"aspect_type"`
	Orb        float64 `json:"orb"`
}

// NatalChart is the full result of one chart build. Houses always holds 12
// cusp longitudes; cusp i and cusp (i+1 mod 12) bound house i+1, possibly
// wrapping past 360.
type NatalChart struct {
	Ascendant float64                   `json:"ascendant"`
	Midheaven float64                   `json:"midheaven"`
	Planets   map[string]PlanetPosition `json:"planets"`
	Houses    []float64                 `json:"houses" validate:"omitempty,len=12"`
	Aspects   []Aspect                  `json:"aspects"`
}

// BodyPosition is the raw ephemeris answer for one body. The engine consumes
// Longitude and Speed; Latitude and Distance ride along for completeness.
type BodyPosition struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Distance  float64 `json:"distance"`
	Speed     float64 `json:"speed"`
}

// HouseFrame is the raw ephemeris answer for one houses call.
type HouseFrame struct {
	Cusps     []float64 `json:"cusps"`
	Ascendant float64   `json:"ascendant"`
	Midheaven float64   `json:"midheaven"`
}
