package models

import "time"

// SynastryAspect is one inter-chart aspect. PlanetA always belongs to the
// first chart, PlanetB to the second; the cross product is directional.
// Orb stays at full precision here because scoring divides by MaxOrb.
type SynastryAspect struct {
	PlanetA    string
	PlanetB    string
	AspectType string
	Orb        float64
	MaxOrb     float64
}

// CompatibilityInfo is the final comparison result. AspectCount counts every
// detected synastry aspect, before any block filtering.
type CompatibilityInfo struct {
	TotalScore  float64            `json:"total_score"`
	Blocks      map[string]float64 `json:"blocks"`
	AspectCount int                `json:"aspect_count"`
}

// CompareRecord is the analytics row for one comparison. It carries scores
// only; birth data and planetary positions never leave the request scope.
type CompareRecord struct {
	TS          time.Time          `json:"ts"`
	TotalScore  float64            `json:"total_score"`
	Blocks      map[string]float64 `json:"blocks"`
	AspectCount int                `json:"aspect_count"`
}

// ChartEvent is the fire-and-forget domain event envelope published after a
// build or a comparison.
type ChartEvent struct {
	Type    string         `json:"type"` // chart.built | charts.compared
	At      time.Time      `json:"at"`
	Backend string         `json:"backend,omitempty"`
	Summary *CompareRecord `json:"summary,omitempty"`
}

// Event type tags.
const (
	EventChartBuilt     = "chart.built"
	EventChartsCompared = "charts.compared"
)
