package usecase

import (
	"math"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/services/astro"
)

// Relationship block names. Every comparison reports all five.
var blockNames = []string{"romantic", "emotional", "mental", "sexual", "stability"}

// CompatibilityScorer classifies synastry aspects into weighted relationship
// blocks and aggregates the final 0-100 score.
type CompatibilityScorer struct {
	tables astro.Tables
	engine SynastryEngine
}

func NewCompatibilityScorer(tables astro.Tables) *CompatibilityScorer {
	return &CompatibilityScorer{tables: tables, engine: NewSynastryEngine(tables)}
}

// Compare runs synastry on the two charts and evaluates every block. The
// result is a pure function of the inputs.
func (s *CompatibilityScorer) Compare(chartA, chartB models.NatalChart) models.CompatibilityInfo {
	aspects := s.engine.Aspects(chartA, chartB)

	blocks := make(map[string][]models.SynastryAspect, len(blockNames))
	for _, name := range blockNames {
		blocks[name] = nil
	}

	for _, a := range aspects {
		pair := pairOf(a.PlanetA, a.PlanetB)

		// Membership tests the unordered pair. A subset test on a two-element
		// set admits the single-planet pairs too ({Venus} is within
		// {Venus, Mars}); the explicit self-pair clauses mirror that rule and
		// the romantic/sexual overlap it creates. Pinned by tests; do not
		// "fix" without revising the scoring contract.
		if within(pair, "Venus", "Mars") || exactly(pair, "Venus") {
			blocks["romantic"] = append(blocks["romantic"], a)
		}
		if within(pair, "Moon", "Sun") || exactly(pair, "Moon") {
			blocks["emotional"] = append(blocks["emotional"], a)
		}
		if within(pair, "Mercury", "Sun") || exactly(pair, "Mercury") {
			blocks["mental"] = append(blocks["mental"], a)
		}
		if within(pair, "Mars", "Venus") || exactly(pair, "Mars") {
			blocks["sexual"] = append(blocks["sexual"], a)
		}
		if pair["Saturn"] {
			blocks["stability"] = append(blocks["stability"], a)
		}
	}

	scores := make(map[string]float64, len(blockNames))
	total := 0.0
	for _, name := range blockNames {
		blockScore := s.evaluateBlock(blocks[name])
		scores[name] = round1(blockScore * 100)
		total += blockScore * s.tables.BlockWeights[name]
	}

	return models.CompatibilityInfo{
		TotalScore:  round1(total * 100),
		Blocks:      scores,
		AspectCount: len(aspects),
	}
}

// aspectScore is the signed contribution of one aspect: +1.0 per unit
// strength for harmonious types, -0.8 for challenging, +0.6 for the neutral
// conjunction, 0 for anything unrecognized.
func (s *CompatibilityScorer) aspectScore(aspectType string, orb, maxOrb float64) float64 {
	strength := 1 - orb/maxOrb
	switch {
	case s.tables.Harmonious[aspectType]:
		return 1.0 * strength
	case s.tables.Challenging[aspectType]:
		return -0.8 * strength
	case s.tables.Neutral[aspectType]:
		return 0.6 * strength
	}
	return 0
}

// evaluateBlock maps a block's aspects to [0, 1]. An empty block is the
// neutral prior 0.5, not missing data. Otherwise (sum + n) / (2n), clamped:
// all-maximally-harmonious is 1, all-maximally-challenging is 0.
func (s *CompatibilityScorer) evaluateBlock(aspects []models.SynastryAspect) float64 {
	if len(aspects) == 0 {
		return 0.5
	}
	total := 0.0
	for _, a := range aspects {
		total += s.aspectScore(a.AspectType, a.Orb, a.MaxOrb)
	}
	n := float64(len(aspects))
	normalized := (total + n) / (2 * n)
	return math.Max(0, math.Min(1, normalized))
}

func pairOf(a, b string) map[string]bool {
	return map[string]bool{a: true, b: true}
}

// within reports whether every member of pair is one of the allowed names.
func within(pair map[string]bool, allowed ...string) bool {
	for name := range pair {
		found := false
		for _, ok := range allowed {
			if name == ok {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// exactly reports whether pair is the single-element set {name}, which only
// happens when the same body aspects itself across the two charts.
func exactly(pair map[string]bool, name string) bool {
	return len(pair) == 1 && pair[name]
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
