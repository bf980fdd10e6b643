package usecase

import (
	"math"
	"testing"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/services/astro"
)

func TestAspectScore(t *testing.T) {
	s := NewCompatibilityScorer(astro.DefaultTables())

	cases := []struct {
		aspectType string
		orb, max   float64
		want       float64
	}{
		{"trine", 0, 7, 1.0},   // harmonious at full strength
		{"sextile", 5, 5, 0},   // zero strength at the orb limit
		{"square", 0, 6, -0.8}, // challenging at full strength
		{"conjunction", 4, 8, 0.3},
		{"quincunx", 0, 3, 0}, // unrecognized type contributes nothing
	}
	for _, c := range cases {
		got := s.aspectScore(c.aspectType, c.orb, c.max)
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("aspectScore(%s, %v, %v) = %v, want %v", c.aspectType, c.orb, c.max, got, c.want)
		}
	}
}

func TestEvaluateBlockEmpty(t *testing.T) {
	s := NewCompatibilityScorer(astro.DefaultTables())
	if got := s.evaluateBlock(nil); got != 0.5 {
		t.Fatalf("empty block = %v, want exactly 0.5", got)
	}
}

func TestEvaluateBlockBounds(t *testing.T) {
	s := NewCompatibilityScorer(astro.DefaultTables())

	harmonious := []models.SynastryAspect{
		{PlanetA: "Venus", PlanetB: "Mars", AspectType: "trine", Orb: 0, MaxOrb: 7},
	}
	if got := s.evaluateBlock(harmonious); got != 1.0 {
		t.Fatalf("maximally harmonious block = %v, want 1", got)
	}

	challenging := []models.SynastryAspect{
		{PlanetA: "Venus", PlanetB: "Mars", AspectType: "square", Orb: 0, MaxOrb: 6},
	}
	got := s.evaluateBlock(challenging)
	if math.Abs(got-0.1) > 1e-9 {
		t.Fatalf("maximally challenging block = %v, want 0.1", got)
	}
}

func TestCompareSingleSun(t *testing.T) {
	s := NewCompatibilityScorer(astro.DefaultTables())

	a := chartWith(map[string]float64{"Sun": 0})
	b := chartWith(map[string]float64{"Sun": 0})

	got := s.Compare(a, b)
	if got.AspectCount != 1 {
		t.Fatalf("aspect count = %d, want 1", got.AspectCount)
	}
	if len(got.Blocks) != 5 {
		t.Fatalf("expected all 5 blocks reported, got %v", got.Blocks)
	}

	// The Sun-Sun conjunction lands in the emotional and mental blocks
	// (Sun rides along in both pair rules); the other three stay at the
	// neutral 50.
	want := map[string]float64{
		"romantic":  50.0,
		"emotional": 80.0,
		"mental":    80.0,
		"sexual":    50.0,
		"stability": 50.0,
	}
	for name, w := range want {
		if got.Blocks[name] != w {
			t.Fatalf("block %s = %v, want %v", name, got.Blocks[name], w)
		}
	}
	if got.TotalScore != 62.0 {
		t.Fatalf("total score = %v, want 62.0", got.TotalScore)
	}
}

func TestCompareVenusMarsOverlap(t *testing.T) {
	s := NewCompatibilityScorer(astro.DefaultTables())

	// One exact Venus-Mars trine. The pair belongs to the romantic and the
	// sexual block at once; that double counting is part of the contract.
	a := chartWith(map[string]float64{"Venus": 0})
	b := chartWith(map[string]float64{"Mars": 120})

	got := s.Compare(a, b)
	if got.AspectCount != 1 {
		t.Fatalf("aspect count = %d, want 1", got.AspectCount)
	}
	if got.Blocks["romantic"] != 100.0 {
		t.Fatalf("romantic = %v, want 100.0", got.Blocks["romantic"])
	}
	if got.Blocks["sexual"] != 100.0 {
		t.Fatalf("sexual = %v, want 100.0", got.Blocks["sexual"])
	}
	if got.Blocks["emotional"] != 50.0 || got.Blocks["mental"] != 50.0 || got.Blocks["stability"] != 50.0 {
		t.Fatalf("unexpected spill into other blocks: %v", got.Blocks)
	}
}

func TestCompareSaturnStability(t *testing.T) {
	s := NewCompatibilityScorer(astro.DefaultTables())

	// Saturn aspects anything -> stability block, regardless of the partner.
	a := chartWith(map[string]float64{"Saturn": 10})
	b := chartWith(map[string]float64{"Jupiter": 190})

	got := s.Compare(a, b)
	if got.AspectCount != 1 {
		t.Fatalf("aspect count = %d, want 1", got.AspectCount)
	}
	if got.Blocks["stability"] != 10.0 {
		t.Fatalf("stability = %v, want 10.0 for an exact opposition", got.Blocks["stability"])
	}
}

func TestCompareRelabelInvariance(t *testing.T) {
	s := NewCompatibilityScorer(astro.DefaultTables())

	longs := map[string]float64{
		"Sun": 10, "Moon": 75, "Mercury": 14, "Venus": 200,
		"Mars": 321, "Jupiter": 98, "Saturn": 255,
	}
	a := chartWith(longs)
	b := chartWith(longs)

	first := s.Compare(a, b)
	second := s.Compare(b, a)
	if first.TotalScore != second.TotalScore || first.AspectCount != second.AspectCount {
		t.Fatalf("identical charts must compare symmetrically: %+v vs %+v", first, second)
	}
	for name, v := range first.Blocks {
		if second.Blocks[name] != v {
			t.Fatalf("block %s differs on swap: %v vs %v", name, v, second.Blocks[name])
		}
	}
}

func TestCompareSelfAllBodies(t *testing.T) {
	tables := astro.DefaultTables()
	s := NewCompatibilityScorer(tables)
	engine := NewSynastryEngine(tables)

	// All ten bodies 36 degrees apart. Same-position pairs conjoin at orb 0;
	// bodies five steps apart sit in exact opposition; every other separation
	// (36, 72, 108, 144) clears all five orb windows. Against itself the
	// chart therefore yields 10 self conjunctions plus 10 directed
	// opposition pairs and nothing else.
	longs := map[string]float64{}
	for i, b := range tables.Bodies {
		longs[b.Name] = float64(i) * 36
	}
	chart := chartWith(longs)

	got := s.Compare(chart, chart)
	if got.AspectCount != 20 {
		t.Fatalf("aspect count = %d, want 20 (10 self conjunctions + 10 oppositions)", got.AspectCount)
	}

	selfPairs := map[string]bool{}
	for _, a := range engine.Aspects(chart, chart) {
		if a.PlanetA != a.PlanetB {
			continue
		}
		if a.AspectType != "conjunction" {
			t.Fatalf("self pair %s detected as %s, want conjunction", a.PlanetA, a.AspectType)
		}
		if a.Orb != 0 {
			t.Fatalf("self pair %s has orb %v, want exactly 0", a.PlanetA, a.Orb)
		}
		selfPairs[a.PlanetA] = true
	}
	if len(selfPairs) != len(tables.Bodies) {
		t.Fatalf("expected a zero-orb conjunction for each of the %d bodies, got %d", len(tables.Bodies), len(selfPairs))
	}
}

func TestCompareEmptyCharts(t *testing.T) {
	s := NewCompatibilityScorer(astro.DefaultTables())

	got := s.Compare(models.NatalChart{}, models.NatalChart{})
	if got.AspectCount != 0 {
		t.Fatalf("aspect count = %d, want 0", got.AspectCount)
	}
	for name, v := range got.Blocks {
		if v != 50.0 {
			t.Fatalf("block %s = %v, want neutral 50.0", name, v)
		}
	}
	if got.TotalScore != 50.0 {
		t.Fatalf("total score = %v, want 50.0", got.TotalScore)
	}
}
