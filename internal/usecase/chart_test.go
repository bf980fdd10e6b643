package usecase

import (
	"context"
	"errors"
	"testing"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/domain/service"
	"AstroChart/internal/services/astro"
)

type captureSink struct {
	events []*models.ChartEvent
}

func (s *captureSink) Enqueue(e *models.ChartEvent) {
	s.events = append(s.events, e)
}

func newChartService(oracle *fakeOracle, sink EventSink) *ChartService {
	tables := astro.DefaultTables()
	return NewChartService(
		NewChartBuilder(oracle, tables),
		NewCompatibilityScorer(tables),
		sink,
		noopMetrics{},
		oracle.Backend(),
		nil,
	)
}

func TestChartServiceBuildEmitsEvent(t *testing.T) {
	sink := &captureSink{}
	svc := newChartService(newFakeOracle(), sink)

	req := &models.BuildChartRequest{DateTime: "2000-01-01T12:00:00"}
	chart, err := svc.BuildChart(context.Background(), req)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(chart.Planets) != 10 {
		t.Fatalf("expected 10 planets, got %d", len(chart.Planets))
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(sink.events))
	}
	e := sink.events[0]
	if e.Type != models.EventChartBuilt || e.Backend != "fake" {
		t.Fatalf("unexpected event %+v", e)
	}
}

func TestChartServiceBuildErrorNoEvent(t *testing.T) {
	oracle := newFakeOracle()
	oracle.posErr = errors.New("down")
	sink := &captureSink{}
	svc := newChartService(oracle, sink)

	_, err := svc.BuildChart(context.Background(), &models.BuildChartRequest{DateTime: "2000-01-01T12:00:00"})
	if !errors.Is(err, service.ErrEphemeris) {
		t.Fatalf("expected ErrEphemeris, got %v", err)
	}
	if len(sink.events) != 0 {
		t.Fatalf("failed builds must not emit events, got %d", len(sink.events))
	}
}

func TestChartServiceCompareEmitsSummary(t *testing.T) {
	sink := &captureSink{}
	svc := newChartService(newFakeOracle(), sink)

	chart := chartWith(map[string]float64{"Sun": 0})
	result, err := svc.CompareCharts(context.Background(), &models.CompareChartsRequest{
		Chart1: chart,
		Chart2: chart,
	})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(sink.events))
	}
	e := sink.events[0]
	if e.Type != models.EventChartsCompared || e.Summary == nil {
		t.Fatalf("unexpected event %+v", e)
	}
	if e.Summary.TotalScore != result.TotalScore || e.Summary.AspectCount != result.AspectCount {
		t.Fatalf("summary %+v does not match result %+v", e.Summary, result)
	}
}
