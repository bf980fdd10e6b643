package usecase

import (
	"context"
	"time"

	"AstroChart/internal/domain/models"
	domrepo "AstroChart/internal/domain/repository"
	xlogger "AstroChart/pkg/logger"
)

// EventSink accepts domain events without blocking the request path.
type EventSink interface {
	Enqueue(e *models.ChartEvent)
}

// ChartService is the entry point the transport layer calls: it runs the
// builder and scorer, records metrics and emits fire-and-forget events.
type ChartService struct {
	builder *ChartBuilder
	scorer  *CompatibilityScorer
	events  EventSink
	metrics domrepo.Metrics
	backend string
	l       *xlogger.Logger
}

func NewChartService(
	builder *ChartBuilder,
	scorer *CompatibilityScorer,
	events EventSink,
	metrics domrepo.Metrics,
	backend string,
	l *xlogger.Logger,
) *ChartService {
	return &ChartService{
		builder: builder,
		scorer:  scorer,
		events:  events,
		metrics: metrics,
		backend: backend,
		l:       l,
	}
}

// Backend names the configured oracle implementation.
func (s *ChartService) Backend() string { return s.backend }

func (s *ChartService) BuildChart(ctx context.Context, req *models.BuildChartRequest) (models.NatalChart, error) {
	start := time.Now()
	chart, err := s.builder.Build(ctx, req.DateTime, req.Latitude, req.Longitude, req.TZOffsetHours)
	if err != nil {
		s.metrics.RecordError("chart_build")
		return models.NatalChart{}, err
	}
	s.metrics.RecordLatency("chart_build", time.Since(start).Seconds())
	s.metrics.RecordChartBuilt(s.backend)

	if s.events != nil {
		s.events.Enqueue(&models.ChartEvent{
			Type:    models.EventChartBuilt,
			At:      time.Now().UTC(),
			Backend: s.backend,
		})
	}
	if s.l != nil {
		s.l.Debug("chart built",
			xlogger.Int("aspects", len(chart.Aspects)),
			xlogger.String("backend", s.backend))
	}
	return chart, nil
}

func (s *ChartService) CompareCharts(ctx context.Context, req *models.CompareChartsRequest) (models.CompatibilityInfo, error) {
	start := time.Now()
	result := s.scorer.Compare(req.Chart1, req.Chart2)
	s.metrics.RecordLatency("charts_compare", time.Since(start).Seconds())
	s.metrics.RecordCompare()

	if s.events != nil {
		s.events.Enqueue(&models.ChartEvent{
			Type: models.EventChartsCompared,
			At:   time.Now().UTC(),
			Summary: &models.CompareRecord{
				TS:          time.Now().UTC(),
				TotalScore:  result.TotalScore,
				Blocks:      result.Blocks,
				AspectCount: result.AspectCount,
			},
		})
	}
	return result, nil
}
