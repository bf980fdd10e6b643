package usecase

import (
	"context"
	"fmt"

	"AstroChart/internal/domain/models"
	domrepo "AstroChart/internal/domain/repository"
)

// EventRouter fans a drained pipeline event out to the configured sinks:
// the Kafka publisher for every event, the analytics store for compare
// summaries. Either sink may be absent.
type EventRouter struct {
	pub     domrepo.Publisher
	results domrepo.ResultStore
	metrics domrepo.Metrics
}

func NewEventRouter(pub domrepo.Publisher, results domrepo.ResultStore, metrics domrepo.Metrics) *EventRouter {
	return &EventRouter{pub: pub, results: results, metrics: metrics}
}

func (r *EventRouter) Process(ctx context.Context, e *models.ChartEvent) error {
	if r.pub != nil {
		if err := r.pub.Publish(ctx, e); err != nil {
			r.metrics.RecordError("event_publish")
			return fmt.Errorf("publish %s: %w", e.Type, err)
		}
	}
	if r.results != nil && e.Type == models.EventChartsCompared && e.Summary != nil {
		if err := r.results.Store(ctx, e.Summary); err != nil {
			r.metrics.RecordError("result_store")
			return fmt.Errorf("store compare record: %w", err)
		}
	}
	return nil
}
