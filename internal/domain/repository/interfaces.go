package repository

import (
	"context"

	"AstroChart/internal/domain/models"
)

// Publisher delivers domain events to the event bus. Implementations must be
// safe to call from the async pipeline goroutine.
type Publisher interface {
	Publish(ctx context.Context, e *models.ChartEvent) error
	Close() error
}

// ResultStore persists compare-result summaries for analytics. It never sees
// charts or birth data.
type ResultStore interface {
	Store(ctx context.Context, r *models.CompareRecord) error
	Health(ctx context.Context) error // ping
	Close() error
}

type Metrics interface {
	RecordChartBuilt(backend string)
	RecordCompare()
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
