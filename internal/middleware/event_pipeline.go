package middleware

import (
	"context"
	"sync"
	"time"

	"AstroChart/internal/domain/models"
	domrepo "AstroChart/internal/domain/repository"
)

// Proc is the minimal processor interface the pipeline drains into.
type Proc interface {
	Process(ctx context.Context, e *models.ChartEvent) error
}

// EventPipeline sits between the request path and the event sinks. Enqueue
// never blocks: events buffer in a channel and a single goroutine drains them
// with backoff, so a slow broker or store cannot stall a build or compare.
type EventPipeline struct {
	proc    Proc
	metrics domrepo.Metrics
	bufCh   chan *models.ChartEvent
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	mu      sync.Mutex
}

type PipelineOption func(*pipelineConfig)

type pipelineConfig struct {
	bufferSize int
}

// WithBufferSize sets how many events may wait for the drain goroutine.
func WithBufferSize(n int) PipelineOption {
	return func(c *pipelineConfig) {
		if n > 0 {
			c.bufferSize = n
		}
	}
}

func NewEventPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *EventPipeline {
	cfg := &pipelineConfig{bufferSize: 1000}
	for _, opt := range opts {
		opt(cfg)
	}
	return &EventPipeline{
		proc:    proc,
		metrics: metrics,
		bufCh:   make(chan *models.ChartEvent, cfg.bufferSize),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Enqueue buffers an event. When the buffer is full the event is dropped and
// counted; delivery is fire-and-forget by contract.
func (p *EventPipeline) Enqueue(e *models.ChartEvent) {
	if e == nil {
		return
	}
	select {
	case p.bufCh <- e:
	default:
		p.metrics.RecordError("pipeline_buffer_drop")
	}
}

// Start launches the drain goroutine. Safe to call once.
func (p *EventPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		defer close(p.doneCh)
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				p.drain(ctx)
				return
			case e := <-p.bufCh:
				if e == nil {
					continue
				}
				if err := p.proc.Process(ctx, e); err != nil {
					p.metrics.RecordError("pipeline_flush")
					if backoff < 2*time.Second {
						backoff *= 2
					}
					time.Sleep(backoff)
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// drain makes one best-effort pass over whatever is still buffered.
func (p *EventPipeline) drain(ctx context.Context) {
	for {
		select {
		case e := <-p.bufCh:
			if e == nil {
				continue
			}
			if err := p.proc.Process(ctx, e); err != nil {
				p.metrics.RecordError("pipeline_flush")
			}
		default:
			return
		}
	}
}

// Stop ends the drain goroutine after a final flush and waits for it.
func (p *EventPipeline) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	close(p.stopCh)
	select {
	case <-p.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
