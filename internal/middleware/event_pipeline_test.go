package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"AstroChart/internal/domain/models"
)

type captureProc struct {
	mu     sync.Mutex
	events []*models.ChartEvent
	err    error
}

func (p *captureProc) Process(_ context.Context, e *models.ChartEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *captureProc) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type countingMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{errors: make(map[string]int)}
}

func (m *countingMetrics) RecordChartBuilt(string)       {}
func (m *countingMetrics) RecordCompare()                {}
func (m *countingMetrics) RecordLatency(string, float64) {}
func (m *countingMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *countingMetrics) errorCount(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[kind]
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

func TestPipelineDelivers(t *testing.T) {
	proc := &captureProc{}
	m := newCountingMetrics()
	p := NewEventPipeline(proc, m)
	p.Start(context.Background())
	defer p.Stop(context.Background())

	for i := 0; i < 5; i++ {
		p.Enqueue(&models.ChartEvent{Type: models.EventChartBuilt})
	}
	waitFor(t, func() bool { return proc.count() == 5 })
}

func TestPipelineStopFlushes(t *testing.T) {
	proc := &captureProc{}
	m := newCountingMetrics()
	p := NewEventPipeline(proc, m, WithBufferSize(16))
	p.Start(context.Background())

	for i := 0; i < 8; i++ {
		p.Enqueue(&models.ChartEvent{Type: models.EventChartsCompared})
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if got := proc.count(); got != 8 {
		t.Fatalf("processed %d events after stop, want 8", got)
	}
}

func TestPipelineDropsWhenFull(t *testing.T) {
	proc := &captureProc{}
	m := newCountingMetrics()
	// Never started: the buffer fills and overflow is dropped.
	p := NewEventPipeline(proc, m, WithBufferSize(2))

	for i := 0; i < 5; i++ {
		p.Enqueue(&models.ChartEvent{Type: models.EventChartBuilt})
	}
	if got := m.errorCount("pipeline_buffer_drop"); got != 3 {
		t.Fatalf("dropped %d events, want 3", got)
	}
}

func TestPipelineRecordsFlushErrors(t *testing.T) {
	proc := &captureProc{err: errors.New("broker down")}
	m := newCountingMetrics()
	p := NewEventPipeline(proc, m)
	p.Start(context.Background())
	defer p.Stop(context.Background())

	p.Enqueue(&models.ChartEvent{Type: models.EventChartBuilt})
	waitFor(t, func() bool { return m.errorCount("pipeline_flush") >= 1 })
}

func TestPipelineStopTimeout(t *testing.T) {
	proc := &captureProc{}
	m := newCountingMetrics()
	p := NewEventPipeline(proc, m)
	// Never started: Stop must return immediately, not hang.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := p.Stop(ctx); err != nil {
		t.Fatalf("stop on unstarted pipeline: %v", err)
	}
}
