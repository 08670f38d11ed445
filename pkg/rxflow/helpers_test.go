package rxflow_test

import (
	"context"
	"sync"
	"time"

	"github.com/randalmurphal/rxflow/pkg/rxflow/observability"
)

// recorder collects the signals delivered to one subscriber.
type recorder[T any] struct {
	mu        sync.Mutex
	values    []T
	errs      []error
	completes int
}

func (r *recorder[T]) onValue(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder[T]) onError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder[T]) onComplete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completes++
}

func (r *recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.values...)
}

func (r *recorder[T]) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

func (r *recorder[T]) Completes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completes
}

// countingMetrics is an in-memory MetricsRecorder.
type countingMetrics struct {
	mu          sync.Mutex
	deliveries  int
	suppressed  int
	stageErrors int
	dropped     int
	searches    int
}

var _ observability.MetricsRecorder = (*countingMetrics)(nil)

func (m *countingMetrics) RecordDelivery(_ context.Context, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveries++
}

func (m *countingMetrics) RecordSuppressed(_ context.Context, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suppressed++
}

func (m *countingMetrics) RecordStageError(_ context.Context, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stageErrors++
}

func (m *countingMetrics) RecordDebounceDropped(_ context.Context, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropped++
}

func (m *countingMetrics) RecordSearch(_ context.Context, _ int, _ time.Duration, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches++
}

func (m *countingMetrics) snapshot() countingMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return countingMetrics{
		deliveries:  m.deliveries,
		suppressed:  m.suppressed,
		stageErrors: m.stageErrors,
		dropped:     m.dropped,
		searches:    m.searches,
	}
}
