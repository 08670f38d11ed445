package rxflow

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/randalmurphal/rxflow/pkg/rxflow/observability"
)

// State is the lifecycle state of a Subscription.
type State int32

const (
	// StateActive means values are still delivered.
	StateActive State = iota
	// StateCancelled means the subscriber called Cancel.
	StateCancelled
	// StateCompleted means the pipeline completed normally.
	StateCompleted
	// StateErrored means the pipeline terminated with an error.
	StateErrored
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateCancelled:
		return "cancelled"
	case StateCompleted:
		return "completed"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further delivery can happen in this state.
func (s State) Terminal() bool {
	return s != StateActive
}

// Subscription is the live binding between a pipeline and its subscriber.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Cancel stops delivery and releases every resource the pipeline holds
	// for this subscription. Calling it more than once, or after the
	// pipeline terminated, is a no-op.
	Cancel()

	// State returns the current lifecycle state.
	State() State

	// Active reports whether values are still delivered.
	Active() bool

	// Done is closed once the subscription reaches a terminal state.
	Done() <-chan struct{}
}

// subscription is the Subscription shared by every stage of one subscribed
// chain. Stages register teardown functions on it.
type subscription struct {
	id       string
	pipeline string
	logger   *slog.Logger
	metrics  observability.MetricsRecorder

	state atomic.Int32
	done  chan struct{}

	mu        sync.Mutex
	teardowns []func()
}

func newSubscription(pipeline string, cfg subscribeConfig) *subscription {
	return &subscription{
		id:       uuid.NewString(),
		pipeline: pipeline,
		logger:   cfg.logger,
		metrics:  cfg.metrics,
		done:     make(chan struct{}),
	}
}

// Compile-time interface check.
var _ Subscription = (*subscription)(nil)

func (s *subscription) ID() string { return s.id }

func (s *subscription) State() State { return State(s.state.Load()) }

func (s *subscription) Active() bool { return s.State() == StateActive }

func (s *subscription) Done() <-chan struct{} { return s.done }

func (s *subscription) Cancel() {
	if s.terminate(StateCancelled) {
		observability.LogCancel(s.logger, s.pipeline, s.id)
	}
}

// terminate moves the subscription from Active to the given terminal state
// and runs the registered teardowns in reverse order. It returns false if
// the subscription was already terminal.
func (s *subscription) terminate(to State) bool {
	if !s.state.CompareAndSwap(int32(StateActive), int32(to)) {
		return false
	}

	s.mu.Lock()
	teardowns := s.teardowns
	s.teardowns = nil
	s.mu.Unlock()

	for i := len(teardowns) - 1; i >= 0; i-- {
		teardowns[i]()
	}
	close(s.done)
	return true
}

// add registers a teardown. If the subscription is already terminal the
// teardown runs immediately.
func (s *subscription) add(fn func()) {
	s.mu.Lock()
	if s.Active() {
		s.teardowns = append(s.teardowns, fn)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	fn()
}

// stageFailed records a failure caught at a stage boundary.
func (s *subscription) stageFailed(stage string, err error) {
	observability.LogStageError(s.logger, stage, err)
	s.metrics.RecordStageError(context.Background(), stage)
}
