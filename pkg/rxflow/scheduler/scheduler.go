// Package scheduler provides the execution contexts rxflow pipelines hop
// between: a single-threaded Interactive loop, an unordered Background worker
// pool, an inline Immediate scheduler and a deterministic Virtual scheduler
// for tests.
package scheduler

import (
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/clockz"

	"github.com/randalmurphal/rxflow/pkg/rxflow/observability"
)

// Kind identifies the execution context a scheduler represents.
type Kind int

const (
	// KindImmediate runs work inline on the submitting goroutine.
	KindImmediate Kind = iota
	// KindInteractive runs work on one logical thread in submission order.
	KindInteractive
	// KindBackground runs work on any available worker, concurrently.
	KindBackground
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindImmediate:
		return "immediate"
	case KindInteractive:
		return "interactive"
	case KindBackground:
		return "background"
	default:
		return "unknown"
	}
}

// Work is a unit of work submitted to a scheduler.
//
// A non-nil error returned by Run, or a panic raised inside it, is passed to
// Fail. When Fail is nil the scheduler logs the failure and keeps running.
type Work struct {
	Run  func() error
	Fail func(error)
}

// Token cancels scheduled work.
type Token interface {
	// Cancel prevents the work from starting. It returns true only if the
	// work had not started yet. Work already running is not interrupted.
	Cancel() bool

	// Cancelled reports whether Cancel prevented the work from running.
	Cancelled() bool
}

// Scheduler executes units of work on a specific execution context.
type Scheduler interface {
	// Kind returns the execution context this scheduler represents.
	Kind() Kind

	// Schedule submits work for execution as soon as possible.
	Schedule(w Work) Token

	// ScheduleAfter submits work for execution once delay has elapsed.
	ScheduleAfter(delay time.Duration, w Work) Token
}

const (
	tokenPending int32 = iota
	tokenRunning
	tokenDone
	tokenCancelled
)

// token is the Token implementation shared by all schedulers.
type token struct {
	state     atomic.Int32
	done      chan struct{}
	closeOnce sync.Once
}

func newToken() *token {
	return &token{done: make(chan struct{})}
}

// cancelledToken returns a token that never runs its work.
func cancelledToken() *token {
	t := newToken()
	t.Cancel()
	return t
}

func (t *token) Cancel() bool {
	if t.state.CompareAndSwap(tokenPending, tokenCancelled) {
		t.closeOnce.Do(func() { close(t.done) })
		return true
	}
	return false
}

func (t *token) Cancelled() bool {
	return t.state.Load() == tokenCancelled
}

// begin claims the work for execution.
func (t *token) begin() bool {
	return t.state.CompareAndSwap(tokenPending, tokenRunning)
}

func (t *token) finish() {
	t.state.Store(tokenDone)
}

// job pairs work with the token guarding it.
type job struct {
	tok  *token
	work Work
}

// execute runs the job if it was not cancelled, routing errors and panics to
// the job's failure handler.
func execute(j job, kind Kind, logger *slog.Logger) {
	if !j.tok.begin() {
		return
	}
	defer j.tok.finish()

	if err := safeRun(j.work.Run); err != nil {
		if j.work.Fail != nil {
			j.work.Fail(err)
			return
		}
		observability.LogSchedulerFailure(logger, kind.String(), err)
	}
}

func safeRun(run func() error) (err error) {
	if run == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()
	return run()
}

// options holds scheduler configuration.
type options struct {
	clock   clockz.Clock
	logger  *slog.Logger
	workers int
}

func defaultOptions() options {
	return options{
		clock:   clockz.RealClock,
		workers: runtime.NumCPU(),
	}
}

// Option configures a scheduler.
type Option func(*options)

// WithClock sets the clock used for delayed work.
// Use this with clockz.NewFakeClock() for deterministic timer testing.
func WithClock(clock clockz.Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger sets the logger used for failures without a handler.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithWorkers sets the Background worker count. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o
}

// after waits for delay on clock and then calls submit, unless the token is
// cancelled or stop is closed first.
func after(clock clockz.Clock, delay time.Duration, tok *token, stop <-chan struct{}, submit func()) {
	if delay <= 0 {
		submit()
		return
	}
	timer := clock.NewTimer(delay)
	go func() {
		select {
		case <-timer.C():
			submit()
		case <-tok.done:
			timer.Stop()
		case <-stop:
			timer.Stop()
		}
	}()
}
