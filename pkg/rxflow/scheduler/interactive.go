package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Interactive runs work on a single loop goroutine, one unit at a time, in
// submission order. It models a UI main thread: submitted work must never
// block.
//
// The loop is driven either by calling Run on the goroutine that should own
// it, or by Start, which spawns one.
type Interactive struct {
	opts options

	mu     sync.Mutex
	queue  []job
	wake   chan struct{}
	closed chan struct{}

	closeOnce sync.Once
	running   atomic.Bool
}

// NewInteractive creates an interactive scheduler. No work runs until Run or
// Start is called.
func NewInteractive(opts ...Option) *Interactive {
	return &Interactive{
		opts:   buildOptions(opts),
		wake:   make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// Kind returns KindInteractive.
func (s *Interactive) Kind() Kind { return KindInteractive }

// Schedule queues w behind all previously submitted work.
func (s *Interactive) Schedule(w Work) Token {
	tok := newToken()
	if !s.enqueue(job{tok: tok, work: w}) {
		return cancelledToken()
	}
	return tok
}

// ScheduleAfter queues w once delay has elapsed.
func (s *Interactive) ScheduleAfter(delay time.Duration, w Work) Token {
	if s.isClosed() {
		return cancelledToken()
	}
	tok := newToken()
	after(s.opts.clock, delay, tok, s.closed, func() {
		if !s.enqueue(job{tok: tok, work: w}) {
			tok.Cancel()
		}
	})
	return tok
}

func (s *Interactive) enqueue(j job) bool {
	s.mu.Lock()
	if s.isClosed() {
		s.mu.Unlock()
		return false
	}
	s.queue = append(s.queue, j)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return true
}

// Run drives the loop on the calling goroutine until ctx is done or Close is
// called. It returns ctx.Err() when the context ends the loop and nil after
// Close.
func (s *Interactive) Run(ctx context.Context) error {
	if s.isClosed() {
		return ErrSchedulerClosed
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer s.running.Store(false)

	for {
		for {
			j, ok := s.next()
			if !ok {
				break
			}
			execute(j, KindInteractive, s.opts.logger)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.closed:
			return nil
		case <-s.wake:
		}
	}
}

// Start runs the loop on a new goroutine.
func (s *Interactive) Start(ctx context.Context) {
	go func() {
		_ = s.Run(ctx) //nolint:errcheck // loop exit is observed through ctx or Close
	}()
}

func (s *Interactive) next() (job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isClosed() || len(s.queue) == 0 {
		return job{}, false
	}
	j := s.queue[0]
	s.queue[0] = job{}
	s.queue = s.queue[1:]
	return j, true
}

// Pending returns the number of queued units not yet started.
func (s *Interactive) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Close stops the loop and drops queued work. Work already running finishes.
func (s *Interactive) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		close(s.closed)
		dropped := s.queue
		s.queue = nil
		s.mu.Unlock()

		for _, j := range dropped {
			j.tok.Cancel()
		}
	})
}

func (s *Interactive) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}
