package scheduler

import (
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Background runs work on a fixed pool of worker goroutines. Work may run on
// any worker and concurrently with other Background work; no ordering is
// guaranteed between units. Submission never blocks.
type Background struct {
	opts options

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []job
	closed bool
	stop   chan struct{}

	group     errgroup.Group
	closeOnce sync.Once
}

// NewBackground creates a worker pool and starts its workers.
// The worker count defaults to runtime.NumCPU(); see WithWorkers.
func NewBackground(opts ...Option) *Background {
	s := &Background{
		opts: buildOptions(opts),
		stop: make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)

	for i := 0; i < s.opts.workers; i++ {
		s.group.Go(func() error {
			s.work()
			return nil
		})
	}
	return s
}

// Kind returns KindBackground.
func (s *Background) Kind() Kind { return KindBackground }

// Workers returns the size of the worker pool.
func (s *Background) Workers() int { return s.opts.workers }

// Schedule queues w for the next free worker.
func (s *Background) Schedule(w Work) Token {
	tok := newToken()
	if !s.enqueue(job{tok: tok, work: w}) {
		return cancelledToken()
	}
	return tok
}

// ScheduleAfter queues w once delay has elapsed.
func (s *Background) ScheduleAfter(delay time.Duration, w Work) Token {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return cancelledToken()
	}

	tok := newToken()
	after(s.opts.clock, delay, tok, s.stop, func() {
		if !s.enqueue(job{tok: tok, work: w}) {
			tok.Cancel()
		}
	})
	return tok
}

func (s *Background) enqueue(j job) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.queue = append(s.queue, j)
	s.cond.Signal()
	return true
}

func (s *Background) work() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		j := s.queue[0]
		s.queue[0] = job{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		execute(j, KindBackground, s.opts.logger)
	}
}

// Close drops queued work, stops the workers and waits for running work to
// finish.
func (s *Background) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		dropped := s.queue
		s.queue = nil
		close(s.stop)
		s.cond.Broadcast()
		s.mu.Unlock()

		for _, j := range dropped {
			j.tok.Cancel()
		}
		_ = s.group.Wait() //nolint:errcheck // workers never return errors
	})
}
