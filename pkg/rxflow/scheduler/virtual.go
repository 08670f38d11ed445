package scheduler

import (
	"sync"
	"time"
)

// Virtual is a deterministic scheduler driven by a virtual clock.
//
// Work never runs on its own: it runs on the caller's goroutine inside
// AdvanceBy, AdvanceTo or Flush, ordered by due time and then by submission
// order. A single Virtual can stand in for both the Interactive and the
// Background scheduler of a pipeline.
type Virtual struct {
	kind Kind
	opts options

	mu    sync.Mutex
	now   time.Time
	seq   uint64
	queue []*virtualJob
}

type virtualJob struct {
	job
	due time.Time
	seq uint64
}

// virtualEpoch is the virtual clock's starting instant.
var virtualEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// NewVirtual creates a virtual scheduler reporting the given kind.
func NewVirtual(kind Kind, opts ...Option) *Virtual {
	return &Virtual{
		kind: kind,
		opts: buildOptions(opts),
		now:  virtualEpoch,
	}
}

// Kind returns the kind passed to NewVirtual.
func (s *Virtual) Kind() Kind { return s.kind }

// Now returns the current virtual time.
func (s *Virtual) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Elapsed returns the virtual time elapsed since the scheduler was created.
func (s *Virtual) Elapsed() time.Duration {
	return s.Now().Sub(virtualEpoch)
}

// Schedule queues w at the current virtual time.
func (s *Virtual) Schedule(w Work) Token {
	return s.ScheduleAfter(0, w)
}

// ScheduleAfter queues w at the current virtual time plus delay.
func (s *Virtual) ScheduleAfter(delay time.Duration, w Work) Token {
	if delay < 0 {
		delay = 0
	}
	tok := newToken()

	s.mu.Lock()
	s.seq++
	s.queue = append(s.queue, &virtualJob{
		job: job{tok: tok, work: w},
		due: s.now.Add(delay),
		seq: s.seq,
	})
	s.mu.Unlock()
	return tok
}

// AdvanceBy moves the virtual clock forward by d, running all work that
// becomes due, including work scheduled by work run during the advance.
func (s *Virtual) AdvanceBy(d time.Duration) {
	s.AdvanceTo(s.Now().Add(d))
}

// AdvanceTo moves the virtual clock to t, running all work due at or before t.
// Moving backwards is a no-op apart from running work already due.
func (s *Virtual) AdvanceTo(t time.Time) {
	for {
		j, ok := s.popDue(t)
		if !ok {
			break
		}
		execute(j.job, s.kind, s.opts.logger)
	}

	s.mu.Lock()
	if t.After(s.now) {
		s.now = t
	}
	s.mu.Unlock()
}

// Flush runs all work due at the current virtual time.
func (s *Virtual) Flush() {
	s.AdvanceBy(0)
}

// Pending returns the number of queued units that have not been cancelled.
func (s *Virtual) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, j := range s.queue {
		if !j.tok.Cancelled() {
			n++
		}
	}
	return n
}

// popDue removes and returns the earliest job due at or before t, advancing
// the clock to its due time.
func (s *Virtual) popDue(t time.Time) (*virtualJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	best := -1
	for i, j := range s.queue {
		if j.due.After(t) {
			continue
		}
		if best < 0 || j.due.Before(s.queue[best].due) ||
			(j.due.Equal(s.queue[best].due) && j.seq < s.queue[best].seq) {
			best = i
		}
	}
	if best < 0 {
		return nil, false
	}

	j := s.queue[best]
	s.queue = append(s.queue[:best], s.queue[best+1:]...)
	if j.due.After(s.now) {
		s.now = j.due
	}
	return j, true
}
