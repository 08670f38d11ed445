package scheduler

import "time"

// Immediate runs work inline on the goroutine that submits it.
// Delayed work runs inline on the timer goroutine once the delay elapses.
type Immediate struct {
	opts options
}

// NewImmediate creates an inline scheduler.
func NewImmediate(opts ...Option) *Immediate {
	return &Immediate{opts: buildOptions(opts)}
}

// Kind returns KindImmediate.
func (s *Immediate) Kind() Kind { return KindImmediate }

// Schedule runs w before returning.
func (s *Immediate) Schedule(w Work) Token {
	tok := newToken()
	execute(job{tok: tok, work: w}, KindImmediate, s.opts.logger)
	return tok
}

// ScheduleAfter runs w once delay has elapsed on the configured clock.
func (s *Immediate) ScheduleAfter(delay time.Duration, w Work) Token {
	tok := newToken()
	after(s.opts.clock, delay, tok, nil, func() {
		execute(job{tok: tok, work: w}, KindImmediate, s.opts.logger)
	})
	return tok
}
