package rxflow

import "sync"

// Ingress is the push side of an event source.
type Ingress[T any] interface {
	// Push delivers v to every active subscriber in registration order.
	Push(v T)
	// Error terminates the source with err.
	Error(err error)
	// Complete terminates the source normally.
	Complete()
}

// Egress is the subscribe side of an event source.
type Egress[T any] interface {
	// Observable returns the source as the head of a pipeline.
	Observable() *Observable[T]
	// Subscribe registers callbacks directly on the source.
	Subscribe(onValue func(T), onError func(error), onComplete func(), opts ...SubscribeOption) Subscription
}

// Subject is a hot, multicast event source. Values pushed into it are
// delivered synchronously to the subscribers registered at that moment;
// nothing is replayed to late subscribers.
//
// Deliveries are serialized, so concurrent callers never interleave them.
// A Push, Error or Complete made while another delivery is in progress,
// including one made from inside a subscriber callback, is queued and
// delivered by the goroutine already delivering once its current signal
// returns.
type Subject[T any] struct {
	name string

	mu         sync.RWMutex
	observers  []*subjectEntry[T]
	terminated bool
	err        error

	pending  []subjectSignal[T]
	emitting bool
}

// subjectSignal is a queued value or terminal signal.
type subjectSignal[T any] struct {
	value    T
	terminal bool
	err      error
}

type subjectEntry[T any] struct {
	sub *subscription
	obs Observer[T]
}

// Compile-time interface checks.
var (
	_ Ingress[int] = (*Subject[int])(nil)
	_ Egress[int]  = (*Subject[int])(nil)
)

// NewSubject creates a Subject. The name labels the pipelines built on it.
func NewSubject[T any](name string) *Subject[T] {
	if name == "" {
		name = "subject"
	}
	return &Subject[T]{name: name}
}

// Observable returns the Subject as the head of a pipeline.
func (s *Subject[T]) Observable() *Observable[T] {
	return newObservable(s.name, s.attach)
}

// Subscribe registers callbacks directly on the Subject.
func (s *Subject[T]) Subscribe(onValue func(T), onError func(error), onComplete func(), opts ...SubscribeOption) Subscription {
	return s.Observable().Subscribe(onValue, onError, onComplete, opts...)
}

func (s *Subject[T]) attach(sub *subscription, down Observer[T]) {
	s.mu.Lock()
	if s.terminated {
		err := s.err
		s.mu.Unlock()
		if err != nil {
			down.OnError(err)
		} else {
			down.OnComplete()
		}
		return
	}

	entry := &subjectEntry[T]{sub: sub, obs: down}
	next := make([]*subjectEntry[T], len(s.observers), len(s.observers)+1)
	copy(next, s.observers)
	s.observers = append(next, entry)
	s.mu.Unlock()

	sub.add(func() { s.detach(entry) })
}

func (s *Subject[T]) detach(entry *subjectEntry[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]*subjectEntry[T], 0, len(s.observers))
	for _, e := range s.observers {
		if e != entry {
			next = append(next, e)
		}
	}
	s.observers = next
}

// Push delivers v to every active subscriber in registration order.
// After Error or Complete it is a no-op.
func (s *Subject[T]) Push(v T) {
	s.mu.Lock()
	if s.terminated {
		s.mu.Unlock()
		return
	}
	s.pending = append(s.pending, subjectSignal[T]{value: v})
	s.drain()
}

// Error terminates the Subject and delivers err to every active subscriber.
// A nil err completes the Subject instead. Only the first terminal signal
// has an effect.
func (s *Subject[T]) Error(err error) {
	if err == nil {
		s.Complete()
		return
	}
	s.finish(err)
}

// Complete terminates the Subject and notifies every active subscriber.
func (s *Subject[T]) Complete() {
	s.finish(nil)
}

func (s *Subject[T]) finish(err error) {
	s.mu.Lock()
	if s.terminated {
		s.mu.Unlock()
		return
	}
	s.terminated = true
	s.err = err
	s.pending = append(s.pending, subjectSignal[T]{terminal: true, err: err})
	s.drain()
}

// drain delivers queued signals in order. It is called with s.mu held and
// returns with it released. If another delivery is already running the
// signal stays queued for that goroutine.
func (s *Subject[T]) drain() {
	if s.emitting {
		s.mu.Unlock()
		return
	}
	s.emitting = true

	clean := false
	defer func() {
		if !clean {
			// A callback panicked; let the next caller resume draining.
			s.mu.Lock()
			s.emitting = false
			s.mu.Unlock()
		}
	}()

	for len(s.pending) > 0 {
		sig := s.pending[0]
		s.pending[0] = subjectSignal[T]{}
		s.pending = s.pending[1:]
		observers := s.observers
		if sig.terminal {
			s.observers = nil
		}
		s.mu.Unlock()

		deliver(observers, sig)

		s.mu.Lock()
	}
	s.pending = nil
	s.emitting = false
	clean = true
	s.mu.Unlock()
}

func deliver[T any](observers []*subjectEntry[T], sig subjectSignal[T]) {
	for _, e := range observers {
		if !e.sub.Active() {
			continue
		}
		switch {
		case !sig.terminal:
			e.obs.OnValue(sig.value)
		case sig.err != nil:
			e.obs.OnError(sig.err)
		default:
			e.obs.OnComplete()
		}
	}
}

// Subscribers returns the number of registered subscribers.
func (s *Subject[T]) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// Terminated reports whether Error or Complete has been called.
func (s *Subject[T]) Terminated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.terminated
}
