package rxflow

import (
	"sync"

	"github.com/randalmurphal/rxflow/pkg/rxflow/scheduler"
)

// ObserveOn moves every downstream stage onto s. Values and terminal
// signals are queued per subscription and drained in arrival order by one
// scheduled unit at a time, so ordering holds even on the unordered
// Background pool.
func (o *Observable[T]) ObserveOn(s scheduler.Scheduler) *Observable[T] {
	return newObservable(o.name, func(sub *subscription, down Observer[T]) {
		h := &hop[T]{on: s, down: down, sub: sub}
		sub.add(h.stop)
		o.subscribe(sub, Observer[T]{
			OnValue:    func(v T) { h.enqueue(notification[T]{value: v}) },
			OnError:    func(err error) { h.enqueue(notification[T]{kind: notifyError, err: err}) },
			OnComplete: func() { h.enqueue(notification[T]{kind: notifyComplete}) },
		})
	})
}

// SubscribeOn performs the subscription to the upstream source on s. For a
// one-shot source such as Defer this moves the production of the value onto
// s instead of the goroutine that called Subscribe.
func (o *Observable[T]) SubscribeOn(s scheduler.Scheduler) *Observable[T] {
	return newObservable(o.name, func(sub *subscription, down Observer[T]) {
		tok := s.Schedule(scheduler.Work{
			Run: func() error {
				if sub.Active() {
					o.subscribe(sub, down)
				}
				return nil
			},
			Fail: func(err error) {
				sub.stageFailed(o.name, err)
				down.OnError(err)
			},
		})
		sub.add(func() { tok.Cancel() })
	})
}

type notifyKind int

const (
	notifyValue notifyKind = iota
	notifyError
	notifyComplete
)

type notification[T any] struct {
	kind  notifyKind
	value T
	err   error
}

// hop is the per-subscription state of an ObserveOn stage.
type hop[T any] struct {
	on   scheduler.Scheduler
	down Observer[T]
	sub  *subscription

	mu         sync.Mutex
	queue      []notification[T]
	scheduled  bool
	terminated bool
	stopped    bool
	token      scheduler.Token
	// drains counts scheduled drains so a late Schedule return only
	// records the token of the drain it started.
	drains uint64
}

func (h *hop[T]) enqueue(n notification[T]) {
	h.mu.Lock()
	if h.stopped || h.terminated {
		h.mu.Unlock()
		return
	}
	if h.scheduled && h.token != nil && h.token.Cancelled() {
		// The scheduler was closed with our drain still queued.
		h.scheduled = false
		h.token = nil
		h.queue = nil
	}
	if n.kind != notifyValue {
		h.terminated = true
	}
	h.queue = append(h.queue, n)
	if h.scheduled {
		h.mu.Unlock()
		return
	}
	h.scheduled = true
	h.drains++
	drain := h.drains
	h.mu.Unlock()

	tok := h.on.Schedule(scheduler.Work{Run: h.drain, Fail: h.fail})

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.scheduled || h.drains != drain || h.stopped {
		return
	}
	if tok.Cancelled() {
		// The scheduler is closed and dropped the drain.
		h.scheduled = false
		h.queue = nil
		return
	}
	h.token = tok
}

// drain delivers queued notifications in order until the queue is empty.
func (h *hop[T]) drain() error {
	for {
		h.mu.Lock()
		if h.stopped || len(h.queue) == 0 {
			h.scheduled = false
			h.token = nil
			h.mu.Unlock()
			return nil
		}
		n := h.queue[0]
		h.queue[0] = notification[T]{}
		h.queue = h.queue[1:]
		h.mu.Unlock()

		switch n.kind {
		case notifyValue:
			h.down.OnValue(n.value)
		case notifyError:
			h.down.OnError(n.err)
		case notifyComplete:
			h.down.OnComplete()
		}
	}
}

// fail handles a panic escaping downstream delivery on the target scheduler.
func (h *hop[T]) fail(err error) {
	h.mu.Lock()
	h.stopped = true
	h.scheduled = false
	h.queue = nil
	h.token = nil
	h.mu.Unlock()

	h.sub.stageFailed(h.sub.pipeline, err)
	h.down.OnError(err)
}

// stop is the subscription teardown: it cancels the outstanding drain and
// discards queued notifications.
func (h *hop[T]) stop() {
	h.mu.Lock()
	h.stopped = true
	h.queue = nil
	tok := h.token
	h.token = nil
	h.mu.Unlock()

	if tok != nil {
		tok.Cancel()
	}
}
