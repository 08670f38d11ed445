package rxflow

import (
	"context"
	"sync"
	"time"

	"github.com/randalmurphal/rxflow/pkg/rxflow/scheduler"
)

// Debounce forwards a value only after delay has passed without another
// value arriving. Each new value cancels the pending timer and starts a new
// one, so a burst of values produces a single delivery of its last value.
//
// The timer runs on the given scheduler and downstream delivery resumes
// there. Upstream completion flushes the pending value before completing;
// an upstream error drops it.
func (o *Observable[T]) Debounce(delay time.Duration, on scheduler.Scheduler) *Observable[T] {
	return newObservable(o.name, func(sub *subscription, down Observer[T]) {
		d := &debouncer[T]{
			delay: delay,
			on:    on,
			down:  down,
			sub:   sub,
		}
		sub.add(d.stop)
		o.subscribe(sub, Observer[T]{
			OnValue:    d.onValue,
			OnError:    d.onError,
			OnComplete: d.onComplete,
		})
	})
}

// debouncer is the per-subscription state of a Debounce stage. At most one
// timer is pending at a time.
type debouncer[T any] struct {
	delay time.Duration
	on    scheduler.Scheduler
	down  Observer[T]
	sub   *subscription

	mu      sync.Mutex
	latest  T
	pending bool
	gen     uint64
	timer   scheduler.Token
	stopped bool

	// out holds signals waiting for downstream delivery. Only the goroutine
	// that set emitting delivers, so two timer firings never overlap and a
	// terminal signal raised from inside a delivery waits its turn.
	out      []notification[T]
	emitting bool
}

func (d *debouncer[T]) onValue(v T) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.cancelTimer()
	if d.pending {
		d.sub.metrics.RecordDebounceDropped(context.Background(), d.sub.pipeline)
	}
	d.latest = v
	d.pending = true
	d.gen++
	gen := d.gen
	d.mu.Unlock()

	timer := d.on.ScheduleAfter(d.delay, scheduler.Work{
		Run: func() error {
			d.fire(gen)
			return nil
		},
		Fail: d.fail,
	})

	d.mu.Lock()
	if d.gen == gen && !d.stopped {
		d.timer = timer
	} else {
		timer.Cancel()
	}
	d.mu.Unlock()
}

func (d *debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || !d.pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.out = append(d.out, notification[T]{value: d.take()})
	d.emit()
}

// take removes the pending value. Callers hold d.mu.
func (d *debouncer[T]) take() T {
	v := d.latest
	var zero T
	d.latest = zero
	d.pending = false
	d.timer = nil
	return v
}

func (d *debouncer[T]) onError(err error) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	d.cancelTimer()
	d.take()
	d.out = append(d.out, notification[T]{kind: notifyError, err: err})
	d.emit()
}

func (d *debouncer[T]) onComplete() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	d.cancelTimer()
	if d.pending {
		d.out = append(d.out, notification[T]{value: d.take()})
	}
	d.out = append(d.out, notification[T]{kind: notifyComplete})
	d.emit()
}

// emit delivers queued signals downstream. It is called with d.mu held and
// returns with it released.
func (d *debouncer[T]) emit() {
	if d.emitting {
		d.mu.Unlock()
		return
	}
	d.emitting = true

	clean := false
	defer func() {
		if !clean {
			d.mu.Lock()
			d.emitting = false
			d.mu.Unlock()
		}
	}()

	for len(d.out) > 0 {
		n := d.out[0]
		d.out[0] = notification[T]{}
		d.out = d.out[1:]
		d.mu.Unlock()

		switch n.kind {
		case notifyValue:
			d.down.OnValue(n.value)
		case notifyError:
			d.down.OnError(n.err)
		case notifyComplete:
			d.down.OnComplete()
		}

		d.mu.Lock()
	}
	d.out = nil
	d.emitting = false
	clean = true
	d.mu.Unlock()
}

// fail handles a panic escaping downstream delivery on the timer scheduler.
func (d *debouncer[T]) fail(err error) {
	d.mu.Lock()
	d.stopped = true
	d.cancelTimer()
	d.take()
	d.out = nil
	d.mu.Unlock()

	d.sub.stageFailed(d.sub.pipeline, err)
	d.down.OnError(err)
}

// stop is the subscription teardown: it cancels the pending timer and drops
// the buffered value.
func (d *debouncer[T]) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.cancelTimer()
	d.take()
	d.out = nil
}

// cancelTimer cancels the pending timer. Callers hold d.mu.
func (d *debouncer[T]) cancelTimer() {
	if d.timer != nil {
		d.timer.Cancel()
		d.timer = nil
	}
}
