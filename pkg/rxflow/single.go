package rxflow

import (
	"runtime/debug"

	"github.com/randalmurphal/rxflow/pkg/rxflow/scheduler"
)

// Just returns an Observable that delivers v and completes, synchronously,
// on every Subscribe.
func Just[T any](v T) *Observable[T] {
	return newObservable("just", func(sub *subscription, down Observer[T]) {
		down.OnValue(v)
		down.OnComplete()
	})
}

// Defer returns an Observable that calls producer on every Subscribe and
// delivers its value followed by completion, or its error. The producer is
// not evaluated until subscription; combine with SubscribeOn to run it on a
// background scheduler.
func Defer[T any](producer func() (T, error)) *Observable[T] {
	const stage = "defer"
	return newObservable(stage, func(sub *subscription, down Observer[T]) {
		if producer == nil {
			down.OnError(&StageError{Stage: stage, Op: "produce", Err: ErrNilProducer})
			return
		}

		v, err := produce(stage, producer)
		if err != nil {
			sub.stageFailed(stage, err)
			down.OnError(err)
			return
		}
		down.OnValue(v)
		down.OnComplete()
	})
}

func produce[T any](stage string, producer func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Stage: stage, Value: r, Stack: string(debug.Stack())}
		}
	}()

	out, err = producer()
	if err != nil {
		return out, &StageError{Stage: stage, Op: "produce", Err: err}
	}
	return out, nil
}

// Single is a pipeline that delivers exactly one value or one error.
type Single[T any] struct {
	obs *Observable[T]
}

// JustSingle returns a Single delivering v synchronously on Subscribe.
func JustSingle[T any](v T) Single[T] {
	return Single[T]{obs: Just(v)}
}

// DeferSingle returns a Single that evaluates producer on Subscribe.
func DeferSingle[T any](producer func() (T, error)) Single[T] {
	return Single[T]{obs: Defer(producer)}
}

// MapSingle transforms the value of s with fn.
func MapSingle[T, U any](s Single[T], fn func(T) (U, error)) Single[U] {
	return Single[U]{obs: Map(s.obs, fn)}
}

// SubscribeOn runs the production of the value on sch.
func (s Single[T]) SubscribeOn(sch scheduler.Scheduler) Single[T] {
	return Single[T]{obs: s.obs.SubscribeOn(sch)}
}

// ObserveOn delivers the value or error on sch.
func (s Single[T]) ObserveOn(sch scheduler.Scheduler) Single[T] {
	return Single[T]{obs: s.obs.ObserveOn(sch)}
}

// Named returns a copy of the Single with a different stage name.
func (s Single[T]) Named(name string) Single[T] {
	return Single[T]{obs: s.obs.Named(name)}
}

// Observable returns the Single as a value-then-complete Observable.
func (s Single[T]) Observable() *Observable[T] {
	return s.obs
}

// Subscribe starts the Single. Exactly one of onSuccess or onError fires.
func (s Single[T]) Subscribe(onSuccess func(T), onError func(error), opts ...SubscribeOption) Subscription {
	return s.obs.Subscribe(onSuccess, onError, nil, opts...)
}
