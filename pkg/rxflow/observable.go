package rxflow

import (
	"context"
	"log/slog"

	"github.com/randalmurphal/rxflow/pkg/rxflow/observability"
)

// Observer is the callback set a subscriber registers. Any callback may be
// nil.
type Observer[T any] struct {
	OnValue    func(T)
	OnError    func(error)
	OnComplete func()
}

// Observable is a composable, lazily evaluated pipeline of stages.
// It is immutable: every operator returns a new Observable.
type Observable[T any] struct {
	name      string
	subscribe func(sub *subscription, down Observer[T])
}

func newObservable[T any](name string, fn func(sub *subscription, down Observer[T])) *Observable[T] {
	return &Observable[T]{name: name, subscribe: fn}
}

// Name returns the stage name used in errors, logs and metrics.
func (o *Observable[T]) Name() string {
	return o.name
}

// Named returns a copy of the Observable with a different stage name.
func (o *Observable[T]) Named(name string) *Observable[T] {
	return newObservable(name, o.subscribe)
}

// Subscribe starts the pipeline and delivers its signals to the given
// callbacks. Any callback may be nil.
func (o *Observable[T]) Subscribe(onValue func(T), onError func(error), onComplete func(), opts ...SubscribeOption) Subscription {
	return o.SubscribeObserver(Observer[T]{
		OnValue:    onValue,
		OnError:    onError,
		OnComplete: onComplete,
	}, opts...)
}

// SubscribeObserver starts the pipeline and delivers its signals to obs.
func (o *Observable[T]) SubscribeObserver(obs Observer[T], opts ...SubscribeOption) Subscription {
	sub := newSubscription(o.name, buildSubscribeConfig(opts))
	observability.LogSubscribe(sub.logger, o.name, sub.id)
	o.subscribe(sub, terminal(sub, obs))
	return sub
}

// terminal wraps the subscriber's callbacks. It is the last delivery point
// of every chain and suppresses anything arriving after the subscription
// left the Active state.
func terminal[T any](sub *subscription, obs Observer[T]) Observer[T] {
	ctx := context.Background()
	return Observer[T]{
		OnValue: func(v T) {
			if !sub.Active() {
				sub.metrics.RecordSuppressed(ctx, sub.pipeline)
				return
			}
			sub.metrics.RecordDelivery(ctx, sub.pipeline)
			if obs.OnValue != nil {
				obs.OnValue(v)
			}
		},
		OnError: func(err error) {
			if !sub.terminate(StateErrored) {
				sub.metrics.RecordSuppressed(ctx, sub.pipeline)
				return
			}
			if obs.OnError == nil {
				logger := sub.logger
				if logger == nil {
					logger = slog.Default()
				}
				observability.LogUnhandledError(logger, sub.pipeline, err)
				return
			}
			obs.OnError(err)
		},
		OnComplete: func() {
			if !sub.terminate(StateCompleted) {
				return
			}
			if obs.OnComplete != nil {
				obs.OnComplete()
			}
		},
	}
}
