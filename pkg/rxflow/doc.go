// Package rxflow provides a small push-based reactive pipeline: a multicast
// Subject that callers push values into, a chain of stages (Map, Tap,
// Debounce, ObserveOn, SubscribeOn) that transform and move those values
// between schedulers, and a cancellable Subscription that severs delivery
// deterministically.
//
// # Overview
//
// A pipeline is composed left to right. Each stage consumes the delivery of
// the previous stage and produces a delivery for the next:
//
//	queries := rxflow.NewSubject[string]("city-search")
//
//	results := rxflow.Map(
//	    queries.Observable().
//	        Debounce(400*time.Millisecond, background).
//	        ObserveOn(background),
//	    index.Search,
//	).ObserveOn(interactive)
//
//	sub := results.Subscribe(showResults, showError, nil)
//	defer sub.Cancel()
//
//	queries.Push("par")
//
// Composition is lazy: nothing happens until Subscribe is called, and every
// call to Subscribe builds an independent chain of stage state owned by the
// returned Subscription.
//
// # Schedulers
//
// Stages that need an execution context take a scheduler.Scheduler.
// ObserveOn hands every signal to its scheduler and resumes downstream
// processing inside the scheduled unit. SubscribeOn runs the act of
// subscribing, and therefore the production of a one-shot source, on its
// scheduler. Debounce runs its timer on its scheduler and delivers from there.
//
// Tests substitute scheduler.Virtual for both the interactive and the
// background scheduler to drive time deterministically.
//
// # Cancellation
//
// Subscription.Cancel is idempotent and cooperative. After it returns no
// callback of that subscription is invoked again, pending debounce timers and
// scheduled hops are cancelled, and the subscriber is removed from its
// Subject. Background work that already started is not interrupted; its
// result is discarded.
//
// # Errors
//
// A failing Map function or Defer producer, and a panic in either, is caught
// at the stage where it happens and delivered as a terminal error on the
// subscriber's scheduler, wrapped in *StageError or *PanicError. Nothing is
// retried. An error that reaches a subscriber without an error callback is
// logged as unhandled.
package rxflow
