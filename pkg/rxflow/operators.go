package rxflow

import (
	"runtime/debug"
	"sync/atomic"
)

// Map transforms every value with fn. If fn returns an error or panics, the
// stage delivers a terminal *StageError (or *PanicError) downstream and
// forwards nothing further for this subscription.
func Map[T, U any](src *Observable[T], fn func(T) (U, error)) *Observable[U] {
	return mapStage(src, "map", fn)
}

// Tap calls fn for every value before passing it on unchanged.
// A panic in fn terminates the subscription with a *PanicError.
func (o *Observable[T]) Tap(fn func(T)) *Observable[T] {
	if fn == nil {
		return mapStage[T, T](o, "tap", nil)
	}
	return mapStage(o, "tap", func(v T) (T, error) {
		fn(v)
		return v, nil
	})
}

func mapStage[T, U any](src *Observable[T], op string, fn func(T) (U, error)) *Observable[U] {
	stage := src.name
	return newObservable(stage, func(sub *subscription, down Observer[U]) {
		if fn == nil {
			down.OnError(&StageError{Stage: stage, Op: op, Err: ErrNilFunc})
			return
		}

		var failed atomic.Bool
		src.subscribe(sub, Observer[T]{
			OnValue: func(v T) {
				if failed.Load() {
					return
				}
				u, err := call(stage, op, fn, v)
				if err != nil {
					if failed.CompareAndSwap(false, true) {
						sub.stageFailed(stage, err)
						down.OnError(err)
					}
					return
				}
				down.OnValue(u)
			},
			OnError: func(err error) {
				if !failed.Load() {
					down.OnError(err)
				}
			},
			OnComplete: func() {
				if !failed.Load() {
					down.OnComplete()
				}
			},
		})
	})
}

// call runs fn, wrapping a returned error in *StageError and converting a
// panic into *PanicError.
func call[T, U any](stage, op string, fn func(T) (U, error), v T) (out U, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Stage: stage, Value: r, Stack: string(debug.Stack())}
		}
	}()

	out, err = fn(v)
	if err != nil {
		return out, &StageError{Stage: stage, Op: op, Err: err}
	}
	return out, nil
}
