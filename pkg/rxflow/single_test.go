package rxflow_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/rxflow/pkg/rxflow"
	"github.com/randalmurphal/rxflow/pkg/rxflow/scheduler"
)

func TestJustIsSynchronous(t *testing.T) {
	var got int
	sub := rxflow.JustSingle(4).Subscribe(func(v int) { got = v }, nil)

	assert.Equal(t, 4, got)
	assert.Equal(t, rxflow.StateCompleted, sub.State())
}

func TestMapSingle(t *testing.T) {
	s := rxflow.MapSingle(rxflow.JustSingle(4), func(v int) (string, error) {
		return strconv.Itoa(v), nil
	})

	var got string
	s.Subscribe(func(v string) { got = v }, nil)
	assert.Equal(t, "4", got)
}

func TestDeferIsLazy(t *testing.T) {
	calls := 0
	s := rxflow.DeferSingle(func() (int, error) {
		calls++
		return calls, nil
	})
	assert.Zero(t, calls)

	var got []int
	s.Subscribe(func(v int) { got = append(got, v) }, nil)
	s.Subscribe(func(v int) { got = append(got, v) }, nil)

	assert.Equal(t, 2, calls, "producer runs once per subscription")
	assert.Equal(t, []int{1, 2}, got)
}

func TestDeferError(t *testing.T) {
	bg := scheduler.NewVirtual(scheduler.KindBackground)
	ui := scheduler.NewVirtual(scheduler.KindInteractive)
	boom := errors.New("lookup failed")

	rec := &recorder[int]{}
	sub := rxflow.DeferSingle(func() (int, error) { return 0, boom }).
		SubscribeOn(bg).
		ObserveOn(ui).
		Subscribe(rec.onValue, rec.onError)

	bg.Flush()
	ui.Flush()

	assert.Empty(t, rec.Values())
	require.Len(t, rec.Errors(), 1, "exactly one error")
	assert.ErrorIs(t, rec.Errors()[0], boom)

	var stageErr *rxflow.StageError
	require.ErrorAs(t, rec.Errors()[0], &stageErr)
	assert.Equal(t, "produce", stageErr.Op)
	assert.Equal(t, rxflow.StateErrored, sub.State())
}

func TestDeferPanic(t *testing.T) {
	rec := &recorder[int]{}
	rxflow.DeferSingle(func() (int, error) { panic("no value") }).
		Named("fetch").
		Subscribe(rec.onValue, rec.onError)

	require.Len(t, rec.Errors(), 1)
	var panicErr *rxflow.PanicError
	require.ErrorAs(t, rec.Errors()[0], &panicErr)
	assert.Equal(t, "defer", panicErr.Stage)
}

func TestDeferNilProducer(t *testing.T) {
	rec := &recorder[int]{}
	rxflow.Defer[int](nil).Subscribe(rec.onValue, rec.onError, rec.onComplete)

	require.Len(t, rec.Errors(), 1)
	assert.ErrorIs(t, rec.Errors()[0], rxflow.ErrNilProducer)
}

func TestSingleObservable(t *testing.T) {
	obs := rxflow.JustSingle("x").Named("letters").Observable()
	assert.Equal(t, "letters", obs.Name())

	rec := &recorder[string]{}
	obs.Subscribe(rec.onValue, rec.onError, rec.onComplete)
	assert.Equal(t, []string{"x"}, rec.Values())
	assert.Equal(t, 1, rec.Completes())
}
