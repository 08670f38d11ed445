package rxflow_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/rxflow/pkg/rxflow"
	"github.com/randalmurphal/rxflow/pkg/rxflow/scheduler"
)

const debounceDelay = 400 * time.Millisecond

func debounced(t *testing.T) (*rxflow.Subject[string], *scheduler.Virtual, *recorder[string], rxflow.Subscription, *countingMetrics) {
	t.Helper()
	subj := rxflow.NewSubject[string]("query")
	v := scheduler.NewVirtual(scheduler.KindBackground)
	rec := &recorder[string]{}
	metrics := &countingMetrics{}
	sub := subj.Observable().Debounce(debounceDelay, v).
		Subscribe(rec.onValue, rec.onError, rec.onComplete, rxflow.WithMetrics(metrics))
	return subj, v, rec, sub, metrics
}

func TestDebounceBurstDeliversLastValue(t *testing.T) {
	subj, v, rec, _, metrics := debounced(t)

	subj.Push("a")
	v.AdvanceBy(50 * time.Millisecond)
	subj.Push("ab")
	v.AdvanceBy(50 * time.Millisecond)
	subj.Push("abc")

	v.AdvanceBy(debounceDelay - time.Millisecond)
	assert.Empty(t, rec.Values(), "nothing before the quiet period ends")

	v.AdvanceBy(time.Millisecond)
	assert.Equal(t, []string{"abc"}, rec.Values())
	assert.Equal(t, 100*time.Millisecond+debounceDelay, v.Elapsed())
	assert.Equal(t, 2, metrics.snapshot().dropped)

	v.AdvanceBy(time.Hour)
	assert.Equal(t, []string{"abc"}, rec.Values(), "delivered exactly once")
}

func TestDebounceSpacedValuesAllDelivered(t *testing.T) {
	gaps := []time.Duration{debounceDelay, debounceDelay + time.Millisecond, 2 * debounceDelay}
	for _, gap := range gaps {
		t.Run(gap.String(), func(t *testing.T) {
			subj, v, rec, _, _ := debounced(t)

			inputs := []string{"r", "re", "red", "redd"}
			for _, in := range inputs {
				subj.Push(in)
				v.AdvanceBy(gap)
			}

			assert.Equal(t, inputs, rec.Values())
		})
	}
}

func TestDebounceEmptyWithoutInput(t *testing.T) {
	_, v, rec, sub, _ := debounced(t)

	v.AdvanceBy(time.Hour)

	assert.Empty(t, rec.Values())
	assert.True(t, sub.Active())
}

func TestDebounceCancelBeforeTimer(t *testing.T) {
	subj, v, rec, sub, _ := debounced(t)

	subj.Push("a")
	require.Equal(t, 1, v.Pending())

	sub.Cancel()
	assert.Equal(t, 0, v.Pending(), "pending timer is cancelled")

	v.AdvanceBy(time.Hour)
	assert.Empty(t, rec.Values())
	assert.Equal(t, 0, subj.Subscribers())
}

func TestDebounceCompleteFlushesPending(t *testing.T) {
	subj, v, rec, sub, _ := debounced(t)

	subj.Push("a")
	subj.Push("ab")
	subj.Complete()

	assert.Equal(t, []string{"ab"}, rec.Values())
	assert.Equal(t, 1, rec.Completes())
	assert.Equal(t, rxflow.StateCompleted, sub.State())

	v.AdvanceBy(time.Hour)
	assert.Equal(t, []string{"ab"}, rec.Values())
}

func TestDebounceErrorDropsPending(t *testing.T) {
	subj, v, rec, sub, _ := debounced(t)
	boom := errors.New("boom")

	subj.Push("a")
	subj.Error(boom)
	v.AdvanceBy(time.Hour)

	assert.Empty(t, rec.Values())
	require.Len(t, rec.Errors(), 1)
	assert.ErrorIs(t, rec.Errors()[0], boom)
	assert.Equal(t, rxflow.StateErrored, sub.State())
}

func TestDebouncePanicInDownstream(t *testing.T) {
	subj := rxflow.NewSubject[string]("query")
	v := scheduler.NewVirtual(scheduler.KindBackground)

	var errs []error
	sub := subj.Observable().Debounce(debounceDelay, v).
		Subscribe(func(string) { panic("render") }, func(err error) { errs = append(errs, err) }, nil)

	subj.Push("a")
	v.AdvanceBy(debounceDelay)

	require.Len(t, errs, 1)
	var panicErr *scheduler.PanicError
	assert.ErrorAs(t, errs[0], &panicErr)
	assert.Equal(t, rxflow.StateErrored, sub.State())
}

func TestDebounceSubscriptionsAreIndependent(t *testing.T) {
	subj := rxflow.NewSubject[string]("query")
	v := scheduler.NewVirtual(scheduler.KindBackground)
	pipeline := subj.Observable().Debounce(debounceDelay, v)

	first := &recorder[string]{}
	second := &recorder[string]{}
	firstSub := pipeline.Subscribe(first.onValue, nil, nil)
	pipeline.Subscribe(second.onValue, nil, nil)

	subj.Push("x")
	firstSub.Cancel()
	v.AdvanceBy(debounceDelay)

	assert.Empty(t, first.Values())
	assert.Equal(t, []string{"x"}, second.Values())
}

func TestDebounceCompleteInsideCallback(t *testing.T) {
	subj := rxflow.NewSubject[string]("query")
	v := scheduler.NewVirtual(scheduler.KindBackground)
	rec := &recorder[string]{}
	sub := subj.Observable().Debounce(debounceDelay, v).Subscribe(func(s string) {
		rec.onValue(s)
		subj.Complete()
	}, rec.onError, rec.onComplete)

	subj.Push("abc")
	returnsWithin(t, 2*time.Second, func() { v.AdvanceBy(time.Second) })

	assert.Equal(t, []string{"abc"}, rec.Values())
	assert.Equal(t, 1, rec.Completes())
	assert.Equal(t, rxflow.StateCompleted, sub.State())

	returnsWithin(t, 2*time.Second, func() {
		subj.Push("abcd")
		v.AdvanceBy(time.Second)
	})
	assert.Equal(t, []string{"abc"}, rec.Values())
	assert.Equal(t, 1, rec.Completes())
	assert.Zero(t, v.Pending())
}

func TestDebounceErrorInsideCallback(t *testing.T) {
	subj := rxflow.NewSubject[string]("query")
	v := scheduler.NewVirtual(scheduler.KindBackground)
	boom := errors.New("boom")
	rec := &recorder[string]{}
	subj.Observable().Debounce(debounceDelay, v).Subscribe(func(s string) {
		rec.onValue(s)
		subj.Error(boom)
	}, rec.onError, rec.onComplete)

	subj.Push("abc")
	returnsWithin(t, 2*time.Second, func() { v.AdvanceBy(time.Second) })

	assert.Equal(t, []string{"abc"}, rec.Values())
	require.Len(t, rec.Errors(), 1)
	assert.ErrorIs(t, rec.Errors()[0], boom)
	assert.Zero(t, rec.Completes())
}
