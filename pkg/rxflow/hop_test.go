package rxflow_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/rxflow/pkg/rxflow"
	"github.com/randalmurphal/rxflow/pkg/rxflow/scheduler"
)

func TestObserveOnDefersDelivery(t *testing.T) {
	ui := scheduler.NewVirtual(scheduler.KindInteractive)
	subj := rxflow.NewSubject[int]("clicks")

	rec := &recorder[int]{}
	subj.Observable().ObserveOn(ui).Subscribe(rec.onValue, rec.onError, rec.onComplete)

	subj.Push(1)
	subj.Push(2)
	subj.Push(3)
	subj.Complete()
	assert.Empty(t, rec.Values(), "nothing delivered until the scheduler runs")

	ui.Flush()
	assert.Equal(t, []int{1, 2, 3}, rec.Values())
	assert.Equal(t, 1, rec.Completes())
}

func TestObserveOnPreservesOrderOnBackgroundPool(t *testing.T) {
	bg := scheduler.NewBackground(scheduler.WithWorkers(8))
	defer bg.Close()

	subj := rxflow.NewSubject[int]("stream")
	rec := &recorder[int]{}
	completed := make(chan struct{})
	subj.Observable().ObserveOn(bg).Subscribe(rec.onValue, rec.onError, func() {
		rec.onComplete()
		close(completed)
	})

	want := make([]int, 500)
	for i := range want {
		want[i] = i
		subj.Push(i)
	}
	subj.Complete()

	select {
	case <-completed:
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not complete")
	}
	assert.Equal(t, want, rec.Values())
	assert.Equal(t, 1, rec.Completes())
}

func TestObserveOnCancelDiscardsQueued(t *testing.T) {
	ui := scheduler.NewVirtual(scheduler.KindInteractive)
	subj := rxflow.NewSubject[int]("clicks")

	rec := &recorder[int]{}
	sub := subj.Observable().ObserveOn(ui).Subscribe(rec.onValue, rec.onError, rec.onComplete)

	subj.Push(1)
	subj.Push(2)
	sub.Cancel()
	ui.Flush()

	assert.Empty(t, rec.Values())
	assert.Equal(t, 0, ui.Pending())
}

func TestObserveOnCarriesErrors(t *testing.T) {
	ui := scheduler.NewVirtual(scheduler.KindInteractive)
	boom := errors.New("boom")

	rec := &recorder[int]{}
	rxflow.Map(rxflow.Just(1), func(int) (int, error) { return 0, boom }).
		ObserveOn(ui).
		Subscribe(rec.onValue, rec.onError, rec.onComplete)

	assert.Empty(t, rec.Errors())
	ui.Flush()
	require.Len(t, rec.Errors(), 1)
	assert.ErrorIs(t, rec.Errors()[0], boom)
}

func TestSubscribeOnMovesProduction(t *testing.T) {
	bg := scheduler.NewVirtual(scheduler.KindBackground)
	ui := scheduler.NewVirtual(scheduler.KindInteractive)

	var produced int
	rec := &recorder[string]{}
	rxflow.Defer(func() (string, error) {
		produced++
		return "hello", nil
	}).SubscribeOn(bg).ObserveOn(ui).Subscribe(rec.onValue, rec.onError, rec.onComplete)

	assert.Zero(t, produced, "producer waits for the background scheduler")

	bg.Flush()
	assert.Equal(t, 1, produced)
	assert.Empty(t, rec.Values(), "value waits for the interactive scheduler")

	ui.Flush()
	assert.Equal(t, []string{"hello"}, rec.Values())
	assert.Equal(t, 1, rec.Completes())
}

func TestSubscribeOnCancelBeforeRun(t *testing.T) {
	bg := scheduler.NewVirtual(scheduler.KindBackground)

	var produced int
	sub := rxflow.Defer(func() (int, error) {
		produced++
		return 1, nil
	}).SubscribeOn(bg).Subscribe(nil, nil, nil)

	sub.Cancel()
	bg.Flush()

	assert.Zero(t, produced)
	assert.Equal(t, 0, bg.Pending())
}

func TestCancelDuringBackgroundWork(t *testing.T) {
	bg := scheduler.NewBackground(scheduler.WithWorkers(2))
	ui := scheduler.NewVirtual(scheduler.KindInteractive)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	rec := &recorder[string]{}
	sub := rxflow.Defer(func() (string, error) {
		once.Do(func() { close(started) })
		<-release
		return "late", nil
	}).SubscribeOn(bg).ObserveOn(ui).Subscribe(rec.onValue, rec.onError, rec.onComplete)

	<-started
	sub.Cancel()
	close(release)
	bg.Close()
	ui.Flush()

	assert.Empty(t, rec.Values())
	assert.Empty(t, rec.Errors())
	assert.Equal(t, 0, rec.Completes())
	assert.Equal(t, rxflow.StateCancelled, sub.State())
}
