package benchmarks

import (
	"testing"
	"time"

	"github.com/randalmurphal/rxflow/pkg/rxflow"
	"github.com/randalmurphal/rxflow/pkg/rxflow/scheduler"
)

// sink keeps delivered values observable so the compiler cannot drop them.
var sink int

func buildMapChain(src *rxflow.Observable[int], depth int) *rxflow.Observable[int] {
	out := src
	for i := 0; i < depth; i++ {
		out = rxflow.Map(out, func(v int) (int, error) { return v + 1, nil })
	}
	return out
}

func benchmarkMapChain(b *testing.B, depth int) {
	subj := rxflow.NewSubject[int]("bench")
	buildMapChain(subj.Observable(), depth).Subscribe(func(v int) { sink = v }, nil, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		subj.Push(i)
	}
}

// BenchmarkMap_5 pushes through five map stages.
func BenchmarkMap_5(b *testing.B) { benchmarkMapChain(b, 5) }

// BenchmarkMap_50 pushes through fifty map stages.
func BenchmarkMap_50(b *testing.B) { benchmarkMapChain(b, 50) }

// BenchmarkObserveOn_Virtual measures the hop queue without thread handoff.
func BenchmarkObserveOn_Virtual(b *testing.B) {
	v := scheduler.NewVirtual(scheduler.KindInteractive)
	subj := rxflow.NewSubject[int]("bench")
	subj.Observable().ObserveOn(v).Subscribe(func(x int) { sink = x }, nil, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		subj.Push(i)
		v.Flush()
	}
}

// BenchmarkObserveOn_Background measures delivery through the worker pool.
func BenchmarkObserveOn_Background(b *testing.B) {
	bg := scheduler.NewBackground(scheduler.WithWorkers(4))
	defer bg.Close()

	subj := rxflow.NewSubject[int]("bench")
	done := make(chan struct{})
	seen := 0
	subj.Observable().ObserveOn(bg).Subscribe(func(int) {
		seen++
		if seen == b.N {
			close(done)
		}
	}, nil, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		subj.Push(i)
	}
	<-done
}

// BenchmarkDebounce_Burst measures a burst of ten values collapsing to one.
func BenchmarkDebounce_Burst(b *testing.B) {
	v := scheduler.NewVirtual(scheduler.KindBackground)
	subj := rxflow.NewSubject[int]("bench")
	delivered := 0
	subj.Observable().Debounce(400*time.Millisecond, v).Subscribe(func(x int) {
		sink = x
		delivered++
	}, nil, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j := 0; j < 10; j++ {
			subj.Push(j)
			v.AdvanceBy(10 * time.Millisecond)
		}
		v.AdvanceBy(400 * time.Millisecond)
	}
	b.StopTimer()

	if delivered != b.N {
		b.Fatalf("delivered %d values, want %d", delivered, b.N)
	}
}

// BenchmarkDefer_SubscribeOn measures a one-shot round trip over two schedulers.
func BenchmarkDefer_SubscribeOn(b *testing.B) {
	bg := scheduler.NewVirtual(scheduler.KindBackground)
	ui := scheduler.NewVirtual(scheduler.KindInteractive)
	single := rxflow.DeferSingle(func() (int, error) { return 42, nil }).SubscribeOn(bg).ObserveOn(ui)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		single.Subscribe(func(int) {}, nil)
		bg.Flush()
		ui.Flush()
	}
}
