package search

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/rxflow/pkg/rxflow"
	"github.com/randalmurphal/rxflow/pkg/rxflow/observability"
	"github.com/randalmurphal/rxflow/pkg/rxflow/scheduler"
)

// Sentinel errors for NewLiveSearch.
var (
	// ErrNilSearcher indicates NewLiveSearch was given a nil Searcher.
	ErrNilSearcher = errors.New("searcher cannot be nil")

	// ErrNilScheduler indicates a missing interactive or background scheduler.
	ErrNilScheduler = errors.New("scheduler cannot be nil")

	// ErrNegativeDebounce indicates a negative debounce window.
	ErrNegativeDebounce = errors.New("debounce cannot be negative")
)

// LiveSearch turns a stream of raw query text into a stream of Results.
//
// Queries are debounced, looked up on the background scheduler and
// delivered on the interactive scheduler:
//
//	queries -> Debounce(bg) -> ObserveOn(bg) -> Map(search) -> Tap(log) -> ObserveOn(ui)
//
// Every Subscribe gets its own debounce timer and lookups. Callers must
// Cancel their subscription on teardown; a cancelled subscription never
// sees a late result.
type LiveSearch struct {
	id       string
	searcher Searcher
	cfg      liveConfig
	logger   *slog.Logger

	queries *rxflow.Subject[string]
	results *rxflow.Observable[Results]

	closeOnce sync.Once
}

// NewLiveSearch builds the pipeline. Nothing is looked up until a query is
// pushed while at least one subscriber is registered.
func NewLiveSearch(searcher Searcher, interactive, background scheduler.Scheduler, opts ...Option) (*LiveSearch, error) {
	if searcher == nil {
		return nil, ErrNilSearcher
	}
	if interactive == nil || background == nil {
		return nil, ErrNilScheduler
	}

	cfg := defaultLiveConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.debounce < 0 {
		return nil, ErrNegativeDebounce
	}
	if cfg.sessionID == "" {
		cfg.sessionID = uuid.NewString()
	}

	l := &LiveSearch{
		id:       cfg.sessionID,
		searcher: searcher,
		cfg:      cfg,
		queries:  rxflow.NewSubject[string]("queries"),
	}
	if cfg.logger != nil {
		l.logger = cfg.logger.With(slog.String("session", cfg.sessionID))
	}

	settled := l.queries.Observable().
		Debounce(cfg.debounce, background).
		ObserveOn(background).
		Named("search")
	l.results = rxflow.Map(settled, l.lookup).
		Tap(l.ready).
		ObserveOn(interactive)

	capitan.Emit(context.Background(), SearchStarted,
		KeySession.Field(l.id),
		KeyDebounce.Field(cfg.debounce),
	)
	return l, nil
}

// ID returns the session identifier.
func (l *LiveSearch) ID() string {
	return l.id
}

// PushQuery feeds new query text into the pipeline. It is a no-op after
// Close.
func (l *LiveSearch) PushQuery(text string) {
	capitan.Emit(context.Background(), QueryPushed,
		KeySession.Field(l.id),
		KeyQuery.Field(text),
	)
	l.queries.Push(text)
}

// Subscribe registers result callbacks. onResults runs on the interactive
// scheduler; a lookup failure arrives at onError as a *rxflow.StageError
// and ends the subscription.
func (l *LiveSearch) Subscribe(onResults func(Results), onError func(error), onComplete func()) rxflow.Subscription {
	return l.results.Subscribe(onResults, onError, onComplete,
		rxflow.WithLogger(l.logger),
		rxflow.WithMetrics(l.cfg.metrics),
	)
}

// Results returns the result stream for further composition.
func (l *LiveSearch) Results() *rxflow.Observable[Results] {
	return l.results
}

// Close completes the query source. A query still waiting out its debounce
// window is looked up before subscribers complete.
func (l *LiveSearch) Close() {
	l.closeOnce.Do(func() {
		l.queries.Complete()
		capitan.Emit(context.Background(), SearchClosed, KeySession.Field(l.id))
	})
}

// lookup runs on the background scheduler.
func (l *LiveSearch) lookup(query string) (Results, error) {
	ctx, span := l.cfg.spans.StartSearchSpan(context.Background(), l.id, query)
	capitan.Emit(ctx, QueryDebounced,
		KeySession.Field(l.id),
		KeyQuery.Field(query),
	)
	observability.LogSearchStart(l.logger, query)

	done := observability.TimedOperation()
	items, err := l.searcher.Search(ctx, query)
	durationMs := done()
	elapsed := time.Duration(durationMs * float64(time.Millisecond))

	l.cfg.metrics.RecordSearch(ctx, len(items), elapsed, err)
	l.cfg.spans.AddSpanEvent(ctx, "lookup.returned", attribute.Int("search.results", len(items)))
	l.cfg.spans.EndSpanWithError(span, err)

	if err != nil {
		observability.LogSearchError(l.logger, query, err, durationMs)
		capitan.Emit(ctx, LookupFailed,
			KeySession.Field(l.id),
			KeyQuery.Field(query),
			KeyError.Field(err.Error()),
		)
		return Results{}, err
	}

	if items == nil {
		items = []string{}
	}
	observability.LogSearchComplete(l.logger, query, len(items), durationMs)
	capitan.Emit(ctx, LookupSucceeded,
		KeySession.Field(l.id),
		KeyQuery.Field(query),
		KeyResults.Field(len(items)),
		KeyDuration.Field(elapsed),
	)
	return Results{Query: query, Items: items}, nil
}

// ready logs results just before they hop to the interactive scheduler.
func (l *LiveSearch) ready(r Results) {
	if l.logger == nil {
		return
	}
	l.logger.Debug("results ready",
		slog.String("query", r.Query),
		slog.Int("results", len(r.Items)),
		slog.Bool("empty", r.Empty()),
	)
}
