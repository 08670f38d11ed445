package search

import "github.com/zoobzio/capitan"

// Live search lifecycle signals.
var (
	// SearchStarted is emitted when a LiveSearch is created.
	SearchStarted = capitan.NewSignal(
		"rxflow.search.started",
		"Live search pipeline started",
	)

	// SearchClosed is emitted when a LiveSearch is closed.
	SearchClosed = capitan.NewSignal(
		"rxflow.search.closed",
		"Live search pipeline closed",
	)
)

// Query processing signals.
var (
	// QueryPushed is emitted for every query pushed into the pipeline.
	QueryPushed = capitan.NewSignal(
		"rxflow.search.query.pushed",
		"Query pushed into the pipeline",
	)

	// QueryDebounced is emitted when a query survives the debounce window
	// and is about to be looked up.
	QueryDebounced = capitan.NewSignal(
		"rxflow.search.query.debounced",
		"Query settled after debounce",
	)

	// LookupSucceeded is emitted after a successful lookup.
	LookupSucceeded = capitan.NewSignal(
		"rxflow.search.lookup.succeeded",
		"Lookup returned results",
	)

	// LookupFailed is emitted when the searcher returns an error.
	LookupFailed = capitan.NewSignal(
		"rxflow.search.lookup.failed",
		"Lookup failed",
	)
)
