package search

import "github.com/zoobzio/capitan"

// Field keys for live search events.
var (
	// KeySession identifies the LiveSearch instance.
	KeySession = capitan.NewStringKey("session")

	// KeyQuery is the query text.
	KeyQuery = capitan.NewStringKey("query")

	// KeyResults is the number of results of a lookup.
	KeyResults = capitan.NewIntKey("results")

	// KeyDuration is how long a lookup took.
	KeyDuration = capitan.NewDurationKey("duration")

	// KeyDebounce is the configured debounce window.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyError is the error message of a failed lookup.
	KeyError = capitan.NewStringKey("error")
)
