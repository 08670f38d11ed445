/*
Package config loads live search settings from YAML or JSON.

# Overview

Settings are read into a Config, a thin wrapper over map[string]any whose
typed accessors fall back to defaults for missing or mistyped keys, and then
folded into a Settings value:

	settings, err := config.FromFile("rxflow.yaml")
	if err != nil {
	    log.Fatal(err)
	}

A complete file looks like:

	debounce: 400ms
	background_workers: 4
	log_level: debug
	metrics: true
	tracing: false
	index:
	  driver: sqlite
	  path: cities.db
	  limit: 20

Every key is optional; Default lists the fallbacks.

# Durations

Duration accepts a time.ParseDuration string ("400ms", "1s") or a number,
which is read as milliseconds.
*/
package config
