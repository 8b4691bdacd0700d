// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package dyncon

import "github.com/prometheus/client_golang/prometheus"

// Options holds the optional parameters for configuring a Graph. The zero
// value is usable; New fills in defaults on a private copy.
type Options struct {
	// Logger is used for the logging event listener and for fatal invariant
	// violations. Defaults to DefaultLogger.
	Logger Logger

	// EventListener provides hooks to listening to significant structural
	// events. The default is a no-op listener; use MakeLoggingEventListener to
	// log events through Logger.
	EventListener *EventListener

	// Seed seeds the priorities of the Euler-tour treaps. Priorities only
	// affect the shape of the trees, never the answers to queries. Zero seeds
	// from the clock.
	Seed uint64

	// TreeRemovalLatency, if set, records the latency in nanoseconds of every
	// RemoveEdge call that cuts a tree edge, including the replacement
	// search. Removals of non-tree copies are not recorded.
	TreeRemovalLatency prometheus.Histogram

	// CheckInvariantsPercent is the percentage of mutations after which the
	// whole structure is verified in invariants builds. Ignored otherwise.
	// Zero selects the default of 10; a negative value disables the checks.
	CheckInvariantsPercent int
}

// EnsureDefaults ensures that the default values for all options are set if a
// valid value was not already specified.
func (o *Options) EnsureDefaults() {
	if o.Logger == nil {
		o.Logger = DefaultLogger
	}
	if o.EventListener == nil {
		o.EventListener = &EventListener{}
	}
	o.EventListener.EnsureDefaults()
	if o.CheckInvariantsPercent == 0 {
		o.CheckInvariantsPercent = 10
	}
}

// Clone creates a shallow copy of the supplied options.
func (o *Options) Clone() *Options {
	n := &Options{}
	if o != nil {
		*n = *o
		if o.EventListener != nil {
			l := *o.EventListener
			n.EventListener = &l
		}
	}
	return n
}
