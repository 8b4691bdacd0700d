// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package dyncon

import "github.com/cockroachdb/redact"

// ReplacementInfo contains the info for a replacement event: a tree edge was
// removed and a former non-tree edge took its place in the spanning forest.
type ReplacementInfo struct {
	// Removed is the tree edge that was removed.
	Removed Edge
	// Replacement is the non-tree edge promoted to a tree edge.
	Replacement Edge
	// Level is the level at which the replacement was found.
	Level int
}

func (i ReplacementInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i ReplacementInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("removed %s: replaced by %s at L%d", i.Removed, i.Replacement, redact.Safe(i.Level))
}

// SplitInfo contains the info for a component split event: a tree edge was
// removed and no replacement exists.
type SplitInfo struct {
	// Removed is the tree edge that was removed.
	Removed Edge
	// Components is the number of connected components after the split.
	Components int
}

func (i SplitInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i SplitInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("removed %s: split, %d components", i.Removed, redact.Safe(i.Components))
}

// DemotionInfo contains the info for a demotion event: while removing a tree
// edge, edges of the smaller piece moved from Level to Level-1.
type DemotionInfo struct {
	// Level is the level the edges were demoted from.
	Level int
	// TreeEdges is the number of tree edges demoted.
	TreeEdges int
	// WeakEdges is the number of non-tree edges demoted, counting
	// multiplicity.
	WeakEdges int
}

func (i DemotionInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i DemotionInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("demoted L%d->L%d: %d tree, %d non-tree",
		redact.Safe(i.Level), redact.Safe(i.Level-1), redact.Safe(i.TreeEdges), redact.Safe(i.WeakEdges))
}

// EventListener contains a set of functions that will be invoked when various
// significant Graph events occur. Note that the functions should not run for
// an excessive amount of time as they are invoked synchronously by the Graph
// and may block the operation in progress.
type EventListener struct {
	// ReplacementFound is invoked after a removed tree edge has been replaced.
	ReplacementFound func(ReplacementInfo)

	// ComponentSplit is invoked after removing a tree edge disconnected a
	// component.
	ComponentSplit func(SplitInfo)

	// EdgesDemoted is invoked after edges were demoted during a removal.
	EdgesDemoted func(DemotionInfo)
}

// EnsureDefaults ensures that the callbacks in the listener are non-nil.
func (l *EventListener) EnsureDefaults() {
	if l.ReplacementFound == nil {
		l.ReplacementFound = func(info ReplacementInfo) {}
	}
	if l.ComponentSplit == nil {
		l.ComponentSplit = func(info SplitInfo) {}
	}
	if l.EdgesDemoted == nil {
		l.EdgesDemoted = func(info DemotionInfo) {}
	}
}

// MakeLoggingEventListener creates an EventListener that logs all events to
// the specified logger.
func MakeLoggingEventListener(logger Logger) EventListener {
	if logger == nil {
		logger = DefaultLogger
	}
	return EventListener{
		ReplacementFound: func(info ReplacementInfo) {
			logger.Infof("%s", info)
		},
		ComponentSplit: func(info SplitInfo) {
			logger.Infof("%s", info)
		},
		EdgesDemoted: func(info DemotionInfo) {
			logger.Infof("%s", info)
		},
	}
}

// TeeEventListener wraps two EventListeners, forwarding all events to both.
func TeeEventListener(a, b EventListener) EventListener {
	a.EnsureDefaults()
	b.EnsureDefaults()
	return EventListener{
		ReplacementFound: func(info ReplacementInfo) {
			a.ReplacementFound(info)
			b.ReplacementFound(info)
		},
		ComponentSplit: func(info SplitInfo) {
			a.ComponentSplit(info)
			b.ComponentSplit(info)
		},
		EdgesDemoted: func(info DemotionInfo) {
			a.EdgesDemoted(info)
			b.EdgesDemoted(info)
		},
	}
}
