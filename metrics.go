// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package dyncon

import (
	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/redact"
)

// LevelMetrics holds per-level metrics.
type LevelMetrics struct {
	// TreeEdges is the number of edges in the level's spanning forest. It
	// includes the tree edges of every lower level.
	TreeEdges int
	// LevelTreeEdges is the number of tree edges whose level is exactly this
	// level.
	LevelTreeEdges int
	// WeakEdges is the number of non-tree edges recorded at this level,
	// counting multiplicity.
	WeakEdges int
	// Occurrences is the number of Euler-tour occurrences held by this level.
	Occurrences int
}

// Metrics holds metrics for a Graph.
type Metrics struct {
	Vertices   int
	Components int
	// Levels is indexed from the most refined level (0) to the top level.
	Levels []LevelMetrics
	// Occurrences is the number of live occurrences in the shared arena.
	Occurrences int

	// Cumulative operation counters.
	Inserts        uint64
	Removals       uint64
	Replacements   uint64
	Disconnections uint64
	TreeDemotions  uint64
	WeakDemotions  uint64
}

// TreeEdges returns the number of edges in the spanning forest of the graph.
func (m *Metrics) TreeEdges() int {
	if len(m.Levels) == 0 {
		return 0
	}
	return m.Levels[len(m.Levels)-1].TreeEdges
}

// WeakEdges returns the number of non-tree edges across all levels.
func (m *Metrics) WeakEdges() int {
	var n int
	for i := range m.Levels {
		n += m.Levels[i].WeakEdges
	}
	return n
}

func (m *Metrics) String() string {
	return redact.StringWithoutMarkers(m)
}

// SafeFormat implements redact.SafeFormatter.
func (m *Metrics) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("vertices: %d  components: %d  edges: %d tree, %d non-tree  occurrences: %d\n",
		redact.Safe(m.Vertices), redact.Safe(m.Components),
		redact.Safe(m.TreeEdges()), redact.Safe(m.WeakEdges()), redact.Safe(m.Occurrences))
	w.SafeString("level | forest | tree | non-tree\n")
	for i := len(m.Levels) - 1; i >= 0; i-- {
		l := &m.Levels[i]
		w.Printf("%5d | %6d | %4d | %8d\n",
			redact.Safe(i), redact.Safe(l.TreeEdges), redact.Safe(l.LevelTreeEdges), redact.Safe(l.WeakEdges))
	}
	w.Printf("inserts: %s  removals: %s  replacements: %s  disconnections: %s\n",
		crhumanize.Count(m.Inserts, crhumanize.Compact),
		crhumanize.Count(m.Removals, crhumanize.Compact),
		crhumanize.Count(m.Replacements, crhumanize.Compact),
		crhumanize.Count(m.Disconnections, crhumanize.Compact))
	w.Printf("demotions: %s tree, %s non-tree\n",
		crhumanize.Count(m.TreeDemotions, crhumanize.Compact),
		crhumanize.Count(m.WeakDemotions, crhumanize.Compact))
}
