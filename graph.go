// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package dyncon

import (
	"math"
	"math/bits"
	"time"

	"github.com/cockroachdb/dyncon/internal/base"
	"github.com/cockroachdb/dyncon/internal/ettree"
	"github.com/cockroachdb/dyncon/internal/forest"
	"github.com/cockroachdb/dyncon/internal/invariants"
	"github.com/cockroachdb/errors"
)

// Graph maintains the connected components of an undirected multigraph on a
// fixed vertex set under edge insertions and removals.
//
// Every edge is assigned a level. levels[l] holds a spanning forest made of
// the tree edges of level <= l, so levels[top] spans every component of the
// graph and levels[0] is the most refined. Non-tree ("weak") edges are
// recorded in exactly one forest, the one of their level. An edge's level
// never increases.
//
// A Graph is not safe for concurrent use.
type Graph struct {
	opts   *Options
	n      int
	arena  *ettree.Arena
	levels []*forest.Forest

	components int
	counters   struct {
		inserts        uint64
		removals       uint64
		replacements   uint64
		disconnections uint64
		treeDemotions  uint64
		weakDemotions  uint64
	}
}

// numLevels returns the number of levels for n vertices: ceil(log2 n), and
// at least one.
func numLevels(n int) int {
	if n <= 2 {
		return 1
	}
	return bits.Len(uint(n - 1))
}

// New constructs a Graph with vertexCount isolated vertices numbered
// [0, vertexCount). The supplied Options are copied; a nil opts selects the
// defaults.
func New(vertexCount int, opts *Options) (*Graph, error) {
	if vertexCount < 0 || vertexCount > math.MaxInt32 {
		return nil, errors.Newf("dyncon: invalid vertex count %d", vertexCount)
	}
	opts = opts.Clone()
	opts.EnsureDefaults()

	levels := numLevels(vertexCount)
	g := &Graph{
		opts:       opts,
		n:          vertexCount,
		arena:      ettree.NewArena(opts.Seed, 2*vertexCount*levels),
		levels:     make([]*forest.Forest, levels),
		components: vertexCount,
	}
	for l := range g.levels {
		g.levels[l] = forest.New(g.arena, vertexCount, l)
	}
	return g, nil
}

// NumVertices returns the number of vertices.
func (g *Graph) NumVertices() int { return g.n }

// NumLevels returns the number of levels.
func (g *Graph) NumLevels() int { return len(g.levels) }

// ComponentCount returns the number of connected components.
func (g *Graph) ComponentCount() int { return g.components }

func (g *Graph) top() *forest.Forest {
	return g.levels[len(g.levels)-1]
}

func (g *Graph) checkVertex(v int) error {
	if v < 0 || v >= g.n {
		return base.VertexOutOfRangef(v, g.n)
	}
	return nil
}

func (g *Graph) checkVertices(u, v int) error {
	if err := g.checkVertex(u); err != nil {
		return err
	}
	return g.checkVertex(v)
}

// Connected reports whether u and v lie in the same component. A vertex is
// always connected to itself.
func (g *Graph) Connected(u, v int) (bool, error) {
	if err := g.checkVertices(u, v); err != nil {
		return false, err
	}
	return g.top().Connected(int32(u), int32(v)), nil
}

// ComponentSize returns the number of vertices in v's component.
func (g *Graph) ComponentSize(v int) (int, error) {
	if err := g.checkVertex(v); err != nil {
		return 0, err
	}
	return g.top().ComponentSize(int32(v)), nil
}

// AddEdge inserts the edge (u, v). Parallel edges are permitted; each copy
// must be removed separately. Self loops are rejected with ErrSelfLoop.
func (g *Graph) AddEdge(u, v int) error {
	if err := g.checkVertices(u, v); err != nil {
		return err
	}
	if u == v {
		return errors.Wrapf(ErrSelfLoop, "adding edge %d-%d", u, v)
	}
	a, b := int32(u), int32(v)
	top := g.top()
	if top.Connected(a, b) {
		top.AddWeak(a, b, 1)
	} else {
		top.AddTreeEdge(a, b, true)
		g.components--
	}
	g.counters.inserts++
	g.maybeCheckInvariants()
	return nil
}

// RemoveEdge removes one copy of the edge (u, v). If the edge is not present
// the graph is left untouched and an error marked with ErrEdgeNotFound is
// returned.
//
// Removing a non-tree copy is a local operation. Removing a tree edge of
// level L cuts it from every forest at or above L and then looks for a
// replacement, one level at a time from L upwards. At each level the smaller
// of the two pieces has its level tree edges pushed one level down, and its
// weak edges are inspected: those internal to the piece are pushed down too,
// and the first one leaving it becomes the replacement.
func (g *Graph) RemoveEdge(u, v int) error {
	if err := g.checkVertices(u, v); err != nil {
		return err
	}
	a, b := int32(u), int32(v)
	e := base.MakeEdge(a, b)
	if u == v {
		return base.EdgeNotFoundf(e)
	}

	level := -1
	for l, f := range g.levels {
		if f.RemoveWeak(a, b) {
			g.counters.removals++
			g.maybeCheckInvariants()
			return nil
		}
		if ok, _ := f.LookupTreeEdge(a, b); ok {
			level = l
			break
		}
	}
	if level < 0 {
		return base.EdgeNotFoundf(e)
	}
	if h := g.opts.TreeRemovalLatency; h != nil {
		start := time.Now()
		defer func() { h.Observe(float64(time.Since(start))) }()
	}

	var repl base.WeakEdge
	var replLevel int
	found := false
	for l := level; l < len(g.levels); l++ {
		f := g.levels[l]
		f.RemoveTreeEdge(a, b)
		root := f.Smaller(a, b)

		var info DemotionInfo
		if l > 0 {
			lower := g.levels[l-1]
			for _, d := range f.LowerLevel(root) {
				if d.From < d.To {
					lower.AddTreeEdge(d.From, d.To, true)
					info.TreeEdges++
				}
			}
		}

		if found {
			f.AddTreeEdge(repl.From, repl.To, false)
		} else {
			demoted, cand, ok := f.SearchWeak(root)
			target := f
			if l > 0 {
				target = g.levels[l-1]
			}
			for _, w := range demoted {
				target.AddWeak(w.From, w.To, w.Count)
				if l > 0 {
					info.WeakEdges += int(w.Count)
				}
			}
			if ok {
				f.AddTreeEdge(cand.From, cand.To, true)
				if cand.Count > 1 {
					f.AddWeak(cand.From, cand.To, cand.Count-1)
				}
				repl, replLevel, found = cand, l, true
			}
		}

		if info.TreeEdges > 0 || info.WeakEdges > 0 {
			info.Level = l
			g.counters.treeDemotions += uint64(info.TreeEdges)
			g.counters.weakDemotions += uint64(info.WeakEdges)
			g.opts.EventListener.EdgesDemoted(info)
		}
	}

	g.counters.removals++
	if found {
		g.counters.replacements++
		g.opts.EventListener.ReplacementFound(ReplacementInfo{
			Removed:     e,
			Replacement: base.MakeEdge(repl.From, repl.To),
			Level:       replLevel,
		})
	} else {
		g.components++
		g.counters.disconnections++
		g.opts.EventListener.ComponentSplit(SplitInfo{
			Removed:    e,
			Components: g.components,
		})
	}
	g.maybeCheckInvariants()
	return nil
}

// EdgeLevel returns the level of one copy of the edge (u, v): the lowest
// level at which the edge is recorded, and whether that copy is a tree edge.
// Non-tree copies are reported before a tree edge of the same level.
func (g *Graph) EdgeLevel(u, v int) (level int, tree bool, err error) {
	if err := g.checkVertices(u, v); err != nil {
		return 0, false, err
	}
	a, b := int32(u), int32(v)
	for l, f := range g.levels {
		if f.WeakCount(a, b) > 0 {
			return l, false, nil
		}
		if ok, _ := f.LookupTreeEdge(a, b); ok {
			return l, true, nil
		}
	}
	return 0, false, base.EdgeNotFoundf(base.MakeEdge(a, b))
}

// Metrics returns a snapshot of the graph's metrics.
func (g *Graph) Metrics() Metrics {
	m := Metrics{
		Vertices:       g.n,
		Components:     g.components,
		Levels:         make([]LevelMetrics, len(g.levels)),
		Occurrences:    g.arena.Live(),
		Inserts:        g.counters.inserts,
		Removals:       g.counters.removals,
		Replacements:   g.counters.replacements,
		Disconnections: g.counters.disconnections,
		TreeDemotions:  g.counters.treeDemotions,
		WeakDemotions:  g.counters.weakDemotions,
	}
	for l, f := range g.levels {
		lm := &m.Levels[l]
		lm.TreeEdges = f.TreeEdges()
		lm.WeakEdges = f.WeakEdges()
		lm.Occurrences = f.Occurrences()
		f.AllTreeEdges(func(_ base.Edge, atLevel bool) bool {
			if atLevel {
				lm.LevelTreeEdges++
			}
			return true
		})
	}
	return m
}

// CheckInvariants verifies every level forest and the relationships between
// them:
//
//   - the forest of each level contains every tree edge of the level below;
//   - a tree edge is flagged exactly in the lowest forest containing it;
//   - the top forest has one tree per component;
//   - the arena holds no occurrence beyond those owned by the forests.
//
// It is expensive and intended for tests and invariants builds.
func (g *Graph) CheckInvariants() error {
	live := 0
	for l, f := range g.levels {
		if err := f.CheckInvariants(); err != nil {
			return err
		}
		live += f.Occurrences()

		var err error
		f.AllTreeEdges(func(e base.Edge, atLevel bool) bool {
			inLower := false
			if l > 0 {
				inLower, _ = g.levels[l-1].LookupTreeEdge(e.Lo, e.Hi)
			}
			if atLevel == inLower {
				err = errors.AssertionFailedf("L%d: tree edge %s flagged=%t, present below=%t",
					l, e, atLevel, inLower)
				return false
			}
			if l+1 < len(g.levels) {
				if ok, _ := g.levels[l+1].LookupTreeEdge(e.Lo, e.Hi); !ok {
					err = errors.AssertionFailedf("L%d: tree edge %s missing from L%d", l, e, l+1)
					return false
				}
			}
			return true
		})
		if err != nil {
			return err
		}
	}
	if trees := g.top().NumTrees(); trees != g.components {
		return errors.AssertionFailedf("%d components but %d spanning trees", g.components, trees)
	}
	if got := g.arena.Live(); got != live {
		return errors.AssertionFailedf("arena holds %d occurrences, forests own %d", got, live)
	}
	return nil
}

func (g *Graph) maybeCheckInvariants() {
	if pct := g.opts.CheckInvariantsPercent; pct > 0 && invariants.Sometimes(pct) {
		if err := g.CheckInvariants(); err != nil {
			g.opts.Logger.Fatalf("%+v", err)
		}
	}
}
