// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package forest

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/dyncon/internal/base"
	"github.com/cockroachdb/dyncon/internal/ettree"
	"github.com/stretchr/testify/require"
)

func vertexArg(t *testing.T, td *datadriven.TestData, i int) int32 {
	if i >= len(td.CmdArgs) {
		td.Fatalf(t, "missing vertex argument %d", i)
	}
	v, err := strconv.Atoi(td.CmdArgs[i].Key)
	if err != nil {
		td.Fatalf(t, "invalid vertex %q: %v", td.CmdArgs[i].Key, err)
	}
	return int32(v)
}

func TestForest(t *testing.T) {
	var f *Forest
	datadriven.RunTest(t, "testdata/forest", func(t *testing.T, td *datadriven.TestData) string {
		var out strings.Builder
		switch td.Cmd {
		case "init":
			var n int
			td.ScanArgs(t, "n", &n)
			f = New(ettree.NewArena(1, 0), n, 0)
			return ""

		case "link":
			u, v := vertexArg(t, td, 0), vertexArg(t, td, 1)
			f.AddTreeEdge(u, v, !td.HasArg("unflagged"))
			out.WriteString(f.FormatTour(u))

		case "cut":
			u, v := vertexArg(t, td, 0), vertexArg(t, td, 1)
			f.RemoveTreeEdge(u, v)
			fmt.Fprintf(&out, "%s\n%s", f.FormatTour(u), f.FormatTour(v))

		case "tour":
			out.WriteString(f.FormatTour(vertexArg(t, td, 0)))

		case "connected":
			out.WriteString(strconv.FormatBool(f.Connected(vertexArg(t, td, 0), vertexArg(t, td, 1))))

		case "weak":
			u, v := vertexArg(t, td, 0), vertexArg(t, td, 1)
			count := 1
			td.MaybeScanArgs(t, "count", &count)
			f.AddWeak(u, v, int32(count))
			fmt.Fprintf(&out, "%s x%d", base.MakeEdge(u, v), f.WeakCount(u, v))

		case "unweak":
			u, v := vertexArg(t, td, 0), vertexArg(t, td, 1)
			if !f.RemoveWeak(u, v) {
				out.WriteString("not found")
			} else {
				fmt.Fprintf(&out, "%s x%d", base.MakeEdge(u, v), f.WeakCount(u, v))
			}

		case "lower":
			v := vertexArg(t, td, 0)
			var edges []base.Edge
			for _, d := range f.LowerLevel(f.arena.Root(f.rep[v])) {
				if d.From < d.To {
					edges = append(edges, d.Edge())
				}
			}
			slices.SortFunc(edges, base.Edge.Compare)
			for _, e := range edges {
				fmt.Fprintf(&out, "%s\n", e)
			}
			fmt.Fprintf(&out, "tour: %s", f.FormatTour(v))

		case "stats":
			fmt.Fprintf(&out, "tree edges: %d\n", f.TreeEdges())
			fmt.Fprintf(&out, "weak edges: %d\n", f.WeakEdges())
			fmt.Fprintf(&out, "occurrences: %d\n", f.Occurrences())
			fmt.Fprintf(&out, "trees: %d", f.NumTrees())

		default:
			td.Fatalf(t, "unknown command %q", td.Cmd)
		}
		if err := f.CheckInvariants(); err != nil {
			td.Fatalf(t, "%+v", err)
		}
		return out.String()
	})
}

// path builds a forest on n vertices and links 0-1-...-(k-1) into a path.
func path(n, k int, seed uint64) *Forest {
	f := New(ettree.NewArena(seed, 0), n, 0)
	for v := 1; v < k; v++ {
		f.AddTreeEdge(int32(v-1), int32(v), true)
	}
	return f
}

func TestRepresentatives(t *testing.T) {
	// Linking and cutting every edge of a path in a variety of orders must
	// preserve exactly one representative per vertex, for every treap shape.
	for seed := uint64(1); seed <= 20; seed++ {
		f := path(8, 8, seed)
		require.NoError(t, f.CheckInvariants())
		require.Equal(t, 1, f.NumTrees())
		require.Equal(t, 8, f.ComponentSize(3))

		for _, v := range []int32{3, 0, 6, 1, 5, 2, 4} {
			f.RemoveTreeEdge(v, v+1)
			require.NoError(t, f.CheckInvariants())
			require.False(t, f.Connected(v, v+1))
		}
		require.Equal(t, 8, f.NumTrees())
		require.Equal(t, 8, f.Occurrences())
		require.Equal(t, 8, f.arena.Live())

		// Relink as a star centred on 7.
		for v := int32(0); v < 7; v++ {
			f.AddTreeEdge(v, 7, v%2 == 0)
			require.NoError(t, f.CheckInvariants())
		}
		require.Equal(t, 8, f.ComponentSize(0))
		ok, atLevel := f.LookupTreeEdge(7, 2)
		require.True(t, ok)
		require.True(t, atLevel)
		ok, atLevel = f.LookupTreeEdge(3, 7)
		require.True(t, ok)
		require.False(t, atLevel)
		ok, _ = f.LookupTreeEdge(2, 3)
		require.False(t, ok)
	}
}

func TestSmaller(t *testing.T) {
	f := path(5, 3, 1)
	f.AddTreeEdge(3, 4, true)
	a := f.arena
	require.Equal(t, a.Root(f.rep[3]), f.Smaller(0, 3))
	require.Equal(t, a.Root(f.rep[3]), f.Smaller(4, 1))
	// Ties resolve to the first argument.
	g := path(4, 2, 1)
	g.AddTreeEdge(2, 3, true)
	require.Equal(t, g.arena.Root(g.rep[2]), g.Smaller(2, 0))
	require.Equal(t, g.arena.Root(g.rep[0]), g.Smaller(0, 2))
}

func TestWeak(t *testing.T) {
	f := path(4, 4, 1)
	require.Equal(t, 0, f.WeakCount(0, 2))
	require.False(t, f.RemoveWeak(0, 2))

	f.AddWeak(0, 2, 1)
	f.AddWeak(2, 0, 2)
	f.AddWeak(1, 3, 1)
	require.Equal(t, 3, f.WeakCount(0, 2))
	require.Equal(t, 3, f.WeakCount(2, 0))
	require.Equal(t, 4, f.WeakEdges())
	require.NoError(t, f.CheckInvariants())

	require.True(t, f.RemoveWeak(2, 0))
	require.Equal(t, 2, f.WeakCount(0, 2))
	require.Equal(t, 3, f.WeakEdges())
	require.Equal(t, int32(2), f.removeWeakAll(0, 2))
	require.Equal(t, int32(0), f.removeWeakAll(0, 2))
	require.False(t, f.isWeak(0))
	require.True(t, f.isWeak(1))
	require.NoError(t, f.CheckInvariants())

	require.True(t, f.RemoveWeak(3, 1))
	require.Equal(t, 0, f.WeakEdges())
	require.False(t, f.arena.WeakSub(f.arena.Root(f.rep[0])))
	require.NoError(t, f.CheckInvariants())

	require.Panics(t, func() { f.AddWeak(1, 1, 1) })
	require.Panics(t, func() { f.AddWeak(1, 2, 0) })
}

func normalize(edges []base.WeakEdge) []base.WeakEdge {
	out := make([]base.WeakEdge, len(edges))
	for i, w := range edges {
		e := base.MakeEdge(w.From, w.To)
		out[i] = base.WeakEdge{From: e.Lo, To: e.Hi, Count: w.Count}
	}
	slices.SortFunc(out, func(a, b base.WeakEdge) int {
		return base.MakeEdge(a.From, a.To).Compare(base.MakeEdge(b.From, b.To))
	})
	return out
}

func TestSearchWeak(t *testing.T) {
	t.Run("internal", func(t *testing.T) {
		for seed := uint64(1); seed <= 10; seed++ {
			f := path(4, 3, seed)
			f.AddWeak(0, 2, 2)
			f.AddWeak(1, 0, 1)
			demoted, _, found := f.SearchWeak(f.arena.Root(f.rep[1]))
			require.False(t, found)
			require.Equal(t, []base.WeakEdge{{From: 0, To: 1, Count: 1}, {From: 0, To: 2, Count: 2}},
				normalize(demoted))
			require.Equal(t, 0, f.WeakEdges())
			require.NoError(t, f.CheckInvariants())
		}
	})

	t.Run("replacement", func(t *testing.T) {
		for seed := uint64(1); seed <= 10; seed++ {
			f := path(4, 4, seed)
			f.AddWeak(0, 3, 3)
			f.RemoveTreeEdge(1, 2)
			root := f.Smaller(1, 2)
			require.Equal(t, f.arena.Root(f.rep[1]), root)
			demoted, repl, found := f.SearchWeak(root)
			require.True(t, found)
			require.Empty(t, demoted)
			require.Equal(t, base.WeakEdge{From: 0, To: 3, Count: 3}, repl)
			require.Equal(t, 0, f.WeakEdges())
		}
	})

	t.Run("partial", func(t *testing.T) {
		// Vertex 0 has one neighbour inside its tree and two outside. The
		// neighbours are scanned in ascending order, so 0-1 is demoted, 0-3
		// is the replacement and 0-5 is left in place.
		for seed := uint64(1); seed <= 10; seed++ {
			f := path(6, 6, seed)
			f.AddWeak(0, 1, 1)
			f.AddWeak(0, 3, 1)
			f.AddWeak(0, 5, 1)
			f.RemoveTreeEdge(1, 2)
			demoted, repl, found := f.SearchWeak(f.Smaller(0, 5))
			require.True(t, found)
			require.Equal(t, []base.WeakEdge{{From: 0, To: 1, Count: 1}}, normalize(demoted))
			require.Equal(t, base.WeakEdge{From: 0, To: 3, Count: 1}, repl)
			require.Equal(t, 1, f.WeakCount(0, 5))
			require.Equal(t, 1, f.WeakEdges())
		}
	})
}

func TestLowerLevel(t *testing.T) {
	f := New(ettree.NewArena(1, 0), 5, 2)
	f.AddTreeEdge(0, 1, true)
	f.AddTreeEdge(1, 2, false)
	f.AddTreeEdge(2, 3, true)
	f.AddTreeEdge(3, 4, false)
	var edges []base.Edge
	for _, d := range f.LowerLevel(f.arena.Root(f.rep[4])) {
		require.Equal(t, d.Edge(), base.MakeEdge(d.To, d.From))
		if d.From < d.To {
			edges = append(edges, d.Edge())
		}
	}
	slices.SortFunc(edges, base.Edge.Compare)
	require.Equal(t, []base.Edge{{Lo: 0, Hi: 1}, {Lo: 2, Hi: 3}}, edges)
	require.False(t, f.arena.LevelSub(f.arena.Root(f.rep[0])))
	require.Empty(t, f.LowerLevel(f.arena.Root(f.rep[0])))
	f.AllTreeEdges(func(e base.Edge, atLevel bool) bool {
		require.False(t, atLevel, "%s", e)
		return true
	})
	require.NoError(t, f.CheckInvariants())
}

func TestCheckInvariantsTour(t *testing.T) {
	f := New(ettree.NewArena(1, 0), 2, 0)
	require.NoError(t, f.CheckInvariants())
	a := f.arena
	a.Merge(a.Root(f.rep[0]), a.New(0, false))
	err := f.CheckInvariants()
	require.Error(t, err)
	require.Contains(t, err.Error(), "L0: tour of 1 vertices has 2 occurrences: 0 0")
}
