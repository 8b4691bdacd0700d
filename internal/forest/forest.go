// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package forest implements a single level of the connectivity structure: a
// spanning forest stored as Euler tours in an ettree.Arena, together with the
// weak (non-tree) edges recorded at that level.
//
// A tour of a tree with k vertices holds exactly 2k-1 occurrences. Its first
// and last occurrence belong to the same vertex, so the tour is logically
// circular with a duplicated seam. Every vertex has one representative
// occurrence per level; weak-edge status is tracked on it.
//
// A tree edge (u, v) is bounded by two marker occurrences: an extra copy of u
// placed immediately before v's subtour ("open"), and the last occurrence of
// v's subtour ("close"), which is immediately followed by an occurrence of u.
// The successor of each marker is therefore the other endpoint. The last
// occurrence of a tour is never a marker.
package forest // import "github.com/cockroachdb/dyncon/internal/forest"

import (
	"github.com/cockroachdb/dyncon/internal/base"
	"github.com/cockroachdb/dyncon/internal/ettree"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/swiss"
	"github.com/google/btree"
)

// markers locates a tree edge within the tour.
type markers struct {
	open  ettree.Handle
	close ettree.Handle
}

// Forest is the spanning forest of one level.
type Forest struct {
	arena *ettree.Arena
	level int

	// rep maps each vertex to its representative occurrence.
	rep []ettree.Handle
	// degree is the number of distinct weak neighbours of each vertex.
	degree []int32
	// weak holds every weak edge twice, once per direction.
	weak      *btree.BTreeG[weakEntry]
	weakCount int
	// edges maps a tree edge to its marker pair.
	edges swiss.Map[base.Edge, markers]
}

// New constructs the forest for level with n isolated vertices. Each vertex
// receives a single representative occurrence allocated from arena.
func New(arena *ettree.Arena, n int, level int) *Forest {
	f := &Forest{
		arena:  arena,
		level:  level,
		rep:    make([]ettree.Handle, n),
		degree: make([]int32, n),
		weak:   btree.NewG[weakEntry](16, weakEntryLess),
	}
	f.edges.Init(16)
	for v := range f.rep {
		f.rep[v] = arena.New(int32(v), false)
	}
	return f
}

// Level returns the level this forest maintains.
func (f *Forest) Level() int { return f.level }

// TreeEdges returns the number of tree edges in the forest, regardless of
// their level.
func (f *Forest) TreeEdges() int { return f.edges.Len() }

// WeakEdges returns the number of weak edges at this level, counting
// multiplicity.
func (f *Forest) WeakEdges() int { return f.weakCount }

// Occurrences returns the number of tour occurrences owned by this level.
func (f *Forest) Occurrences() int { return len(f.rep) + f.edges.Len() }

// Connected reports whether u and v are in the same tree.
func (f *Forest) Connected(u, v int32) bool {
	return f.arena.Root(f.rep[u]) == f.arena.Root(f.rep[v])
}

// ComponentSize returns the number of vertices in v's tree.
func (f *Forest) ComponentSize(v int32) int {
	return (f.arena.Size(f.arena.Root(f.rep[v])) + 1) / 2
}

// setRep moves v's representative to h, which must be an occurrence of v in
// a tree. The previous representative is expected to be detached and about
// to be freed.
func (f *Forest) setRep(v int32, h ettree.Handle) {
	a := f.arena
	a.SetWeakHere(f.rep[v], false)
	f.rep[v] = h
	a.SetWeakHere(h, f.degree[v] > 0)
	a.GoUp(h)
}

// makeRoot rotates v's tour so that it starts at v. The last occurrence
// duplicates the first one, so it is dropped and a fresh trailing copy of v
// closes the rotated tour.
func (f *Forest) makeRoot(v int32) {
	a := f.arena
	root := a.Root(f.rep[v])
	first := a.First(root)
	if a.Vertex(first) == v {
		return
	}
	last := a.Last(root)
	a.Split(last)
	if lv := a.Vertex(last); f.rep[lv] == last {
		f.setRep(lv, first)
	}
	a.Free(last)

	before, from := a.Split(f.rep[v])
	a.Merge(a.Merge(from, before), a.New(v, false))
}

// AddTreeEdge links the trees of u and v with the tree edge (u, v). If
// atLevel is set, the edge's level is this forest's level and its markers are
// flagged so that LowerLevel can find it.
func (f *Forest) AddTreeEdge(u, v int32, atLevel bool) {
	if f.Connected(u, v) {
		panic(errors.AssertionFailedf("forest: L%d: tree edge %d-%d would close a cycle",
			f.level, u, v))
	}
	a := f.arena
	f.makeRoot(v)
	sub := a.Root(f.rep[v])
	closing := a.Last(sub)
	a.SetLevelHere(closing, atLevel)
	a.GoUp(closing)

	before, from := a.Split(f.rep[u])
	open := a.New(u, atLevel)
	a.Merge(a.Merge(a.Merge(before, open), sub), from)
	f.edges.Put(base.MakeEdge(u, v), markers{open: open, close: closing})
}

// RemoveTreeEdge cuts the tree edge (u, v), leaving two independent tours.
//
// With the two markers ordered by position as x before y, the occurrences
// strictly after x up to and including y form one complete tour. The rest of
// the tour, minus x, forms the other. If x was its vertex's representative,
// the representative moves to the successor of y, which is an occurrence of
// the same vertex.
func (f *Forest) RemoveTreeEdge(u, v int32) {
	e := base.MakeEdge(u, v)
	m, ok := f.edges.Get(e)
	if !ok {
		panic(errors.AssertionFailedf("forest: L%d: tree edge %s not found", f.level, e))
	}
	f.edges.Delete(e)

	a := f.arena
	x, y := m.open, m.close
	if a.Index(x) > a.Index(y) {
		x, y = y, x
	}
	nx, ny := a.Next(x), a.Next(y)
	if nx == ettree.Nil || ny == ettree.Nil {
		panic(errors.AssertionFailedf("forest: L%d: marker of %s ends its tour", f.level, e))
	}
	a.Split(nx)
	_, tail := a.Split(ny)
	a.SetLevelHere(y, false)
	a.GoUp(y)

	head, _ := a.Split(x)
	if xv := a.Vertex(x); f.rep[xv] == x {
		f.setRep(xv, ny)
	}
	a.Free(x)
	a.Merge(head, tail)
}

// Smaller returns the root of whichever of u's and v's trees holds fewer
// occurrences. Ties resolve to u's tree.
func (f *Forest) Smaller(u, v int32) ettree.Handle {
	a := f.arena
	ru, rv := a.Root(f.rep[u]), a.Root(f.rep[v])
	if a.Size(ru) > a.Size(rv) {
		return rv
	}
	return ru
}

// LookupTreeEdge reports whether (u, v) is a tree edge of this forest and, if
// so, whether its level is this forest's level.
func (f *Forest) LookupTreeEdge(u, v int32) (ok, atLevel bool) {
	m, ok := f.edges.Get(base.MakeEdge(u, v))
	if !ok {
		return false, false
	}
	return true, f.arena.LevelHere(m.open)
}

// AllTreeEdges calls fn for every tree edge of the forest in unspecified
// order, until fn returns false.
func (f *Forest) AllTreeEdges(fn func(e base.Edge, atLevel bool) bool) {
	f.edges.All(func(e base.Edge, m markers) bool {
		return fn(e, f.arena.LevelHere(m.open))
	})
}

// NumTrees returns the number of trees in the forest.
func (f *Forest) NumTrees() int {
	roots := make(map[ettree.Handle]struct{})
	for _, h := range f.rep {
		roots[f.arena.Root(h)] = struct{}{}
	}
	return len(roots)
}
