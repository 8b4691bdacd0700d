// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package ettree implements the Euler-tour occurrence trees used by every
// level of the connectivity structure. An occurrence tree is an implicit
// treap: the in-order position of a node is its position in the tour, and
// random priorities keep the expected depth logarithmic.
//
// All occurrences of all levels live in a single Arena and are addressed by
// integer handles rather than pointers. Handle 0 is a permanent nil sentinel,
// so a zero Handle in a child or parent slot means "no node".
package ettree // import "github.com/cockroachdb/dyncon/internal/ettree"

import (
	"time"

	"github.com/cockroachdb/dyncon/internal/invariants"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/rand"
)

// Handle addresses an occurrence in an Arena.
type Handle uint32

// Nil is the reserved nil slot.
const Nil Handle = 0

// aggregate is the fold of a node's subtree. It must be recomputed by Update
// whenever a child of the node changes.
type aggregate struct {
	// size is the number of occurrences in the subtree.
	size int32
	// weakSub is set if some node in the subtree has weakHere set.
	weakSub bool
	// levelSub is set if some node in the subtree has levelHere set.
	levelSub bool
}

// node is one occurrence of a vertex in one level's Euler tour.
type node struct {
	vertex   int32
	priority uint64
	left     Handle
	right    Handle
	parent   Handle
	// levelHere marks an occurrence that bounds a tree edge whose level is
	// exactly the level owning this tour.
	levelHere bool
	// weakHere is set on the representative occurrence of a vertex that has
	// at least one weak edge at this level.
	weakHere bool
	agg      aggregate
	// freed is only maintained in invariants builds.
	freed bool
}

// Arena is a pool of occurrence records shared by every level. Slots are
// recycled through a free list; a freed handle must not be dereferenced until
// it is handed out again by New.
type Arena struct {
	nodes []node
	free  []Handle
	rand  rand.PCGSource
}

// NewArena constructs an empty arena. A zero seed seeds the priority source
// from the clock.
func NewArena(seed uint64, capacity int) *Arena {
	a := &Arena{
		nodes: make([]node, 1, capacity+1),
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	a.rand.Seed(seed)
	return a
}

// New allocates an occurrence of vertex as a single-node tree.
func (a *Arena) New(vertex int32, levelHere bool) Handle {
	n := node{
		vertex:    vertex,
		priority:  a.rand.Uint64(),
		levelHere: levelHere,
		agg: aggregate{
			size:     1,
			levelSub: levelHere,
		},
	}
	if k := len(a.free); k > 0 {
		h := a.free[k-1]
		a.free = a.free[:k-1]
		a.nodes[h] = n
		return h
	}
	a.nodes = append(a.nodes, n)
	return Handle(len(a.nodes) - 1)
}

// Free returns h to the free list. The caller must have detached h from any
// tree beforehand.
func (a *Arena) Free(h Handle) {
	if h == Nil {
		panic(errors.AssertionFailedf("ettree: freeing the nil slot"))
	}
	invariants.CheckBounds(h, Handle(len(a.nodes)))
	if invariants.Enabled {
		if a.nodes[h].freed {
			panic(errors.AssertionFailedf("ettree: double free of %d", h))
		}
		a.nodes[h].freed = true
	}
	a.free = append(a.free, h)
}

// Live returns the number of allocated, unfreed occurrences.
func (a *Arena) Live() int {
	return len(a.nodes) - 1 - len(a.free)
}

// Vertex returns the vertex h is an occurrence of.
func (a *Arena) Vertex(h Handle) int32 {
	invariants.CheckBounds(h, Handle(len(a.nodes)))
	return a.nodes[h].vertex
}

// Left returns the left child of h.
func (a *Arena) Left(h Handle) Handle { return a.nodes[h].left }

// Right returns the right child of h.
func (a *Arena) Right(h Handle) Handle { return a.nodes[h].right }

// Parent returns the parent of h, or Nil if h is a root.
func (a *Arena) Parent(h Handle) Handle { return a.nodes[h].parent }

// Size returns the number of occurrences in the subtree rooted at h. The size
// of Nil is zero.
func (a *Arena) Size(h Handle) int {
	if h == Nil {
		return 0
	}
	return int(a.nodes[h].agg.size)
}

// LevelHere reports whether h marks a tree edge at the owning level.
func (a *Arena) LevelHere(h Handle) bool { return a.nodes[h].levelHere }

// LevelSub reports whether the subtree at h contains a level marker.
func (a *Arena) LevelSub(h Handle) bool {
	return h != Nil && a.nodes[h].agg.levelSub
}

// WeakHere reports whether h is flagged as a representative with weak edges.
func (a *Arena) WeakHere(h Handle) bool { return a.nodes[h].weakHere }

// WeakSub reports whether the subtree at h contains a node with WeakHere set.
func (a *Arena) WeakSub(h Handle) bool {
	return h != Nil && a.nodes[h].agg.weakSub
}

// SetLevelHere sets the level-marker flag of h. Aggregates of h and its
// ancestors are stale until Update or GoUp is called.
func (a *Arena) SetLevelHere(h Handle, v bool) { a.nodes[h].levelHere = v }

// SetWeakHere sets the weak flag of h. Aggregates of h and its ancestors are
// stale until Update or GoUp is called.
func (a *Arena) SetWeakHere(h Handle, v bool) { a.nodes[h].weakHere = v }
