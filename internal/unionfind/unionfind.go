// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package unionfind provides a static connectivity oracle for a multigraph.
// It recomputes components from scratch and is used to cross-check the
// dynamic structure in tests and in the bench tool.
package unionfind

import (
	"slices"

	"github.com/cockroachdb/dyncon/internal/base"
)

type ufNode struct {
	// parent is the parent node. The representative of a group is the root of
	// its tree.
	parent int32
	// rank bounds the depth of the subtree; only meaningful for roots.
	rank int32
}

// UnionFind implements the union find structure, with union by rank and path
// compression.
type UnionFind struct {
	nodes  []ufNode
	groups int
}

// Reset reinitializes f with n singleton groups.
func (f *UnionFind) Reset(n int) {
	f.nodes = slices.Grow(f.nodes[:0], n)[:n]
	for i := range f.nodes {
		f.nodes[i] = ufNode{parent: int32(i)}
	}
	f.groups = n
}

// Find returns the representative of the group that n is part of.
func (f *UnionFind) Find(n int32) int32 {
	root := n
	for f.nodes[root].parent != root {
		root = f.nodes[root].parent
	}
	// Compress the path.
	for i := n; i != root; {
		i, f.nodes[i].parent = f.nodes[i].parent, root
	}
	return root
}

// Union joins the groups of a and b, and reports whether they were distinct.
func (f *UnionFind) Union(a, b int32) bool {
	a, b = f.Find(a), f.Find(b)
	if a == b {
		return false
	}
	an, bn := &f.nodes[a], &f.nodes[b]
	if an.rank < bn.rank {
		an.parent = b
	} else {
		bn.parent = a
		if an.rank == bn.rank {
			an.rank++
		}
	}
	f.groups--
	return true
}

// Groups returns the number of groups.
func (f *UnionFind) Groups() int { return f.groups }

// Oracle tracks the edge multiset of a graph and answers connectivity
// queries by rebuilding a UnionFind whenever the edges changed.
type Oracle struct {
	n     int
	edges map[base.Edge]int
	uf    UnionFind
	dirty bool
}

// NewOracle returns an oracle over n isolated vertices.
func NewOracle(n int) *Oracle {
	o := &Oracle{n: n, edges: make(map[base.Edge]int)}
	o.uf.Reset(n)
	return o
}

// AddEdge records one copy of (u, v).
func (o *Oracle) AddEdge(u, v int) {
	o.edges[base.MakeEdge(int32(u), int32(v))]++
	o.dirty = true
}

// RemoveEdge removes one copy of (u, v) and reports whether there was one.
func (o *Oracle) RemoveEdge(u, v int) bool {
	e := base.MakeEdge(int32(u), int32(v))
	c := o.edges[e]
	if c == 0 {
		return false
	}
	if c == 1 {
		delete(o.edges, e)
	} else {
		o.edges[e] = c - 1
	}
	o.dirty = true
	return true
}

// Edges returns the number of edges, counting multiplicity.
func (o *Oracle) Edges() int {
	n := 0
	for _, c := range o.edges {
		n += c
	}
	return n
}

func (o *Oracle) rebuild() {
	if !o.dirty {
		return
	}
	o.uf.Reset(o.n)
	for e := range o.edges {
		o.uf.Union(e.Lo, e.Hi)
	}
	o.dirty = false
}

// Connected reports whether u and v are connected.
func (o *Oracle) Connected(u, v int) bool {
	o.rebuild()
	return o.uf.Find(int32(u)) == o.uf.Find(int32(v))
}

// ComponentCount returns the number of connected components.
func (o *Oracle) ComponentCount() int {
	o.rebuild()
	return o.uf.Groups()
}
