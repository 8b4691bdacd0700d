// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import "github.com/cockroachdb/redact"

// Edge is an unordered vertex pair, canonicalized so that Lo <= Hi. It is the
// key under which an edge is located in a level forest.
type Edge struct {
	Lo, Hi int32
}

// MakeEdge returns the canonical Edge for the pair (u, v).
func MakeEdge(u, v int32) Edge {
	if u > v {
		u, v = v, u
	}
	return Edge{Lo: u, Hi: v}
}

// Compare orders edges by (Lo, Hi).
func (e Edge) Compare(o Edge) int {
	switch {
	case e.Lo < o.Lo:
		return -1
	case e.Lo > o.Lo:
		return +1
	case e.Hi < o.Hi:
		return -1
	case e.Hi > o.Hi:
		return +1
	}
	return 0
}

// String implements fmt.Stringer.
func (e Edge) String() string {
	return redact.StringWithoutMarkers(e)
}

// SafeFormat implements redact.SafeFormatter.
func (e Edge) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%d-%d", redact.SafeInt(e.Lo), redact.SafeInt(e.Hi))
}

// DirectedEdge is an ordered vertex pair, as produced by walking an Euler
// tour from a marker occurrence to its successor.
type DirectedEdge struct {
	From, To int32
}

// Edge returns the canonical key of the pair.
func (d DirectedEdge) Edge() Edge {
	return MakeEdge(d.From, d.To)
}

// WeakEdge is a non-tree edge together with its multiplicity.
type WeakEdge struct {
	From, To int32
	Count    int32
}
