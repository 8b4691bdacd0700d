// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package forest

import (
	"github.com/cockroachdb/dyncon/internal/base"
	"github.com/cockroachdb/dyncon/internal/ettree"
)

// LowerLevel clears the level flag of every marker in the tree rooted at
// root and returns, for each cleared marker, the pair (marker vertex,
// successor vertex). Every tree edge whose level was this forest's level
// contributes two pairs, one per direction; callers keep the pair with From <
// To when reinserting the edge one level down.
func (f *Forest) LowerLevel(root ettree.Handle) []base.DirectedEdge {
	return f.lowerLevel(root, nil)
}

func (f *Forest) lowerLevel(h ettree.Handle, out []base.DirectedEdge) []base.DirectedEdge {
	a := f.arena
	if !a.LevelSub(h) {
		return out
	}
	out = f.lowerLevel(a.Left(h), out)
	out = f.lowerLevel(a.Right(h), out)
	if a.LevelHere(h) {
		out = append(out, base.DirectedEdge{From: a.Vertex(h), To: a.Vertex(a.Next(h))})
		a.SetLevelHere(h, false)
	}
	a.Update(h)
	return out
}

// weakSearch accumulates the outcome of SearchWeak.
type weakSearch struct {
	demoted     []base.WeakEdge
	replacement base.WeakEdge
	found       bool
	scratch     []weakEntry
}

// SearchWeak looks for a weak edge leaving the tree rooted at root. Every weak
// edge it inspects is removed from this level. Edges whose endpoints both lie
// in the tree are returned in demoted. The first edge found whose other
// endpoint lies in a different tree is returned as the replacement, and ends
// the search.
func (f *Forest) SearchWeak(
	root ettree.Handle,
) (demoted []base.WeakEdge, replacement base.WeakEdge, found bool) {
	var s weakSearch
	f.searchWeak(root, &s)
	return s.demoted, s.replacement, s.found
}

func (f *Forest) searchWeak(h ettree.Handle, s *weakSearch) {
	a := f.arena
	if !a.WeakSub(h) {
		return
	}
	f.searchWeak(a.Left(h), s)
	if !s.found {
		f.searchWeak(a.Right(h), s)
	}
	if !s.found && a.WeakHere(h) {
		f.scanWeak(h, s)
	}
}

// scanWeak consumes the weak edges of the vertex whose representative is h,
// in ascending neighbour order, stopping after the first edge that leaves
// h's tree.
func (f *Forest) scanWeak(h ettree.Handle, s *weakSearch) {
	x := f.arena.Vertex(h)
	s.scratch = s.scratch[:0]
	f.weak.AscendRange(weakEntry{from: x}, weakEntry{from: x + 1}, func(e weakEntry) bool {
		s.scratch = append(s.scratch, e)
		if !f.Connected(x, e.to) {
			s.found = true
			return false
		}
		return true
	})
	for i, e := range s.scratch {
		w := base.WeakEdge{From: e.from, To: e.to, Count: f.removeWeakAll(e.from, e.to)}
		if s.found && i == len(s.scratch)-1 {
			s.replacement = w
		} else {
			s.demoted = append(s.demoted, w)
		}
	}
}
