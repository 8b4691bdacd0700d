// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package forest

import (
	"github.com/cockroachdb/dyncon/internal/base"
	"github.com/cockroachdb/dyncon/internal/ettree"
	"github.com/cockroachdb/errors"
)

// CheckInvariants verifies the structure of the forest: tree shape and
// aggregates, one representative per vertex, the size of every tour, the
// placement of edge markers and the consistency of the weak-edge index. It
// runs in O(n log n) and is meant for tests and invariants builds.
func (f *Forest) CheckInvariants() error {
	a := f.arena
	n := int32(len(f.rep))
	for v := int32(0); v < n; v++ {
		h := f.rep[v]
		if h == ettree.Nil {
			return errors.AssertionFailedf("L%d: vertex %d has no representative", f.level, v)
		}
		if a.Vertex(h) != v {
			return errors.AssertionFailedf("L%d: representative of %d is an occurrence of %d",
				f.level, v, a.Vertex(h))
		}
	}

	owner := make(map[ettree.Handle]base.Edge, 2*f.edges.Len())
	edgesPerRoot := make(map[ettree.Handle]int)
	var err error
	f.edges.All(func(e base.Edge, m markers) bool {
		for _, h := range [2]ettree.Handle{m.open, m.close} {
			if prev, ok := owner[h]; ok {
				err = errors.AssertionFailedf("L%d: occurrence %d marks both %s and %s", f.level, h, prev, e)
				return false
			}
			owner[h] = e
			next := a.Next(h)
			if next == ettree.Nil {
				err = errors.AssertionFailedf("L%d: marker of %s ends its tour", f.level, e)
				return false
			}
			if got := base.MakeEdge(a.Vertex(h), a.Vertex(next)); got != e {
				err = errors.AssertionFailedf("L%d: marker of %s is followed by %s", f.level, e, got)
				return false
			}
		}
		root := a.Root(m.open)
		if a.Root(m.close) != root {
			err = errors.AssertionFailedf("L%d: markers of %s are in different tours", f.level, e)
			return false
		}
		edgesPerRoot[root]++
		return true
	})
	if err != nil {
		return err
	}

	checked := make(map[ettree.Handle]bool)
	for v := int32(0); v < n; v++ {
		root := a.Root(f.rep[v])
		if checked[root] {
			continue
		}
		checked[root] = true
		if err := f.checkTour(root, owner, edgesPerRoot[root]); err != nil {
			return err
		}
	}
	return f.checkWeak()
}

// checkTour verifies the tour rooted at root.
func (f *Forest) checkTour(root ettree.Handle, owner map[ettree.Handle]base.Edge, edges int) error {
	a := f.arena
	if a.Parent(root) != ettree.Nil {
		return errors.AssertionFailedf("L%d: root %d has a parent", f.level, root)
	}
	if _, err := f.checkSubtree(root); err != nil {
		return err
	}
	reps := 0
	var err error
	a.Walk(root, func(h ettree.Handle) bool {
		v := a.Vertex(h)
		isRep := f.rep[v] == h
		if isRep {
			reps++
		} else if a.Root(f.rep[v]) != root {
			err = errors.AssertionFailedf("L%d: occurrence of %d outside its representative's tour", f.level, v)
			return false
		}
		if want := isRep && f.isWeak(v); a.WeakHere(h) != want {
			err = errors.AssertionFailedf("L%d: weak flag of occurrence of %d is %t, expected %t",
				f.level, v, a.WeakHere(h), want)
			return false
		}
		if _, ok := owner[h]; a.LevelHere(h) && !ok {
			err = errors.AssertionFailedf("L%d: level flag on occurrence of %d that marks no edge", f.level, v)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	first, last := a.First(root), a.Last(root)
	tour := f.FormatTour(a.Vertex(first))
	if size := a.Size(root); size != 2*reps-1 {
		return errors.AssertionFailedf("L%d: tour of %d vertices has %d occurrences: %s",
			f.level, reps, size, tour)
	}
	if edges != reps-1 {
		return errors.AssertionFailedf("L%d: tour of %d vertices has %d tree edges: %s",
			f.level, reps, edges, tour)
	}
	if a.Vertex(first) != a.Vertex(last) {
		return errors.AssertionFailedf("L%d: tour starts at %d but ends at %d: %s",
			f.level, a.Vertex(first), a.Vertex(last), tour)
	}
	if _, ok := owner[last]; ok {
		return errors.AssertionFailedf("L%d: last occurrence of a tour is a marker: %s", f.level, tour)
	}
	return nil
}

// checkSubtree recomputes the aggregate of h bottom-up and compares it with
// the stored one. It also checks parent links.
func (f *Forest) checkSubtree(h ettree.Handle) (size int, err error) {
	if h == ettree.Nil {
		return 0, nil
	}
	a := f.arena
	size = 1
	weak, level := a.WeakHere(h), a.LevelHere(h)
	for _, c := range [2]ettree.Handle{a.Left(h), a.Right(h)} {
		if c == ettree.Nil {
			continue
		}
		if a.Parent(c) != h {
			return 0, errors.AssertionFailedf("L%d: child %d of %d has parent %d", f.level, c, h, a.Parent(c))
		}
		s, err := f.checkSubtree(c)
		if err != nil {
			return 0, err
		}
		size += s
		weak = weak || a.WeakSub(c)
		level = level || a.LevelSub(c)
	}
	if a.Size(h) != size || a.WeakSub(h) != weak || a.LevelSub(h) != level {
		return 0, errors.AssertionFailedf("L%d: stale aggregate at %d: size %d/%d weak %t/%t level %t/%t",
			f.level, h, a.Size(h), size, a.WeakSub(h), weak, a.LevelSub(h), level)
	}
	return size, nil
}

// checkWeak verifies that the weak index is symmetric, that the per-vertex
// degrees match it, and that every weak edge joins two connected vertices.
func (f *Forest) checkWeak() error {
	degree := make([]int32, len(f.rep))
	total := 0
	var err error
	f.weak.Ascend(func(e weakEntry) bool {
		if e.count <= 0 {
			err = errors.AssertionFailedf("L%d: weak edge %d-%d has count %d", f.level, e.from, e.to, e.count)
			return false
		}
		if back, ok := f.weak.Get(weakEntry{from: e.to, to: e.from}); !ok || back.count != e.count {
			err = errors.AssertionFailedf("L%d: weak edge %d-%d is not symmetric", f.level, e.from, e.to)
			return false
		}
		if !f.Connected(e.from, e.to) {
			err = errors.AssertionFailedf("L%d: weak edge %d-%d joins two trees", f.level, e.from, e.to)
			return false
		}
		degree[e.from]++
		total += int(e.count)
		return true
	})
	if err != nil {
		return err
	}
	for v := range degree {
		if degree[v] != f.degree[v] {
			return errors.AssertionFailedf("L%d: vertex %d has weak degree %d, recorded %d",
				f.level, v, degree[v], f.degree[v])
		}
	}
	if total != 2*f.weakCount {
		return errors.AssertionFailedf("L%d: %d weak entries for %d weak edges", f.level, total, f.weakCount)
	}
	return nil
}
