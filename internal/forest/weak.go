// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package forest

import (
	"github.com/cockroachdb/dyncon/internal/invariants"
	"github.com/cockroachdb/errors"
)

// weakEntry is one direction of a weak edge. Entries are ordered by (from,
// to) so that a vertex's neighbours form a contiguous range.
type weakEntry struct {
	from, to int32
	count    int32
}

func weakEntryLess(a, b weakEntry) bool {
	if a.from != b.from {
		return a.from < b.from
	}
	return a.to < b.to
}

// isWeak reports whether v currently has at least one weak edge here.
func (f *Forest) isWeak(v int32) bool {
	return f.degree[v] > 0
}

// updateWeak brings the weak flag of v's representative in line with v's
// weak degree and refreshes the path to the root.
func (f *Forest) updateWeak(v int32) {
	h := f.rep[v]
	if want := f.isWeak(v); f.arena.WeakHere(h) != want {
		f.arena.SetWeakHere(h, want)
		f.arena.GoUp(h)
	}
}

// WeakCount returns the multiplicity of the weak edge (u, v) at this level.
func (f *Forest) WeakCount(u, v int32) int {
	e, ok := f.weak.Get(weakEntry{from: u, to: v})
	if !ok {
		return 0
	}
	return int(e.count)
}

// AddWeak records count copies of the weak edge (u, v).
func (f *Forest) AddWeak(u, v int32, count int32) {
	if u == v || count <= 0 {
		panic(errors.AssertionFailedf("forest: L%d: invalid weak edge %d-%d x%d", f.level, u, v, count))
	}
	f.addDirected(u, v, count)
	f.addDirected(v, u, count)
	f.weakCount += int(count)
	f.updateWeak(u)
	f.updateWeak(v)
}

func (f *Forest) addDirected(from, to, count int32) {
	e, ok := f.weak.Get(weakEntry{from: from, to: to})
	if !ok {
		e = weakEntry{from: from, to: to}
		f.degree[from]++
	}
	e.count += count
	f.weak.ReplaceOrInsert(e)
}

// RemoveWeak removes one copy of the weak edge (u, v). It returns false, and
// changes nothing, if there is no such edge at this level.
func (f *Forest) RemoveWeak(u, v int32) bool {
	e, ok := f.weak.Get(weakEntry{from: u, to: v})
	if !ok {
		return false
	}
	if e.count == 1 {
		f.removeWeakAll(u, v)
		return true
	}
	f.weak.ReplaceOrInsert(weakEntry{from: u, to: v, count: e.count - 1})
	f.weak.ReplaceOrInsert(weakEntry{from: v, to: u, count: e.count - 1})
	f.weakCount = invariants.SafeSub(f.weakCount, 1)
	return true
}

// removeWeakAll removes every copy of the weak edge (u, v) and returns how
// many there were.
func (f *Forest) removeWeakAll(u, v int32) int32 {
	e, ok := f.weak.Delete(weakEntry{from: u, to: v})
	if !ok {
		return 0
	}
	f.weak.Delete(weakEntry{from: v, to: u})
	f.degree[u] = invariants.SafeSub(f.degree[u], 1)
	f.degree[v] = invariants.SafeSub(f.degree[v], 1)
	f.weakCount = invariants.SafeSub(f.weakCount, int(e.count))
	f.updateWeak(u)
	f.updateWeak(v)
	return e.count
}
