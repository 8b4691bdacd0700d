// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ettree

// Update recomputes the aggregate of h from its children and its own flags,
// and points the children's parent slots at h.
func (a *Arena) Update(h Handle) {
	n := &a.nodes[h]
	agg := aggregate{
		size:     1,
		weakSub:  n.weakHere,
		levelSub: n.levelHere,
	}
	if l := n.left; l != Nil {
		c := &a.nodes[l]
		c.parent = h
		agg.size += c.agg.size
		agg.weakSub = agg.weakSub || c.agg.weakSub
		agg.levelSub = agg.levelSub || c.agg.levelSub
	}
	if r := n.right; r != Nil {
		c := &a.nodes[r]
		c.parent = h
		agg.size += c.agg.size
		agg.weakSub = agg.weakSub || c.agg.weakSub
		agg.levelSub = agg.levelSub || c.agg.levelSub
	}
	n.agg = agg
}

// GoUp refreshes the aggregates of h and of every ancestor of h.
func (a *Arena) GoUp(h Handle) {
	for ; h != Nil; h = a.nodes[h].parent {
		a.Update(h)
	}
}

// Merge concatenates the tours rooted at left and right and returns the root
// of the result. Either argument may be Nil.
func (a *Arena) Merge(left, right Handle) Handle {
	if left == Nil {
		return right
	}
	if right == Nil {
		return left
	}
	if a.nodes[left].priority > a.nodes[right].priority {
		child := a.Merge(a.nodes[left].right, right)
		a.nodes[left].right = child
		a.Update(left)
		a.nodes[left].parent = Nil
		return left
	}
	child := a.Merge(left, a.nodes[right].left)
	a.nodes[right].left = child
	a.Update(right)
	a.nodes[right].parent = Nil
	return right
}

// Split cuts the tour containing h immediately before h. It returns the root
// of everything before h and the root of h and everything after it.
//
// The cut is performed bottom-up: h's left subtree seeds the left piece and
// h itself seeds the right piece, then each ancestor on the path to the root
// is attached to whichever piece it belongs to.
func (a *Arena) Split(h Handle) (left, right Handle) {
	left = a.nodes[h].left
	a.nodes[h].left = Nil
	a.Update(h)
	right = h

	cur := h
	parent := a.nodes[h].parent
	for parent != Nil {
		next := a.nodes[parent].parent
		if a.nodes[parent].left == cur {
			// The parent and its right subtree follow h.
			a.nodes[parent].left = right
			a.Update(parent)
			right = parent
		} else {
			// The parent and its left subtree precede h.
			a.nodes[parent].right = left
			a.Update(parent)
			left = parent
		}
		cur = parent
		parent = next
	}
	if left != Nil {
		a.nodes[left].parent = Nil
	}
	a.nodes[right].parent = Nil
	return left, right
}

// Root returns the root of the tree containing h.
func (a *Arena) Root(h Handle) Handle {
	for a.nodes[h].parent != Nil {
		h = a.nodes[h].parent
	}
	return h
}

// First returns the leftmost occurrence in the subtree rooted at h.
func (a *Arena) First(h Handle) Handle {
	for a.nodes[h].left != Nil {
		h = a.nodes[h].left
	}
	return h
}

// Last returns the rightmost occurrence in the subtree rooted at h.
func (a *Arena) Last(h Handle) Handle {
	for a.nodes[h].right != Nil {
		h = a.nodes[h].right
	}
	return h
}

// Next returns the in-order successor of h, or Nil if h is the last
// occurrence of its tour.
func (a *Arena) Next(h Handle) Handle {
	if r := a.nodes[h].right; r != Nil {
		return a.First(r)
	}
	for {
		p := a.nodes[h].parent
		if p == Nil || a.nodes[p].left == h {
			return p
		}
		h = p
	}
}

// Index returns the zero-based position of h within its tour.
func (a *Arena) Index(h Handle) int {
	idx := a.Size(a.nodes[h].left)
	for {
		p := a.nodes[h].parent
		if p == Nil {
			return idx
		}
		if a.nodes[p].right == h {
			idx += a.Size(a.nodes[p].left) + 1
		}
		h = p
	}
}

// Walk calls fn for every occurrence of the subtree rooted at h, in tour
// order. Iteration stops early if fn returns false.
func (a *Arena) Walk(h Handle, fn func(Handle) bool) bool {
	if h == Nil {
		return true
	}
	return a.Walk(a.nodes[h].left, fn) && fn(h) && a.Walk(a.nodes[h].right, fn)
}
