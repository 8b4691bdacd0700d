// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package dyncon provides fully dynamic connectivity for undirected graphs.
//
// A Graph answers whether two vertices are connected while edges are inserted
// and removed, in polylogarithmic amortized time per update. The structure is
// a hierarchy of spanning forests, one per level, each stored as a set of
// Euler tours in balanced search trees. Removing a tree edge triggers a search
// for a replacement among the non-tree edges, pushing inspected edges to
// lower levels so that the work is paid for over the lifetime of each edge.
//
//	g, err := dyncon.New(4, nil)
//	if err != nil {
//		return err
//	}
//	_ = g.AddEdge(0, 1)
//	_ = g.AddEdge(1, 2)
//	ok, _ := g.Connected(0, 2) // true
//	_ = g.RemoveEdge(1, 2)
//	ok, _ = g.Connected(0, 2) // false
package dyncon // import "github.com/cockroachdb/dyncon"
