// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import "github.com/cockroachdb/errors"

// ErrVertexOutOfRange is returned when an operation names a vertex that is
// not in [0, vertexCount).
var ErrVertexOutOfRange = errors.New("dyncon: vertex out of range")

// ErrEdgeNotFound is returned when removing an edge that is not present in
// the graph.
var ErrEdgeNotFound = errors.New("dyncon: edge not found")

// ErrSelfLoop is returned when inserting an edge whose endpoints coincide.
var ErrSelfLoop = errors.New("dyncon: self loop")

// VertexOutOfRangef returns an error marked as ErrVertexOutOfRange.
func VertexOutOfRangef(v, n int) error {
	return errors.Mark(errors.Newf("dyncon: vertex %d out of range [0, %d)", v, n), ErrVertexOutOfRange)
}

// EdgeNotFoundf returns an error marked as ErrEdgeNotFound.
func EdgeNotFoundf(e Edge) error {
	return errors.Mark(errors.Newf("dyncon: edge %s not found", e), ErrEdgeNotFound)
}
