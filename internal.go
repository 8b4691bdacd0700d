// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package dyncon

import "github.com/cockroachdb/dyncon/internal/base"

// Edge exports the base.Edge type.
type Edge = base.Edge

// MakeEdge exports the base.MakeEdge function.
func MakeEdge(u, v int) Edge {
	return base.MakeEdge(int32(u), int32(v))
}

// Logger exports the base.Logger type.
type Logger = base.Logger

// DefaultLogger logs to the Go stdlib logs.
var DefaultLogger = base.DefaultLogger{}

// NoopLogger discards informational messages.
var NoopLogger = base.NoopLogger{}

// ErrVertexOutOfRange is returned when an operation names a vertex that is
// not in [0, vertexCount).
var ErrVertexOutOfRange = base.ErrVertexOutOfRange

// ErrEdgeNotFound is returned by RemoveEdge and EdgeLevel when the edge is
// not present.
var ErrEdgeNotFound = base.ErrEdgeNotFound

// ErrSelfLoop is returned by AddEdge when both endpoints are the same vertex.
var ErrSelfLoop = base.ErrSelfLoop
