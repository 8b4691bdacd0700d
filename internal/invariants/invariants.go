// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package invariants exposes build-tag gated assertions. Expensive structural
// checks are only performed when the binary is built with the "invariants" or
// "race" build tags.
package invariants

import "golang.org/x/exp/rand"

// Sometimes returns true percent% of the time if we were built with the
// "invariants" or "race" build tags. Otherwise it always returns false.
func Sometimes(percent int) bool {
	return Enabled && rand.Uint32()%100 < uint32(percent)
}

// Integer is a constraint that permits any integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}
