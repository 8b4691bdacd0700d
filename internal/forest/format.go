// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package forest

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/dyncon/internal/ettree"
)

// FormatTour renders the tour containing v as space-separated vertex ids in
// tour order. Occurrences carrying a level flag are suffixed with '*'.
func (f *Forest) FormatTour(v int32) string {
	var buf strings.Builder
	a := f.arena
	a.Walk(a.Root(f.rep[v]), func(h ettree.Handle) bool {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(strconv.Itoa(int(a.Vertex(h))))
		if a.LevelHere(h) {
			buf.WriteByte('*')
		}
		return true
	})
	return buf.String()
}
