// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/cockroachdb/crlib/testutils/leaktest"
	"github.com/stretchr/testify/require"
)

func TestBench(t *testing.T) {
	defer leaktest.AfterTest(t)()

	for _, dist := range []string{"uniform", "zipf"} {
		t.Run(dist, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := benchOptions{
				vertices:    40,
				ops:         3000,
				add:         40,
				remove:      35,
				query:       25,
				dist:        dist,
				seed:        1,
				concurrency: 4,
				verify:      true,
				plot:        true,
			}
			require.NoError(t, runBench(context.Background(), &buf, cfg))
			out := buf.String()
			t.Log(out)
			require.Contains(t, out, "40 vertices, 3000 ops x 4 workers")
			require.Contains(t, out, "OPS/SEC")
			require.Contains(t, out, "query")
			require.Contains(t, out, "NON-TREE")
			require.Contains(t, out, "components (worker 0)")
			require.Contains(t, out, "verify: ok")
		})
	}
}

func TestBenchInvalid(t *testing.T) {
	defer leaktest.AfterTest(t)()

	valid := benchOptions{vertices: 10, ops: 10, add: 1, dist: "uniform", seed: 1, concurrency: 1}
	for _, fn := range []func(o *benchOptions){
		func(o *benchOptions) { o.vertices = 0 },
		func(o *benchOptions) { o.ops = -1 },
		func(o *benchOptions) { o.add = 0 },
		func(o *benchOptions) { o.remove = -1 },
		func(o *benchOptions) { o.concurrency = 0 },
		func(o *benchOptions) { o.dist = "pareto" },
	} {
		cfg := valid
		fn(&cfg)
		var buf bytes.Buffer
		require.Error(t, runBench(context.Background(), &buf, cfg))
	}
	var buf bytes.Buffer
	require.NoError(t, runBench(context.Background(), &buf, valid))
}
