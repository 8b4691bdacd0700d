// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package randvar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUniform(t *testing.T) {
	g := NewUniform(NewRand(1), 3, 7)
	seen := make(map[uint64]bool)
	for i := 0; i < 1000; i++ {
		v := g.Uint64()
		require.GreaterOrEqual(t, v, uint64(3))
		require.LessOrEqual(t, v, uint64(7))
		seen[v] = true
	}
	require.Len(t, seen, 5)
}

func TestZipf(t *testing.T) {
	_, err := NewZipf(nil, 5, 4, defaultTheta)
	require.Error(t, err)
	_, err = NewZipf(nil, 0, 4, 1.0)
	require.Error(t, err)

	z, err := NewZipf(NewRand(1), 0, 99, defaultTheta)
	require.NoError(t, err)
	counts := make([]int, 100)
	for i := 0; i < 10000; i++ {
		v := z.Uint64()
		require.Less(t, v, uint64(100))
		counts[v]++
	}
	require.Greater(t, counts[0], counts[50])
	require.Greater(t, counts[0], counts[99])
}

func TestParse(t *testing.T) {
	for _, name := range []string{"uniform", "zipf", "Zipf"} {
		g, err := Parse(name, NewRand(1), 10)
		require.NoError(t, err)
		for i := 0; i < 100; i++ {
			require.Less(t, g.Uint64(), uint64(10))
		}
	}
	_, err := Parse("normal", NewRand(1), 10)
	require.Error(t, err)
	_, err = Parse("uniform", NewRand(1), 0)
	require.Error(t, err)
}
