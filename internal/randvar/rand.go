// Copyright 2019 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package randvar provides the random variables used to pick the vertices of
// generated workloads.
package randvar

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/rand"
)

// Static models a random variable that pulls from a distribution with static
// bounds.
type Static interface {
	Uint64() uint64
}

// NewRand creates a new random number generator. A zero seed seeds it from
// the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}

func ensureRand(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return NewRand(0)
}

// Parse returns the distribution named by s over [0, n). The recognized
// names are "uniform" and "zipf".
func Parse(s string, rng *rand.Rand, n uint64) (Static, error) {
	if n == 0 {
		return nil, errors.Newf("randvar: empty range for %q", s)
	}
	switch strings.ToLower(s) {
	case "uniform":
		return NewUniform(rng, 0, n-1), nil
	case "zipf":
		return NewZipf(rng, 0, n-1, defaultTheta)
	default:
		return nil, errors.Newf("randvar: unknown distribution %q", s)
	}
}
