// Copyright 2017 The Cockroach Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License. See the AUTHORS file
// for names of contributors.
//
// ZipfGenerator implements the Incrementing Zipfian Random Number Generator from
// [1]: "Quickly Generating Billion-Record Synthetic Databases"
// by Gray, Sundaresan, Englert, Baclawski, and Weinberger, SIGMOD 1994.

package randvar

import (
	"math"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/rand"
)

const defaultTheta = 0.99

// Zipf is a random number generator that generates random numbers from a Zipf
// distribution over [min, max]. Unlike rand.Zipf it supports all values of
// theta other than 1. Low values are the most frequent, so in a workload the
// low-numbered vertices become hubs.
type Zipf struct {
	rng *rand.Rand
	// Supplied constants.
	theta    float64
	min, max uint64
	// Internally computed constants.
	alpha, zeta2, eta, zetaN float64
}

var _ Static = (*Zipf)(nil)

// NewZipf constructs a new Zipf generator with the given parameters. Returns
// an error if the parameters are outside the accepted range.
func NewZipf(rng *rand.Rand, min, max uint64, theta float64) (*Zipf, error) {
	if min > max {
		return nil, errors.Newf("randvar: min %d > max %d", min, max)
	}
	if theta < 0.0 || theta == 1.0 {
		return nil, errors.New("randvar: 0 < theta, and theta != 1")
	}

	z := &Zipf{
		rng:   ensureRand(rng),
		theta: theta,
		min:   min,
		max:   max,
	}
	z.zeta2 = computeZeta(2, theta)
	z.zetaN = computeZeta(max+1-min, theta)
	z.alpha = 1.0 / (1.0 - theta)
	z.eta = (1 - math.Pow(2.0/float64(z.max+1-z.min), 1.0-theta)) / (1.0 - z.zeta2/z.zetaN)
	return z, nil
}

// computeZeta computes the value
// zeta(n, theta) = (1/1)^theta + (1/2)^theta + (1/3)^theta + ... + (1/n)^theta
func computeZeta(n uint64, theta float64) float64 {
	var sum float64
	for i := uint64(1); i <= n; i++ {
		sum += 1.0 / math.Pow(float64(i), theta)
	}
	return sum
}

// Uint64 draws a new value between min and max, with probabilities according
// to the Zipf distribution.
func (z *Zipf) Uint64() uint64 {
	u := z.rng.Float64()
	uz := u * z.zetaN
	var result uint64
	if uz < 1.0 {
		result = z.min
	} else if uz < 1.0+math.Pow(0.5, z.theta) {
		result = z.min + 1
	} else {
		spread := float64(z.max + 1 - z.min)
		result = z.min + uint64(int64(spread*math.Pow(z.eta*u-z.eta+1.0, z.alpha)))
	}
	if result > z.max {
		result = z.max
	}
	return result
}
