// Copyright 2023 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS-IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package writhe

import "math"

// Indices of the six difference vectors of a pair in batchWork.
const (
	vecAB = iota
	vecCD
	vecAC
	vecBC
	vecBD
	vecAD
	numVecs
)

// vecEnds lists, for each difference vector, the endpoints it runs between:
// 0 = a, 1 = b (segment 1), 2 = c, 3 = d (segment 2).
var vecEnds = [numVecs][2]int{
	vecAB: {0, 1},
	vecCD: {2, 3},
	vecAC: {0, 2},
	vecBC: {1, 2},
	vecBD: {1, 3},
	vecAD: {0, 3},
}

// PairBatch holds segment pairs in structure-of-arrays layout: one column per
// endpoint coordinate. It is reused across batches with Reset and is not safe
// for concurrent use.
type PairBatch struct {
	// pts[e][axis] is the column of coordinate axis of endpoint e.
	pts [4][3][]float64

	// Scratch columns for the difference vectors and their squared norms.
	vec [numVecs][3][]float64
	n2  [numVecs][]float64
}

// NewPairBatch returns an empty batch with room for capacity pairs.
func NewPairBatch(capacity int) *PairBatch {
	b := &PairBatch{}
	for e := range b.pts {
		for axis := range b.pts[e] {
			b.pts[e][axis] = make([]float64, 0, capacity)
		}
	}
	return b
}

// Append adds the pair (s1, s2) to the batch.
func (b *PairBatch) Append(s1, s2 Segment) {
	for e, p := range [4]Segment{s1, s1, s2, s2} {
		v := p.Start
		if e == 1 || e == 3 {
			v = p.End
		}
		b.pts[e][0] = append(b.pts[e][0], v.X)
		b.pts[e][1] = append(b.pts[e][1], v.Y)
		b.pts[e][2] = append(b.pts[e][2], v.Z)
	}
}

// Len returns the number of pairs in the batch.
func (b *PairBatch) Len() int { return len(b.pts[0][0]) }

// Reset empties the batch, keeping its storage.
func (b *PairBatch) Reset() {
	for e := range b.pts {
		for axis := range b.pts[e] {
			b.pts[e][axis] = b.pts[e][axis][:0]
		}
	}
}

// grow makes every scratch column at least n long.
func (b *PairBatch) grow(n int) {
	for i := range b.vec {
		for axis := range b.vec[i] {
			if cap(b.vec[i][axis]) < n {
				b.vec[i][axis] = make([]float64, n)
			}
			b.vec[i][axis] = b.vec[i][axis][:n]
		}
		if cap(b.n2[i]) < n {
			b.n2[i] = make([]float64, n)
		}
		b.n2[i] = b.n2[i][:n]
	}
}

// EvaluateBatch writes the contribution of every pair in b to dst and
// returns the number of pairs written, min(b.Len(), len(dst)).
//
// The difference vectors and their squared lengths are computed for the
// whole batch with SIMD passes. The rest of the closed form runs per pair
// and is the same code BatchContribution uses.
func (k Batch) EvaluateBatch(b *PairBatch, dst []float64) int {
	n := min(b.Len(), len(dst))
	if n == 0 {
		return 0
	}
	b.grow(n)

	for i, ends := range vecEnds {
		p, q := b.pts[ends[0]], b.pts[ends[1]]
		v := b.vec[i]
		BaseDifferenceBatch(p[0][:n], p[1][:n], p[2][:n], q[0][:n], q[1][:n], q[2][:n], v[0], v[1], v[2])
		BaseNorm2Batch(v[0], v[1], v[2], b.n2[i])
	}

	ac, bc, bd, ad := b.vec[vecAC], b.vec[vecBC], b.vec[vecBD], b.vec[vecAD]
	for j := 0; j < n; j++ {
		dst[j] = connectedContribution(k.Policy.Threshold,
			math.Sqrt(b.n2[vecAB][j]), math.Sqrt(b.n2[vecCD][j]),
			ac[0][j], ac[1][j], ac[2][j], math.Sqrt(b.n2[vecAC][j]),
			bc[0][j], bc[1][j], bc[2][j], math.Sqrt(b.n2[vecBC][j]),
			bd[0][j], bd[1][j], bd[2][j], math.Sqrt(b.n2[vecBD][j]),
			ad[0][j], ad[1][j], ad[2][j], math.Sqrt(b.n2[vecAD][j]))
	}
	return n
}

// SumBatch returns the sum of a column of contributions.
func SumBatch(contributions []float64) float64 {
	return BaseSumBatch(contributions)
}
