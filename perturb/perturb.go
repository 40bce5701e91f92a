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

// Package perturb displaces residues of a polygonal chain to probe how
// sensitive its writhe is to local changes of the backbone.
package perturb

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/golang/geo/r3"

	"github.com/akhenakh/writhe/writhe"
)

// ErrResidueIndex is returned for a displacement of a residue the chain
// does not have.
var ErrResidueIndex = errors.New("perturb: residue index out of range")

// Apply returns a copy of c with residue k moved by displacements[k], and
// the sorted indices of the segments that differ from those of c.
//
// Residue k is vertex k of the chain: the start of segment k and the end of
// segment k-1. Each segment endpoint is displaced on its own, so a chain
// that was not continuous stays so at the same places. c is not modified.
func Apply(c writhe.Chain, displacements map[int]r3.Vector) (writhe.Chain, []int, error) {
	n := c.Len()
	for k := range displacements {
		// A chain of n segments has n+1 residues.
		if k < 0 || k > n || n == 0 {
			return writhe.Chain{}, nil, fmt.Errorf("%w: %d of %d", ErrResidueIndex, k, n+1)
		}
	}

	out := writhe.Chain{ID: c.ID, Segments: make([]writhe.Segment, n)}
	copy(out.Segments, c.Segments)
	for k, d := range displacements {
		if k < n {
			out.Segments[k].Start = out.Segments[k].Start.Add(d)
		}
		if k > 0 {
			out.Segments[k-1].End = out.Segments[k-1].End.Add(d)
		}
	}
	return out, Differing(c, out), nil
}

// Differing returns the sorted indices i at which the segments of a and b
// are not equal. Segments beyond the shorter chain count as differing.
func Differing(a, b writhe.Chain) []int {
	var idx []int
	n := max(a.Len(), b.Len())
	for i := 0; i < n; i++ {
		if i >= a.Len() || i >= b.Len() || a.Segments[i] != b.Segments[i] {
			idx = append(idx, i)
		}
	}
	return idx
}

// Random returns a displacement for each listed residue, drawn uniformly
// from the cube of half-width magnitude around the origin.
func Random(rng *rand.Rand, residues []int, magnitude float64) map[int]r3.Vector {
	d := make(map[int]r3.Vector, len(residues))
	for _, k := range residues {
		d[k] = r3.Vector{
			X: (rng.Float64()*2 - 1) * magnitude,
			Y: (rng.Float64()*2 - 1) * magnitude,
			Z: (rng.Float64()*2 - 1) * magnitude,
		}
	}
	return d
}

// PickResidues returns count distinct residue indices of a chain with n
// segments, chosen with rng and sorted. count is capped at n+1.
func PickResidues(rng *rand.Rand, n, count int) []int {
	if n <= 0 || count <= 0 {
		return nil
	}
	picked := rng.Perm(n + 1)
	if count < len(picked) {
		picked = picked[:count]
	}
	sort.Ints(picked)
	return picked
}
