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

package perturb

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"

	"github.com/akhenakh/writhe/writhe"
)

func square() writhe.Chain {
	return writhe.ChainFromPoints("A", []r3.Vector{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 2},
	})
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		d    map[int]r3.Vector
		want []int
	}{
		{"first residue", map[int]r3.Vector{0: {Z: 1}}, []int{0}},
		{"interior residue", map[int]r3.Vector{2: {Z: 1}}, []int{1, 2}},
		{"last residue", map[int]r3.Vector{4: {X: 0.5}}, []int{3}},
		{"two residues", map[int]r3.Vector{1: {Y: 1}, 3: {Y: -1}}, []int{0, 1, 2, 3}},
		{"zero displacement", map[int]r3.Vector{2: {}}, nil},
		{"none", nil, nil},
	}
	for _, test := range tests {
		c := square()
		orig := square()
		got, diff, err := Apply(c, test.d)
		if err != nil {
			t.Fatalf("%s: Apply failed: %v", test.name, err)
		}
		if d := cmp.Diff(test.want, diff); d != "" {
			t.Errorf("%s: differing segments mismatch (-want +got):\n%s", test.name, d)
		}
		if d := cmp.Diff(orig, c); d != "" {
			t.Errorf("%s: Apply modified its input (-want +got):\n%s", test.name, d)
		}
		if !got.Continuous() {
			t.Errorf("%s: perturbed chain is not continuous", test.name)
		}
		if got.ID != c.ID {
			t.Errorf("%s: ID = %q, want %q", test.name, got.ID, c.ID)
		}
	}
}

func TestApplyMovesVertex(t *testing.T) {
	got, _, err := Apply(square(), map[int]r3.Vector{2: {Z: 3}})
	if err != nil {
		t.Fatal(err)
	}
	want := r3.Vector{X: 1, Y: 1, Z: 3}
	if got.Segments[1].End != want || got.Segments[2].Start != want {
		t.Errorf("residue 2 at %v and %v, want %v", got.Segments[1].End, got.Segments[2].Start, want)
	}
}

func TestApplyOutOfRange(t *testing.T) {
	for _, k := range []int{-1, 5, 100} {
		if _, _, err := Apply(square(), map[int]r3.Vector{k: {X: 1}}); !errors.Is(err, ErrResidueIndex) {
			t.Errorf("Apply(residue %d) error = %v, want ErrResidueIndex", k, err)
		}
	}
}

func TestDiffering(t *testing.T) {
	a := square()
	b := writhe.Chain{Segments: a.Segments[:2]}
	if d := cmp.Diff([]int{2, 3}, Differing(a, b)); d != "" {
		t.Errorf("Differing mismatch (-want +got):\n%s", d)
	}
	if got := Differing(a, a); got != nil {
		t.Errorf("Differing(a, a) = %v, want none", got)
	}
}

func TestRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	residues := PickResidues(rng, 4, 3)
	if len(residues) != 3 {
		t.Fatalf("PickResidues returned %v, want 3 residues", residues)
	}
	for i := 1; i < len(residues); i++ {
		if residues[i] <= residues[i-1] {
			t.Errorf("PickResidues returned %v, want sorted distinct indices", residues)
		}
	}
	if got := PickResidues(rng, 4, 50); len(got) != 5 {
		t.Errorf("PickResidues(4, 50) returned %d residues, want 5", len(got))
	}

	d := Random(rng, residues, 0.5)
	if len(d) != len(residues) {
		t.Fatalf("Random returned %d displacements, want %d", len(d), len(residues))
	}
	for k, v := range d {
		if v.Abs().X > 0.5 || v.Abs().Y > 0.5 || v.Abs().Z > 0.5 {
			t.Errorf("displacement of residue %d is %v, outside the cube of half-width 0.5", k, v)
		}
	}

	_, diff, err := Apply(square(), d)
	if err != nil {
		t.Fatal(err)
	}
	if len(diff) == 0 {
		t.Errorf("random perturbation changed no segment")
	}
}
