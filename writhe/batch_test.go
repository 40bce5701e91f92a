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

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestBaseDifferenceBatch(t *testing.T) {
	// 13 lanes leaves a tail for every vector width.
	const n = 13
	px, py, pz := make([]float64, n), make([]float64, n), make([]float64, n)
	qx, qy, qz := make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		px[i], py[i], pz[i] = float64(i), float64(2*i), float64(-i)
		qx[i], qy[i], qz[i] = 1, float64(i*i), 0.5
	}
	dx, dy, dz := make([]float64, n), make([]float64, n), make([]float64, n)
	BaseDifferenceBatch(px, py, pz, qx, qy, qz, dx, dy, dz)

	wantX, wantY, wantZ := make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		wantX[i], wantY[i], wantZ[i] = qx[i]-px[i], qy[i]-py[i], qz[i]-pz[i]
	}
	if diff := cmp.Diff(wantX, dx); diff != "" {
		t.Errorf("x difference mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantY, dy); diff != "" {
		t.Errorf("y difference mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantZ, dz); diff != "" {
		t.Errorf("z difference mismatch (-want +got):\n%s", diff)
	}
}

func TestBaseNorm2Batch(t *testing.T) {
	x := []float64{3, 0, 1, 2, -1, 0, 0}
	y := []float64{4, 0, 1, 3, -1, 5, 0}
	z := []float64{0, 0, 1, 6, -1, 12, 0}
	dst := make([]float64, len(x))
	BaseNorm2Batch(x, y, z, dst)
	want := []float64{25, 0, 3, 49, 3, 169, 0}
	if diff := cmp.Diff(want, dst, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("BaseNorm2Batch mismatch (-want +got):\n%s", diff)
	}
}

func TestBaseSumBatch(t *testing.T) {
	tests := [][]float64{
		nil,
		{1},
		{1, 2, 3},
		{0.5, -0.25, 8, 1e-3, 7, 7, 7, 7, 7, -40, 2.5},
	}
	for _, xs := range tests {
		var want float64
		for _, x := range xs {
			want += x
		}
		if got := BaseSumBatch(xs); math.Abs(got-want) > 1e-12 {
			t.Errorf("BaseSumBatch(%v) = %v, want %v", xs, got, want)
		}
	}
}

func TestEvaluateBatchMatchesScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	for _, p := range []DegeneracyPolicy{ExactZero, NearZero} {
		k := Batch{Policy: p}
		for _, size := range []int{1, 3, 8, 31, 257} {
			b := NewPairBatch(4)
			want := make([]float64, size)
			for i := 0; i < size; i++ {
				s1, s2 := randomSegment(rng, 50), randomSegment(rng, 50)
				if i%5 == 0 {
					// Shared endpoint.
					s2.Start = s1.End
				}
				b.Append(s1, s2)
				want[i] = DotCross{Policy: p}.Contribution(s1, s2)
			}
			if b.Len() != size {
				t.Fatalf("Len() = %d, want %d", b.Len(), size)
			}

			got := make([]float64, size)
			if n := k.EvaluateBatch(b, got); n != size {
				t.Fatalf("EvaluateBatch wrote %d pairs, want %d", n, size)
			}
			if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("%v size %d: EvaluateBatch mismatch (-scalar +batch):\n%s", p, size, diff)
			}
			for i := 0; i < size; i += 5 {
				if got[i] != 0 {
					t.Errorf("%v size %d: pair %d shares an endpoint, got %v, want 0", p, size, i, got[i])
				}
			}
			if s, w := SumBatch(got), CompensatedSum(want); math.Abs(s-w) > 1e-9 {
				t.Errorf("%v size %d: SumBatch = %v, want %v", p, size, s, w)
			}
		}
	}
}

func TestEvaluateBatchShortDst(t *testing.T) {
	b := NewPairBatch(0)
	s1 := SegmentFromCoords(-1, 0, 0, 1, 0, 0)
	s2 := SegmentFromCoords(0, -1, 1, 0, 1, 1)
	for i := 0; i < 4; i++ {
		b.Append(s1, s2)
	}
	dst := make([]float64, 2)
	if n := (Batch{}).EvaluateBatch(b, dst); n != 2 {
		t.Fatalf("EvaluateBatch wrote %d pairs, want 2", n)
	}
	for i, got := range dst {
		if want := -2 * math.Pi / 3; math.Abs(got-want) > 1e-12 {
			t.Errorf("dst[%d] = %v, want %v", i, got, want)
		}
	}

	b.Reset()
	if b.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", b.Len())
	}
	if n := (Batch{}).EvaluateBatch(b, dst); n != 0 {
		t.Errorf("EvaluateBatch on an empty batch wrote %d pairs, want 0", n)
	}
}

func TestBatchContributionNearZeroThreshold(t *testing.T) {
	// c sits 1e-17 from a.
	args := [12]float64{0, 0, 0, 1, 0, 0, 1e-17, 0, 0, 0, 1, 1}
	if got := BatchContributionNearZero(args[0], args[1], args[2], args[3], args[4], args[5],
		args[6], args[7], args[8], args[9], args[10], args[11]); got != 0 {
		t.Errorf("BatchContributionNearZero = %v, want 0", got)
	}
	got := BatchContribution(args[0], args[1], args[2], args[3], args[4], args[5],
		args[6], args[7], args[8], args[9], args[10], args[11])
	if math.IsNaN(got) || got == 0 {
		t.Errorf("BatchContribution = %v, want a finite nonzero value", got)
	}
	// Exactly coincident points are degenerate for both.
	if got := BatchContribution(0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 1, 1); got != 0 {
		t.Errorf("BatchContribution with a shared start = %v, want 0", got)
	}
}
