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

// Batch evaluates segment pairs with the twelve-scalar kernel. Its
// EvaluateBatch method runs many pairs at once in structure-of-arrays form.
type Batch struct {
	Policy DegeneracyPolicy
}

// Contribution returns the signed writhe contribution of the pair (s1, s2).
func (k Batch) Contribution(s1, s2 Segment) float64 {
	return BatchContributionPolicy(k.Policy,
		s1.Start.X, s1.Start.Y, s1.Start.Z,
		s1.End.X, s1.End.Y, s1.End.Z,
		s2.Start.X, s2.Start.Y, s2.Start.Z,
		s2.End.X, s2.End.Y, s2.End.Z)
}

// BatchContribution returns the writhe contribution of the segment from
// (x1,y1,z1) to (x2,y2,z2) paired with the segment from (x3,y3,z3) to
// (x4,y4,z4). Only exactly zero lengths are degenerate.
//
// The function uses plain scalars and straight-line code only, so it can be
// evaluated independently for every pair of a large batch.
func BatchContribution(x1, y1, z1, x2, y2, z2, x3, y3, z3, x4, y4, z4 float64) float64 {
	return batchContribution(0, x1, y1, z1, x2, y2, z2, x3, y3, z3, x4, y4, z4)
}

// BatchContributionNearZero is BatchContribution with lengths below
// NearZeroThreshold treated as degenerate.
func BatchContributionNearZero(x1, y1, z1, x2, y2, z2, x3, y3, z3, x4, y4, z4 float64) float64 {
	return batchContribution(NearZeroThreshold, x1, y1, z1, x2, y2, z2, x3, y3, z3, x4, y4, z4)
}

// BatchContributionPolicy is BatchContribution under an arbitrary policy.
func BatchContributionPolicy(p DegeneracyPolicy, x1, y1, z1, x2, y2, z2, x3, y3, z3, x4, y4, z4 float64) float64 {
	return batchContribution(p.Threshold, x1, y1, z1, x2, y2, z2, x3, y3, z3, x4, y4, z4)
}

func batchContribution(threshold, x1, y1, z1, x2, y2, z2, x3, y3, z3, x4, y4, z4 float64) float64 {
	// Segments a->b and c->d.
	abx := x2 - x1
	aby := y2 - y1
	abz := z2 - z1
	cdx := x4 - x3
	cdy := y4 - y3
	cdz := z4 - z3

	// Connecting vectors.
	acx := x3 - x1
	acy := y3 - y1
	acz := z3 - z1
	bcx := x3 - x2
	bcy := y3 - y2
	bcz := z3 - z2
	bdx := x4 - x2
	bdy := y4 - y2
	bdz := z4 - z2
	adx := x4 - x1
	ady := y4 - y1
	adz := z4 - z1

	return connectedContribution(threshold,
		math.Sqrt(abx*abx+aby*aby+abz*abz),
		math.Sqrt(cdx*cdx+cdy*cdy+cdz*cdz),
		acx, acy, acz, math.Sqrt(acx*acx+acy*acy+acz*acz),
		bcx, bcy, bcz, math.Sqrt(bcx*bcx+bcy*bcy+bcz*bcz),
		bdx, bdy, bdz, math.Sqrt(bdx*bdx+bdy*bdy+bdz*bdz),
		adx, ady, adz, math.Sqrt(adx*adx+ady*ady+adz*adz))
}

// connectedContribution is the closed-form tail shared by the scalar batch
// kernel and the SIMD batch path. It takes both segment lengths and the four
// connecting vectors with their lengths. The four corner blocks are written
// out one by one.
func connectedContribution(threshold, lab, lcd,
	acx, acy, acz, lac,
	bcx, bcy, bcz, lbc,
	bdx, bdy, bdz, lbd,
	adx, ady, adz, lad float64) float64 {
	if lab == 0 || lab < threshold || lcd == 0 || lcd < threshold ||
		lac == 0 || lac < threshold || lbc == 0 || lbc < threshold ||
		lbd == 0 || lbd < threshold || lad == 0 || lad < threshold {
		return 0
	}

	eacx := acx / lac
	eacy := acy / lac
	eacz := acz / lac
	ebcx := bcx / lbc
	ebcy := bcy / lbc
	ebcz := bcz / lbc
	ebdx := bdx / lbd
	ebdy := bdy / lbd
	ebdz := bdz / lbd
	eadx := adx / lad
	eady := ady / lad
	eadz := adz / lad

	// The six distinct dot products of the cycle.
	acbc := eacx*ebcx + eacy*ebcy + eacz*ebcz
	bcbd := ebcx*ebdx + ebcy*ebdy + ebcz*ebdz
	acbd := eacx*ebdx + eacy*ebdy + eacz*ebdz
	bdad := ebdx*eadx + ebdy*eady + ebdz*eadz
	bcad := ebcx*eadx + ebcy*eady + ebcz*eadz
	adac := eadx*eacx + eady*eacy + eadz*eacz

	// Corner at e_bc: (e_ac, e_bc, e_bd).
	cos1 := acbc*bcbd - acbd
	sin1 := (eacy*ebcz-eacz*ebcy)*ebdx + (eacz*ebcx-eacx*ebcz)*ebdy + (eacx*ebcy-eacy*ebcx)*ebdz
	var t1 float64
	if cos1 > 0 {
		t1 = math.Atan(sin1 / cos1)
	} else if cos1 < 0 {
		if sin1 > 0 {
			t1 = math.Atan(sin1/cos1) + math.Pi
		} else {
			t1 = math.Atan(sin1/cos1) - math.Pi
		}
	} else if sin1 > 0 {
		t1 = math.Pi / 2
	} else {
		t1 = -math.Pi / 2
	}

	// Corner at e_bd: (e_bc, e_bd, e_ad).
	cos2 := bcbd*bdad - bcad
	sin2 := (ebcy*ebdz-ebcz*ebdy)*eadx + (ebcz*ebdx-ebcx*ebdz)*eady + (ebcx*ebdy-ebcy*ebdx)*eadz
	var t2 float64
	if cos2 > 0 {
		t2 = math.Atan(sin2 / cos2)
	} else if cos2 < 0 {
		if sin2 > 0 {
			t2 = math.Atan(sin2/cos2) + math.Pi
		} else {
			t2 = math.Atan(sin2/cos2) - math.Pi
		}
	} else if sin2 > 0 {
		t2 = math.Pi / 2
	} else {
		t2 = -math.Pi / 2
	}

	// Corner at e_ad: (e_bd, e_ad, e_ac).
	cos3 := bdad*adac - acbd
	sin3 := (ebdy*eadz-ebdz*eady)*eacx + (ebdz*eadx-ebdx*eadz)*eacy + (ebdx*eady-ebdy*eadx)*eacz
	var t3 float64
	if cos3 > 0 {
		t3 = math.Atan(sin3 / cos3)
	} else if cos3 < 0 {
		if sin3 > 0 {
			t3 = math.Atan(sin3/cos3) + math.Pi
		} else {
			t3 = math.Atan(sin3/cos3) - math.Pi
		}
	} else if sin3 > 0 {
		t3 = math.Pi / 2
	} else {
		t3 = -math.Pi / 2
	}

	// Corner at e_ac: (e_ad, e_ac, e_bc).
	cos4 := adac*acbc - bcad
	sin4 := (eady*eacz-eadz*eacy)*ebcx + (eadz*eacx-eadx*eacz)*ebcy + (eadx*eacy-eady*eacx)*ebcz
	var t4 float64
	if cos4 > 0 {
		t4 = math.Atan(sin4 / cos4)
	} else if cos4 < 0 {
		if sin4 > 0 {
			t4 = math.Atan(sin4/cos4) + math.Pi
		} else {
			t4 = math.Atan(sin4/cos4) - math.Pi
		}
	} else if sin4 > 0 {
		t4 = math.Pi / 2
	} else {
		t4 = -math.Pi / 2
	}

	s := t1 + t2 + t3 + t4

	// Three-way sign, see sign3.
	var sgn float64
	if d := math.Abs(s) - s; d > s {
		sgn = -1
	} else if d < s {
		sgn = 1
	}
	return sgn*2*math.Pi - s
}
