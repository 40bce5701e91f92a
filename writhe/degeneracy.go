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

import "strconv"

// NearZeroThreshold is the length below which the NearZero policy treats a
// connecting vector or segment as degenerate.
const NearZeroThreshold = 1e-16

// DegeneracyPolicy decides when a segment pair is degenerate. A degenerate
// pair contributes exactly zero. A pair is degenerate when either segment or
// any of the four vectors connecting their endpoints has a degenerate
// length.
//
// A length is degenerate when it is exactly zero or, for a positive
// Threshold, when it is smaller than Threshold.
type DegeneracyPolicy struct {
	Threshold float64
}

var (
	// ExactZero treats only lengths equal to zero as degenerate.
	ExactZero = DegeneracyPolicy{}
	// NearZero treats lengths below NearZeroThreshold as degenerate.
	NearZero = DegeneracyPolicy{Threshold: NearZeroThreshold}
)

// Degenerate reports whether length is degenerate under the policy.
func (p DegeneracyPolicy) Degenerate(length float64) bool {
	return length == 0 || length < p.Threshold
}

func (p DegeneracyPolicy) String() string {
	if p.Threshold <= 0 {
		return "exact-zero"
	}
	return "below " + strconv.FormatFloat(p.Threshold, 'g', -1, 64)
}
