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

// cornerAngle returns the signed exterior angle at the middle vertex of a
// spherical triangle from its unnormalized cosine and sine terms.
//
// Both terms carry the same positive scale factor, which atan(sin/cos) does
// not see, so it is never divided out. The cos == 0 && sin == 0 case falls
// into the last branch and yields -π/2. That value is a convention kept for
// compatibility with existing writhe tables, not a derived limit.
func cornerAngle(cosTerm, sinTerm float64) float64 {
	switch {
	case cosTerm > 0:
		return math.Atan(sinTerm / cosTerm)
	case cosTerm < 0 && sinTerm > 0:
		return math.Atan(sinTerm/cosTerm) + math.Pi
	case cosTerm < 0:
		return math.Atan(sinTerm/cosTerm) - math.Pi
	case sinTerm > 0:
		return math.Pi / 2
	default:
		return -math.Pi / 2
	}
}

// sign3 is the sign function written as a three-way comparison, so it can be
// used where no library sign function exists.
//
// For s > 0, |s| - s = 0 < s. For s < 0, |s| - s = -2s > 0 > s. For s = 0
// both sides are zero.
func sign3(s float64) float64 {
	d := math.Abs(s) - s
	if d > s {
		return -1
	}
	if d < s {
		return 1
	}
	return 0
}

// excessToContribution turns the sum of the four signed corner angles into
// the pair contribution sign(s)·2π - s.
func excessToContribution(s float64) float64 {
	return sign3(s)*2*math.Pi - s
}
