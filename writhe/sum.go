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

// accumulator is a Neumaier compensated running sum.
type accumulator struct {
	sum, c float64
}

func (a *accumulator) Add(x float64) {
	t := a.sum + x
	if math.Abs(a.sum) >= math.Abs(x) {
		a.c += (a.sum - t) + x
	} else {
		a.c += (x - t) + a.sum
	}
	a.sum = t
}

func (a *accumulator) Sum() float64 { return a.sum + a.c }

// CompensatedSum returns the sum of xs with Neumaier compensation. The
// result depends on the order of xs only through rounding of the
// compensation term.
func CompensatedSum(xs []float64) float64 {
	var acc accumulator
	for _, x := range xs {
		acc.Add(x)
	}
	return acc.Sum()
}
