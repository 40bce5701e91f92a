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
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/r3"
)

// Evaluator computes the writhe contribution of one segment pair. Every
// implementation is a pure function of the two segments and is safe for
// concurrent use.
type Evaluator interface {
	Contribution(s1, s2 Segment) float64
}

// Formulation selects the closed form an Evaluator uses.
type Formulation int

const (
	// FormulationDotCross resolves each corner angle by quadrant from a dot
	// product term and a triple product term. It is the default.
	FormulationDotCross Formulation = iota
	// FormulationAngleSum takes each corner angle as the arccos of the
	// normalized tangent dot product. It is kept as a test oracle.
	FormulationAngleSum
	// FormulationBatch uses the unrolled twelve-scalar kernel.
	FormulationBatch
)

var formulationNames = map[Formulation]string{
	FormulationDotCross: "dotcross",
	FormulationAngleSum: "anglesum",
	FormulationBatch:    "batch",
}

func (f Formulation) String() string {
	if s, ok := formulationNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Formulation(%d)", int(f))
}

// ParseFormulation returns the formulation with the given name.
func ParseFormulation(name string) (Formulation, error) {
	for f, s := range formulationNames {
		if strings.EqualFold(s, name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("writhe: unknown formulation %q", name)
}

// NewEvaluator returns the evaluator for formulation f under policy p.
func NewEvaluator(f Formulation, p DegeneracyPolicy) Evaluator {
	switch f {
	case FormulationAngleSum:
		return AngleSum{Policy: p}
	case FormulationBatch:
		return Batch{Policy: p}
	default:
		return DotCross{Policy: p}
	}
}

// connectingUnits returns the unit connecting vectors of the pair in the
// cyclic order e_ac, e_bc, e_bd, e_ad, with the first two repeated at the end
// to close the cycle. ok is false for a degenerate pair.
func connectingUnits(s1, s2 Segment, p DegeneracyPolicy) (e [6]r3.Vector, ok bool) {
	if p.Degenerate(s1.Length()) || p.Degenerate(s2.Length()) {
		return e, false
	}
	a, b, c, d := s1.Start, s1.End, s2.Start, s2.End
	vs := [4]r3.Vector{c.Sub(a), c.Sub(b), d.Sub(b), d.Sub(a)}
	for i, v := range vs {
		n := v.Norm()
		if p.Degenerate(n) {
			return e, false
		}
		e[i] = r3.Vector{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
	}
	e[4], e[5] = e[0], e[1]
	return e, true
}

// DotCross is the production scalar kernel.
type DotCross struct {
	Policy DegeneracyPolicy
}

// Contribution returns the signed writhe contribution of the pair (s1, s2).
func (k DotCross) Contribution(s1, s2 Segment) float64 {
	e, ok := connectingUnits(s1, s2, k.Policy)
	if !ok {
		return 0
	}
	var s float64
	for i := 0; i < 4; i++ {
		u, v, w := e[i], e[i+1], e[i+2]
		cosTerm := u.Dot(v)*v.Dot(w) - u.Dot(w)
		sinTerm := u.Cross(v).Dot(w)
		s += cornerAngle(cosTerm, sinTerm)
	}
	return excessToContribution(s)
}

// AngleSum is the arccos based reference kernel. It agrees with DotCross on
// well conditioned input but loses precision for corner angles close to 0
// or π.
type AngleSum struct {
	Policy DegeneracyPolicy
}

// Contribution returns the signed writhe contribution of the pair (s1, s2).
func (k AngleSum) Contribution(s1, s2 Segment) float64 {
	e, ok := connectingUnits(s1, s2, k.Policy)
	if !ok {
		return 0
	}
	var s float64
	for i := 0; i < 4; i++ {
		s += tangentAngle(e[i], e[i+1], e[i+2])
	}
	return excessToContribution(s)
}

// tangentAngle returns the turning angle at v of the spherical path u, v, w:
// the angle between the incoming great-circle tangent (u·v)v - u and the
// outgoing tangent w - (v·w)v, negative unless (u×v)·w is positive.
func tangentAngle(u, v, w r3.Vector) float64 {
	in := v.Mul(u.Dot(v)).Sub(u)
	out := w.Sub(v.Mul(v.Dot(w)))
	n := in.Norm() * out.Norm()
	if n == 0 {
		// Same convention as cornerAngle for vanishing terms.
		return -math.Pi / 2
	}
	a := math.Acos(math.Max(-1, math.Min(1, in.Dot(out)/n)))
	if u.Cross(v).Dot(w) > 0 {
		return a
	}
	return -a
}
