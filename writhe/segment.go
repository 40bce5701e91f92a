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

	"github.com/golang/geo/r3"
)

// Segment is a directed straight edge of a polygonal chain, joining two
// consecutive backbone positions. Segments are values; the endpoints are
// copied, never shared.
type Segment struct {
	Start, End r3.Vector
}

// SegmentFromCoords returns the segment from (x0,y0,z0) to (x1,y1,z1).
func SegmentFromCoords(x0, y0, z0, x1, y1, z1 float64) Segment {
	return Segment{
		Start: r3.Vector{X: x0, Y: y0, Z: z0},
		End:   r3.Vector{X: x1, Y: y1, Z: z1},
	}
}

// Vector returns End - Start.
func (s Segment) Vector() r3.Vector { return s.End.Sub(s.Start) }

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 { return s.Vector().Norm() }

// Reverse returns the segment traversed in the opposite direction.
func (s Segment) Reverse() Segment { return Segment{Start: s.End, End: s.Start} }

func (s Segment) String() string {
	return fmt.Sprintf("%v -> %v", s.Start, s.End)
}

// Chain is a polygonal chain: an ordered sequence of segments in residue
// order along the backbone. ID is the chain identifier of the structure the
// chain was read from and may be empty.
type Chain struct {
	ID       string
	Segments []Segment
}

// ChainFromPoints builds a chain with one segment between each pair of
// consecutive points. Fewer than two points give an empty chain.
func ChainFromPoints(id string, points []r3.Vector) Chain {
	c := Chain{ID: id}
	if len(points) < 2 {
		return c
	}
	c.Segments = make([]Segment, len(points)-1)
	for i := range c.Segments {
		c.Segments[i] = Segment{Start: points[i], End: points[i+1]}
	}
	return c
}

// Len returns the number of segments in the chain.
func (c Chain) Len() int { return len(c.Segments) }

// Points returns the vertices of the chain: the start of every segment
// followed by the end of the last one. For a chain that is not continuous
// the interior ends are dropped.
func (c Chain) Points() []r3.Vector {
	if len(c.Segments) == 0 {
		return nil
	}
	pts := make([]r3.Vector, 0, len(c.Segments)+1)
	for _, s := range c.Segments {
		pts = append(pts, s.Start)
	}
	return append(pts, c.Segments[len(c.Segments)-1].End)
}

// Continuous reports whether the end of every segment equals the start of
// the next one. Chains built by ChainFromPoints are continuous; perturbed
// chains need not be.
func (c Chain) Continuous() bool {
	for i := 1; i < len(c.Segments); i++ {
		if c.Segments[i-1].End != c.Segments[i].Start {
			return false
		}
	}
	return true
}

// Mirror returns the chain reflected through the plane z = 0. Reflection
// reverses handedness, so the writhe of the mirror is the negated writhe.
func (c Chain) Mirror() Chain {
	m := Chain{ID: c.ID, Segments: make([]Segment, len(c.Segments))}
	for i, s := range c.Segments {
		m.Segments[i] = Segment{
			Start: r3.Vector{X: s.Start.X, Y: s.Start.Y, Z: -s.Start.Z},
			End:   r3.Vector{X: s.End.X, Y: s.End.Y, Z: -s.End.Z},
		}
	}
	return m
}
