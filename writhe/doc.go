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

/*
Package writhe computes the writhe of polygonal space curves, such as the
alpha-carbon trace of a protein backbone.

The writhe of a polygonal chain is a sum over pairs of its segments. Each pair
contributes the signed area of the spherical quadrilateral traced on the unit
sphere by the four unit vectors connecting the endpoints of the two segments.
The area is obtained from its four signed corner angles, resolved by quadrant
from a dot-product term and a triple-product term.

Two scalar formulations are provided behind the Evaluator interface: DotCross,
the production formulation, and AngleSum, an arccos based formulation kept as
a cross check. BatchContribution evaluates the same closed form on twelve
scalar coordinates with the four corner blocks unrolled, and PairBatch feeds
many pairs at once through SIMD passes in structure-of-arrays layout.

An Aggregator enumerates the segment pairs of one chain (writhe) or of two
chains (linking) and reduces their contributions.
*/
package writhe
