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
	"context"
	"fmt"
	"math"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Execution selects how an Aggregator runs the pair evaluations.
type Execution int

const (
	// ExecutionSerial evaluates every pair on the calling goroutine.
	ExecutionSerial Execution = iota
	// ExecutionParallel spreads the rows of the pair table over a bounded
	// set of goroutines. Each row is reduced on its own and the row sums are
	// combined in row order, so the result does not depend on the number of
	// workers and equals the serial result bit for bit.
	ExecutionParallel
	// ExecutionVectorized packs pairs into PairBatch columns and evaluates
	// them with the batch kernel, whatever the configured Formulation.
	ExecutionVectorized
)

var executionNames = map[Execution]string{
	ExecutionSerial:     "serial",
	ExecutionParallel:   "parallel",
	ExecutionVectorized: "vectorized",
}

func (e Execution) String() string {
	if s, ok := executionNames[e]; ok {
		return s
	}
	return fmt.Sprintf("Execution(%d)", int(e))
}

// ParseExecution returns the execution policy with the given name.
func ParseExecution(name string) (Execution, error) {
	for e, s := range executionNames {
		if strings.EqualFold(s, name) {
			return e, nil
		}
	}
	return 0, fmt.Errorf("writhe: unknown execution policy %q", name)
}

// Normalization selects the scaling applied to a reduced total.
type Normalization int

const (
	// NormalizeNone returns the plain sum of pair contributions.
	NormalizeNone Normalization = iota
	// NormalizeGauss scales the sum to the value of the Gauss double
	// integral. A chain total covers each unordered pair once while the
	// integral runs over both orders, so it is divided by 2π. A linking
	// total covers each cross pair once and is divided by 4π.
	NormalizeGauss
)

var normalizationNames = map[Normalization]string{
	NormalizeNone:  "none",
	NormalizeGauss: "gauss",
}

func (n Normalization) String() string {
	if s, ok := normalizationNames[n]; ok {
		return s
	}
	return fmt.Sprintf("Normalization(%d)", int(n))
}

// ParseNormalization returns the normalization with the given name.
func ParseNormalization(name string) (Normalization, error) {
	for n, s := range normalizationNames {
		if strings.EqualFold(s, name) {
			return n, nil
		}
	}
	return 0, fmt.Errorf("writhe: unknown normalization %q", name)
}

// AggregatorOptions controls how an Aggregator enumerates and evaluates pairs.
type AggregatorOptions struct {
	Formulation Formulation
	Policy      DegeneracyPolicy
	Execution   Execution
	// Workers bounds the goroutines of ExecutionParallel. Values <= 0 mean
	// runtime.GOMAXPROCS(0).
	Workers int
	// BatchSize is the number of pairs per PairBatch in ExecutionVectorized.
	BatchSize int
	// SkipAdjacent leaves out pairs of consecutive segments of one chain.
	// In a continuous chain such pairs share an endpoint and contribute
	// zero anyway.
	SkipAdjacent  bool
	Normalization Normalization
}

// DefaultAggregatorOptions returns default options.
func DefaultAggregatorOptions() AggregatorOptions {
	return AggregatorOptions{
		Formulation:   FormulationDotCross,
		Policy:        ExactZero,
		Execution:     ExecutionSerial,
		Workers:       0,
		BatchSize:     1024,
		SkipAdjacent:  false,
		Normalization: NormalizeNone,
	}
}

// Aggregator reduces segment pair contributions to chain totals. It holds no
// mutable state and may be shared between goroutines.
type Aggregator struct {
	opts AggregatorOptions
	eval Evaluator
}

// NewAggregator returns an aggregator with the given options.
func NewAggregator(opts AggregatorOptions) *Aggregator {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultAggregatorOptions().BatchSize
	}
	return &Aggregator{
		opts: opts,
		eval: NewEvaluator(opts.Formulation, opts.Policy),
	}
}

// Options returns the options of the aggregator.
func (a *Aggregator) Options() AggregatorOptions { return a.opts }

// Evaluator returns the pair evaluator used by serial and parallel execution.
func (a *Aggregator) Evaluator() Evaluator { return a.eval }

// Total returns the writhe total of chain c over all unordered segment pairs.
func (a *Aggregator) Total(c Chain) float64 {
	t, _ := a.TotalContext(context.Background(), c)
	return t
}

// TotalContext is Total with cancellation. The error is non-nil only when
// ctx is done before the reduction finishes.
func (a *Aggregator) TotalContext(ctx context.Context, c Chain) (float64, error) {
	t, err := a.reduce(ctx, a.selfPairs(c, nil))
	if err != nil {
		return 0, err
	}
	return a.scale(t, writheScale), nil
}

// Linking returns the total over all pairs of one segment of ca and one
// segment of cb.
func (a *Aggregator) Linking(ca, cb Chain) float64 {
	t, _ := a.LinkingContext(context.Background(), ca, cb)
	return t
}

// LinkingContext is Linking with cancellation.
func (a *Aggregator) LinkingContext(ctx context.Context, ca, cb Chain) (float64, error) {
	t, err := a.reduce(ctx, pairSet{left: ca.Segments, right: cb.Segments})
	if err != nil {
		return 0, err
	}
	return a.scale(t, linkingScale), nil
}

// TotalInvolving returns the part of Total(c) coming from pairs in which at
// least one segment index is listed in segments. Indices out of range are
// ignored.
func (a *Aggregator) TotalInvolving(c Chain, segments []int) float64 {
	involved := make([]bool, len(c.Segments))
	for _, i := range segments {
		if i >= 0 && i < len(involved) {
			involved[i] = true
		}
	}
	t, _ := a.reduce(context.Background(), a.selfPairs(c, involved))
	return a.scale(t, writheScale)
}

// Profile returns, for every segment of c, the sum of the contributions of
// all pairs it takes part in. Every pair is counted at both of its segments,
// so the profile sums to twice the raw total, or to the writhe itself under
// NormalizeGauss.
func (a *Aggregator) Profile(c Chain) []float64 {
	n := len(c.Segments)
	prof := make([]float64, n)
	row := func(i int) {
		var acc accumulator
		for j := 0; j < n; j++ {
			if j == i || (a.opts.SkipAdjacent && (j == i+1 || j == i-1)) {
				continue
			}
			acc.Add(a.eval.Contribution(c.Segments[i], c.Segments[j]))
		}
		prof[i] = a.scale(acc.Sum(), profileScale)
	}
	if a.opts.Execution == ExecutionParallel {
		// The rows never fail and the context is never cancelled.
		_ = a.forRows(context.Background(), n, row)
	} else {
		for i := 0; i < n; i++ {
			row(i)
		}
	}
	return prof
}

const (
	writheScale  = 1 / (2 * math.Pi)
	linkingScale = 1 / (4 * math.Pi)
	profileScale = 1 / (4 * math.Pi)
)

func (a *Aggregator) scale(t, factor float64) float64 {
	if a.opts.Normalization == NormalizeGauss {
		return t * factor
	}
	return t
}

// pairSet is the table of pairs of one reduction. Row i pairs left[i] with
// the columns returned by cols.
type pairSet struct {
	left, right []Segment
	// self marks a single chain: only columns j > i are used.
	self         bool
	skipAdjacent bool
	// involved, when set, keeps only pairs with an involved member.
	involved []bool
}

func (a *Aggregator) selfPairs(c Chain, involved []bool) pairSet {
	return pairSet{
		left:         c.Segments,
		right:        c.Segments,
		self:         true,
		skipAdjacent: a.opts.SkipAdjacent,
		involved:     involved,
	}
}

func (p pairSet) rows() int { return len(p.left) }

// cols returns the half-open column range of row i.
func (p pairSet) cols(i int) (lo, hi int) {
	if !p.self {
		return 0, len(p.right)
	}
	lo = i + 1
	if p.skipAdjacent {
		lo++
	}
	return lo, len(p.right)
}

func (p pairSet) keep(i, j int) bool {
	return p.involved == nil || p.involved[i] || p.involved[j]
}

// each calls fn for every pair of row i in column order.
func (p pairSet) each(i int, fn func(s1, s2 Segment)) {
	lo, hi := p.cols(i)
	for j := lo; j < hi; j++ {
		if p.keep(i, j) {
			fn(p.left[i], p.right[j])
		}
	}
}

func (a *Aggregator) rowSum(p pairSet, i int) float64 {
	var acc accumulator
	p.each(i, func(s1, s2 Segment) {
		acc.Add(a.eval.Contribution(s1, s2))
	})
	return acc.Sum()
}

func (a *Aggregator) reduce(ctx context.Context, p pairSet) (float64, error) {
	if a.opts.Execution == ExecutionVectorized {
		return a.reduceVectorized(ctx, p)
	}

	rows := make([]float64, p.rows())
	row := func(i int) { rows[i] = a.rowSum(p, i) }
	if a.opts.Execution == ExecutionParallel {
		if err := a.forRows(ctx, len(rows), row); err != nil {
			return 0, err
		}
	} else {
		for i := range rows {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			row(i)
		}
	}
	return CompensatedSum(rows), nil
}

// forRows runs fn for every row in [0, n) on at most Workers goroutines.
func (a *Aggregator) forRows(ctx context.Context, n int, fn func(i int)) error {
	workers := a.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	return g.Wait()
}

func (a *Aggregator) reduceVectorized(ctx context.Context, p pairSet) (float64, error) {
	kernel := Batch{Policy: a.opts.Policy}
	batch := NewPairBatch(a.opts.BatchSize)
	dst := make([]float64, a.opts.BatchSize)
	var acc accumulator
	flush := func() {
		n := kernel.EvaluateBatch(batch, dst)
		acc.Add(SumBatch(dst[:n]))
		batch.Reset()
	}
	for i := 0; i < p.rows(); i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		p.each(i, func(s1, s2 Segment) {
			batch.Append(s1, s2)
			if batch.Len() == a.opts.BatchSize {
				flush()
			}
		})
	}
	if batch.Len() > 0 {
		flush()
	}
	return acc.Sum(), nil
}
