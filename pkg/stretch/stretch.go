/*
Package stretch searches lower bounds for online bin stretching. Items arrive
one by one and an online algorithm has to put every item into one of m bins
before it sees the next one. An adversary picks the items, but must keep the
items so far packable into m bins of capacity C. The stretching factor is the
largest bin load the adversary can force on every algorithm, divided by C.

Run explores this game by branch and bound. On every node the adversary tries
the allowed weights in decreasing order, the feasibility oracle approves the
first one, and the algorithm answers with every bin of a distinct load. The
value of a node is the best load the adversary can force from there, clamped
to the window between the lower and the upper bound.
*/
package stretch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"

	"github.com/bpsolver/bpsolver/pkg/api"
	"github.com/bpsolver/bpsolver/pkg/solver"
	"github.com/bpsolver/bpsolver/pkg/trace"
)

var ErrInvalidGame = errors.New("invalid stretching game")

type Options struct {
	// Weights are the item sizes the adversary may use. Empty means every
	// size from 1 to the capacity. Sizes above the capacity are ignored.
	Weights []int
	// LowerBound is the load the search tries to beat. Zero means the 4/3
	// bound, floor(4C/3).
	LowerBound int
	// UpperBound is the load at which a branch is good enough. Zero means
	// ceil(26C/17).
	UpperBound int
	// NoMemo disables the transposition table.
	NoMemo bool
	// Oracle configures the feasibility checks.
	Oracle []solver.Option
}

type Stats struct {
	Nodes             int64
	FeasibilityChecks int64
	MemoHits          int64
	FeasibilityTime   time.Duration
	Elapsed           time.Duration
}

type Result struct {
	NumBins    int
	Capacity   int
	Weights    []int
	LowerBound int
	UpperBound int
	// Value is the largest load the adversary can force, at least
	// LowerBound.
	Value int
	Stats Stats
	// Backtrack holds the kept branches of the search.
	Backtrack *trace.Backtrack
}

// Improved reports whether the adversary beats the lower bound.
func (r *Result) Improved() bool {
	return r.Value > r.LowerBound
}

// Factor is the stretching factor Value / Capacity.
func (r *Result) Factor() float64 {
	return float64(r.Value) / float64(r.Capacity)
}

// DefaultLowerBound is floor(4C/3), the load every adversary forces on two or
// more bins.
func DefaultLowerBound(capacity int) int {
	return capacity/3*4 + capacity%3*4/3
}

// DefaultUpperBound is ceil(26C/17).
func DefaultUpperBound(capacity int) int {
	q, r := capacity/17*26, capacity%17*26
	if r%17 == 0 {
		return q + r/17
	}
	return q + r/17 + 1
}

type adversary struct {
	ctx      context.Context
	capacity int
	weights  []int
	loads    []int
	items    []int
	oracle   *solver.Solver
	memo     map[memoKey]memoEntry
	stats    Stats
}

// Run searches the best load an adversary can force on numBins bins of the
// given capacity.
func Run(ctx context.Context, numBins, capacity int, opts Options) (*Result, error) {
	start := time.Now()
	if numBins < 1 || capacity < 1 {
		return nil, fmt.Errorf("%w: need at least one bin of positive capacity, got %d bins of capacity %d", ErrInvalidGame, numBins, capacity)
	}
	if numBins > math.MaxInt/capacity {
		return nil, fmt.Errorf("%w: %d bins of capacity %d exceed the int range", ErrInvalidGame, numBins, capacity)
	}
	weights, err := allowedWeights(opts.Weights, capacity)
	if err != nil {
		return nil, err
	}

	res := &Result{
		NumBins:    numBins,
		Capacity:   capacity,
		Weights:    weights,
		LowerBound: opts.LowerBound,
		UpperBound: opts.UpperBound,
		Backtrack:  trace.NewBacktrack(),
	}
	if res.LowerBound <= 0 {
		res.LowerBound = DefaultLowerBound(capacity)
	}
	if res.UpperBound <= 0 {
		res.UpperBound = DefaultUpperBound(capacity)
	}

	a := &adversary{
		ctx:      ctx,
		capacity: capacity,
		weights:  weights,
		loads:    make([]int, numBins),
		oracle:   solver.New(nil, numBins, capacity, opts.Oracle...),
	}
	if !opts.NoMemo {
		a.memo = map[memoKey]memoEntry{}
	}

	res.Backtrack.Set("Name", "Root")
	res.Value, err = a.branch(numBins*capacity, res.LowerBound, res.UpperBound, res.Backtrack)
	a.stats.Elapsed = time.Since(start)
	res.Stats = a.stats
	if err != nil {
		return nil, fmt.Errorf("stretching search stopped after %d nodes: %w", a.stats.Nodes, err)
	}
	logrus.WithFields(logrus.Fields{
		"value":   res.Value,
		"nodes":   res.Stats.Nodes,
		"checks":  res.Stats.FeasibilityChecks,
		"elapsed": res.Stats.Elapsed,
	}).Debugf("stretching search for %d bins of capacity %d done", numBins, capacity)
	return res, nil
}

// allowedWeights drops weights above the capacity and duplicates, and sorts
// the rest decreasingly. Once the largest weight passed the oracle every
// smaller one would pass as well, which branch relies on.
func allowedWeights(weights []int, capacity int) ([]int, error) {
	var allowed []int
	if len(weights) == 0 {
		for w := 1; w <= capacity; w++ {
			allowed = append(allowed, w)
		}
	}
	for _, w := range weights {
		if w <= 0 {
			return nil, fmt.Errorf("%w: weight must be positive, got %d", ErrInvalidGame, w)
		}
		if w <= capacity {
			allowed = append(allowed, w)
		}
	}
	if len(allowed) == 0 {
		return nil, fmt.Errorf("%w: no weight fits into capacity %d", ErrInvalidGame, capacity)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(allowed)))
	return slices.Compact(allowed), nil
}

// branch computes the value of the current bins. remaining is the capacity
// the offline packing still has left.
func (a *adversary) branch(remaining, lower, upper int, node *trace.Backtrack) (int, error) {
	a.stats.Nodes++
	if err := a.ctx.Err(); err != nil {
		return 0, err
	}
	if lower >= upper {
		node.Set("cut", "LB >= UB")
		return lower, nil
	}

	minLoad, maxLoad := a.loads[0], a.loads[0]
	for _, l := range a.loads {
		minLoad = min(minLoad, l)
		maxLoad = max(maxLoad, l)
	}
	lower = max(lower, maxLoad)
	if maxLoad >= upper {
		node.Set("cut", "Wmax >= UB")
		return maxLoad, nil
	}
	// an algorithm may put everything left into the emptiest bin
	if minLoad+remaining <= lower {
		node.Set("cut", "Cannot improve")
		return lower, nil
	}

	bins := make([]int, len(a.loads))
	for b := range bins {
		bins[b] = b
	}
	sort.SliceStable(bins, func(i, j int) bool {
		return a.loads[bins[i]] > a.loads[bins[j]]
	})

	best := lower
	var bestSons []*trace.Backtrack
	verified := false
	for _, w := range a.weights {
		if w > remaining {
			continue
		}
		if !verified {
			ok, err := a.feasible(w)
			if err != nil {
				return 0, err
			}
			if !ok {
				continue
			}
			verified = true
		}
		if minLoad+w >= upper {
			node.Set("cut", fmt.Sprintf("Wmin + %d >= UB", w))
			return minLoad + w, nil
		}

		// the algorithm answers with the bin keeping the load lowest
		stretch := upper
		var sons []*trace.Backtrack
		prev := -1
		for _, b := range bins {
			if a.loads[b] == prev {
				continue
			}
			prev = a.loads[b]

			a.loads[b] += w
			a.items = append(a.items, w)
			son := trace.NewBacktrack()
			son.Set("bins", a.loads)
			sons = append(sons, son)
			val, err := a.solve(remaining-w, best, stretch, son)
			a.items = a.items[:len(a.items)-1]
			a.loads[b] -= w
			if err != nil {
				return 0, err
			}

			stretch = min(stretch, val)
			if stretch <= best {
				break
			}
		}
		if stretch >= upper {
			node.Set("Next weight", w)
			node.Extend(sons...)
			return stretch, nil
		}
		if stretch > best {
			node.Set("Next weight", w)
			best = stretch
			bestSons = sons
		}
	}
	node.Extend(bestSons...)
	return best, nil
}

// solve is branch behind the transposition table.
func (a *adversary) solve(remaining, lower, upper int, node *trace.Backtrack) (int, error) {
	if a.memo == nil {
		return a.branch(remaining, lower, upper, node)
	}
	key := a.key()
	if e, ok := a.memo[key]; ok && e.answers(lower, upper) {
		a.stats.MemoHits++
		node.Set("cut", "Memoized value")
		return e.value, nil
	}
	val, err := a.branch(remaining, lower, upper, node)
	if err != nil {
		return 0, err
	}
	a.memo[key] = memoEntry{lower: lower, upper: upper, value: val}
	return val, nil
}

// feasible asks the oracle whether the items so far plus one of size w still
// fit into the bins.
func (a *adversary) feasible(w int) (bool, error) {
	start := time.Now()
	defer func() {
		a.stats.FeasibilityTime += time.Since(start)
	}()
	a.stats.FeasibilityChecks++

	items := append(append(make([]int, 0, len(a.items)+1), a.items...), w)
	a.oracle.Reset(items, len(a.loads), a.capacity)
	res, err := a.oracle.Solve(a.ctx)
	if err != nil {
		return false, err
	}
	switch res.Verdict {
	case api.VerdictSat:
		return true, nil
	case api.VerdictUnsat:
		return false, nil
	}
	return false, fmt.Errorf("%w: %d items into %d bins", solver.ErrUndecided, len(items), len(a.loads))
}
