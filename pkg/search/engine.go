/*
Package search decides bin packing instances by depth-first search over the
domain store. Every node runs the propagators to a fixpoint, then either
reports a complete packing, fails, or branches on the most constrained item.

Branching is binary: the selected item either goes into the lowest bin of its
domain, or that bin is removed from it. A refuted branch additionally removes
the bin from every interchangeable item and removes every interchangeable
empty bin, which keeps symmetric subtrees from being explored twice.
*/
package search

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/bpsolver/bpsolver/pkg/api"
	"github.com/bpsolver/bpsolver/pkg/domain"
	"github.com/bpsolver/bpsolver/pkg/instance"
	"github.com/bpsolver/bpsolver/pkg/propagate"
)

type State int

const (
	StateRoot State = iota
	StatePropagating
	StateBranching
	StateBacktracking
	StateSat
	StateUnsat
)

func (s State) String() string {
	switch s {
	case StateRoot:
		return "ROOT"
	case StatePropagating:
		return "PROPAGATING"
	case StateBranching:
		return "BRANCHING"
	case StateBacktracking:
		return "BACKTRACKING"
	case StateSat:
		return "SAT"
	case StateUnsat:
		return "UNSAT"
	}
	return "UNKNOWN"
}

type Options struct {
	// NodeLimit stops the search with an UNKNOWN verdict after that many
	// branches. Zero means no limit.
	NodeLimit int64
	// Parallelism > 1 explores the root candidates concurrently.
	Parallelism int
	// NoRootFixing disables the placement of big items before the search.
	NoRootFixing bool
	Symmetry     propagate.Symmetry
	// Tracer is ignored by the parallel search.
	Tracer Tracer
}

func DefaultOptions() Options {
	return Options{
		Parallelism: 1,
		Symmetry:    propagate.Symmetry{Dominance: true, BinSymmetry: true},
	}
}

type Outcome struct {
	Verdict api.Verdict
	// Assignment holds the bin of every item when the verdict is SAT.
	Assignment []int
	Stats      api.Stats
}

type engine struct {
	ctx    context.Context
	s      *domain.Store
	fix    *propagate.Fixpoint
	sym    propagate.Symmetry
	tracer Tracer

	// nodes is shared between the engines of a parallel search.
	nodes *atomic.Int64
	limit int64

	node     int64
	nextNode int64
	stats    api.Stats
	solution []int
}

func newEngine(ctx context.Context, s *domain.Store, opts Options, nodes *atomic.Int64) *engine {
	return &engine{
		ctx:    ctx,
		s:      s,
		fix:    propagate.NewFixpoint(),
		sym:    opts.Symmetry,
		tracer: opts.Tracer,
		nodes:  nodes,
		limit:  opts.NodeLimit,
	}
}

// Solve decides whether in has a packing. A cancelled context or an exhausted
// node limit yields an UNKNOWN verdict, not an error.
func Solve(ctx context.Context, in *instance.Instance, opts Options) (*Outcome, error) {
	start := time.Now()
	e := newEngine(ctx, domain.New(in), opts, &atomic.Int64{})

	var verdict api.Verdict
	var err error
	if !opts.NoRootFixing {
		err = propagate.FixRoot(e.s)
	}
	if err != nil {
		verdict, err = failed(err)
	} else if opts.Parallelism > 1 {
		verdict, err = e.splitRoot(opts)
	} else {
		verdict, err = e.search(0)
	}
	if err != nil {
		return nil, err
	}

	out := &Outcome{Verdict: verdict, Stats: e.stats}
	out.Stats.Propagations += e.fix.Passes()
	out.Stats.Elapsed = time.Since(start)
	if verdict == api.VerdictSat {
		out.Assignment = e.solution
	}
	return out, nil
}

// search explores the subtree below the current state of the store. The
// store is left in a state the caller has to restore.
func (e *engine) search(depth int) (api.Verdict, error) {
	for {
		if err := e.fix.Run(e.s); err != nil {
			return failed(err)
		}
		if e.s.Complete() {
			e.solution = e.s.Assignment()
			e.trace(Event{State: StateSat, Node: e.node, Depth: depth})
			return api.VerdictSat, nil
		}
		if e.exhausted() {
			return api.VerdictUnknown, nil
		}

		item := selectItem(e.s)
		bin := e.s.Min(item)
		// nogoods are only valid for the state the branch starts from
		nogoods := e.sym.Nogoods(e.s, item, bin)

		verdict, err := e.branch(item, bin, depth+1)
		if err != nil || verdict != api.VerdictUnsat {
			return verdict, err
		}

		e.stats.Backtracks++
		if err := propagate.Apply(e.s, nogoods); err != nil {
			return failed(err)
		}
	}
}

// branch commits item to bin and searches the resulting subtree. The store is
// restored before it returns.
func (e *engine) branch(item, bin, depth int) (api.Verdict, error) {
	mark := e.s.Checkpoint()
	defer e.s.Restore(mark)

	parent := e.node
	e.nextNode++
	e.node = e.nextNode
	defer func() { e.node = parent }()

	e.stats.Nodes++
	e.nodes.Add(1)
	if depth > e.stats.MaxDepth {
		e.stats.MaxDepth = depth
	}
	e.trace(Event{State: StateBranching, Node: e.node, Parent: parent, Item: item, Bin: bin, Depth: depth})

	var verdict api.Verdict
	err := e.s.Assign(item, bin)
	if err == nil {
		verdict, err = e.search(depth)
	} else {
		verdict, err = failed(err)
	}
	if err == nil && verdict == api.VerdictUnsat {
		e.trace(Event{State: StateBacktracking, Node: e.node, Parent: parent, Item: item, Bin: bin, Depth: depth})
	}
	return verdict, err
}

func (e *engine) exhausted() bool {
	if e.ctx.Err() != nil {
		return true
	}
	return e.limit > 0 && e.nodes.Load() >= e.limit
}

func (e *engine) trace(ev Event) {
	if e.tracer != nil {
		e.tracer.Trace(ev)
	}
}

// failed turns a local failure into an UNSAT verdict for the current node.
func failed(err error) (api.Verdict, error) {
	if errors.Is(err, domain.ErrLocalFailure) {
		return api.VerdictUnsat, nil
	}
	return "", err
}
