package search

import (
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/bpsolver/bpsolver/pkg/api"
	"github.com/bpsolver/bpsolver/pkg/propagate"
)

// errFound stops the remaining branches once one of them found a packing.
var errFound = errors.New("packing found")

type branchResult struct {
	verdict    api.Verdict
	assignment []int
	stats      api.Stats
	passes     int64
}

// splitRoot propagates the root node and then explores every candidate bin of
// the first branching item on its own copy of the store. Branch k assumes that
// the item and its interchangeable peers avoid the candidates before k, which
// is what the sequential search would have learned by then.
func (e *engine) splitRoot(opts Options) (api.Verdict, error) {
	if err := e.fix.Run(e.s); err != nil {
		return failed(err)
	}
	if e.s.Complete() {
		e.solution = e.s.Assignment()
		return api.VerdictSat, nil
	}
	if e.exhausted() {
		return api.VerdictUnknown, nil
	}

	item := selectItem(e.s)
	candidates := rootCandidates(e.s, item, opts.Symmetry.BinSymmetry)
	group := []int{item}
	if opts.Symmetry.Dominance {
		group = append(group, propagate.Peers(e.s, item)...)
	}

	branchOpts := opts
	branchOpts.Tracer = nil
	results := make([]branchResult, len(candidates))

	g, ctx := errgroup.WithContext(e.ctx)
	g.SetLimit(opts.Parallelism)
	for k, bin := range candidates {
		s := e.s.Clone()
		g.Go(func() error {
			child := newEngine(ctx, s, branchOpts, e.nodes)
			r := &results[k]
			var nogoods []propagate.Nogood
			for _, prev := range candidates[:k] {
				for _, i := range group {
					nogoods = append(nogoods, propagate.Nogood{Item: i, Bin: prev})
				}
			}
			var err error
			if err = propagate.Apply(s, nogoods); err == nil {
				r.verdict, err = child.branch(item, bin, 1)
			} else {
				r.verdict, err = failed(err)
			}
			r.stats = child.stats
			r.passes = child.fix.Passes()
			if err != nil {
				return err
			}
			if r.verdict == api.VerdictSat {
				r.assignment = child.solution
				return errFound
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, errFound) {
		return "", err
	}

	verdict := api.VerdictUnsat
	for _, r := range results {
		e.stats.Add(r.stats)
		e.stats.Propagations += r.passes
		switch r.verdict {
		case api.VerdictSat:
			if verdict != api.VerdictSat {
				e.solution = r.assignment
			}
			verdict = api.VerdictSat
		case api.VerdictUnknown:
			if verdict == api.VerdictUnsat {
				verdict = api.VerdictUnknown
			}
		}
	}
	return verdict, nil
}
