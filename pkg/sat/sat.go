/*
Package sat decides bin packing instances with the gophersat pseudo-boolean
solver. It is an independent second backend and serves as a cross-check for
the constraint propagation engine.
*/
package sat

import (
	"context"
	"fmt"
	"time"

	"github.com/crillab/gophersat/solver"
	"github.com/sirupsen/logrus"

	"github.com/bpsolver/bpsolver/pkg/api"
	"github.com/bpsolver/bpsolver/pkg/instance"
)

type Resolver struct {
	model *Model
	out   *api.Result
	run   func(s *solver.Solver) solver.Status
}

func NewResolver() *Resolver {
	return &Resolver{run: (*solver.Solver).Solve}
}

// Resolve decides in. The underlying solver cannot be interrupted: when ctx
// is done first, Resolve returns UNKNOWN and the solver goroutine finishes in
// the background.
func (r *Resolver) Resolve(ctx context.Context, in *instance.Instance) (*api.Result, error) {
	start := time.Now()
	r.out = &api.Result{Source: api.SourceSearch, Backend: api.BackendSAT}
	defer func() {
		r.out.Stats.Elapsed = time.Since(start)
	}()

	switch {
	case in.Len() == 0:
		r.out.Verdict = api.VerdictSat
		r.out.Assignment = []int{}
		return r.out, nil
	case in.NumBins() == 0 || in.MaxSize() > in.Capacity():
		r.out.Verdict = api.VerdictUnsat
		return r.out, nil
	}
	if err := ctx.Err(); err != nil {
		logrus.Debugf("Not starting the sat solver: %v", err)
		r.out.Verdict = api.VerdictUnknown
		return r.out, nil
	}

	r.model = NewLoader().Load(in)
	s := solver.New(solver.ParsePBConstrs(r.model.constr))
	done := make(chan solver.Status, 1)
	go func() {
		done <- r.run(s)
	}()

	var status solver.Status
	select {
	case status = <-done:
	case <-ctx.Done():
		select {
		case status = <-done:
		default:
			logrus.Debugf("Abandoning the sat solver for %v: %v", in, ctx.Err())
			r.out.Verdict = api.VerdictUnknown
			return r.out, nil
		}
	}
	switch status {
	case solver.Sat:
		assignment, err := r.decode(s.Model())
		if err != nil {
			return nil, err
		}
		r.out.Verdict = api.VerdictSat
		r.out.Assignment = assignment
	case solver.Unsat:
		r.out.Verdict = api.VerdictUnsat
	default:
		return nil, fmt.Errorf("sat solver returned unexpected status %v", status)
	}
	logrus.Debugf("sat solver decided %v: %v", in, r.out.Verdict)
	return r.out, nil
}

// decode maps the solver model back to a bin per item.
func (r *Resolver) decode(model []bool) ([]int, error) {
	assignment := make([]int, r.model.in.Len())
	for i := range assignment {
		assignment[i] = -1
	}
	for _, v := range r.model.vars {
		if v.satVarName-1 >= len(model) || !model[v.satVarName-1] {
			continue
		}
		if assignment[v.Item] != -1 {
			return nil, fmt.Errorf("item %d was put into bins %d and %d", v.Item, assignment[v.Item], v.Bin)
		}
		assignment[v.Item] = v.Bin
	}
	for i, b := range assignment {
		if b == -1 {
			return nil, fmt.Errorf("item %d was not put into any bin", i)
		}
	}
	return assignment, nil
}

// Solve is a shorthand for NewResolver().Resolve(ctx, in).
func Solve(ctx context.Context, in *instance.Instance) (*api.Result, error) {
	return NewResolver().Resolve(ctx, in)
}
