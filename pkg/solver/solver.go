/*
Package solver is the feasibility oracle for bin packing: can the items be
packed into the given number of bins of equal capacity? Decisions run through
a pipeline of cheap checks before the search engine is involved:

	degenerate input -> fast fail -> cache -> preflight -> search backend
*/
package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bpsolver/bpsolver/pkg/api"
	"github.com/bpsolver/bpsolver/pkg/instance"
	"github.com/bpsolver/bpsolver/pkg/reducer"
	"github.com/bpsolver/bpsolver/pkg/sat"
	"github.com/bpsolver/bpsolver/pkg/search"
)

// ErrUndecided is returned when a budget ran out before a verdict was found.
var ErrUndecided = errors.New("feasibility undecided")

// IsFeasible decides a single instance with the default settings.
func IsFeasible(sizes []int, numBins, capacity int) (bool, error) {
	return New(sizes, numBins, capacity).IsFeasible()
}

// Solver holds one mutable instance. It is not safe for concurrent use.
type Solver struct {
	items    []int
	numBins  int
	capacity int
	opts     options

	// in is built on demand and dropped by every setter.
	in *instance.Instance
}

func New(items []int, numBins, capacity int, opts ...Option) *Solver {
	s := &Solver{
		items:    append([]int(nil), items...),
		numBins:  numBins,
		capacity: capacity,
		opts:     defaultOptions(),
	}
	for _, o := range opts {
		o(&s.opts)
	}
	return s
}

func (s *Solver) SetItems(items []int) {
	s.items = append([]int(nil), items...)
	s.in = nil
}

func (s *Solver) SetNumBins(numBins int) {
	s.numBins = numBins
	s.in = nil
}

func (s *Solver) SetCapacity(capacity int) {
	s.capacity = capacity
	s.in = nil
}

// Reset replaces the whole instance.
func (s *Solver) Reset(items []int, numBins, capacity int) {
	s.items = append([]int(nil), items...)
	s.numBins = numBins
	s.capacity = capacity
	s.in = nil
}

func (s *Solver) Items() []int {
	return append([]int(nil), s.items...)
}

func (s *Solver) NumBins() int  { return s.numBins }
func (s *Solver) Capacity() int { return s.capacity }

// IsFeasible reports whether the items fit. Malformed input yields an error
// wrapping instance.ErrInvalidInstance, an exhausted budget one wrapping
// ErrUndecided.
func (s *Solver) IsFeasible() (bool, error) {
	res, err := s.Solve(context.Background())
	if err != nil {
		return false, err
	}
	switch res.Verdict {
	case api.VerdictSat:
		return true, nil
	case api.VerdictUnsat:
		return false, nil
	}
	return false, fmt.Errorf("%w after %d nodes", ErrUndecided, res.Stats.Nodes)
}

// Solve decides the instance and reports how the verdict was reached.
func (s *Solver) Solve(ctx context.Context) (*api.Result, error) {
	start := time.Now()
	res, err := s.decide(ctx)
	if err != nil {
		return nil, err
	}
	res.Stats.Elapsed = time.Since(start)
	if s.opts.metrics != nil {
		s.opts.metrics.Observe(res)
	}
	logrus.WithFields(logrus.Fields{
		"verdict": res.Verdict,
		"source":  res.Source,
		"backend": res.Backend,
		"nodes":   res.Stats.Nodes,
		"elapsed": res.Stats.Elapsed,
	}).Debugf("decided n=%d m=%d C=%d", len(s.items), s.numBins, s.capacity)
	return res, nil
}

func (s *Solver) decide(ctx context.Context) (*api.Result, error) {
	// kept for compatibility: no items is plain arithmetic
	if len(s.items) == 0 {
		res := &api.Result{Verdict: api.VerdictUnsat, Source: api.SourceDegenerate, Reason: "no items"}
		if s.capacity >= 0 && s.numBins >= 0 {
			res.Verdict = api.VerdictSat
			res.Assignment = []int{}
		}
		return res, nil
	}

	in, err := s.instance()
	if err != nil {
		return nil, err
	}
	if infeasible, reason := in.Infeasible(); infeasible {
		return &api.Result{Verdict: api.VerdictUnsat, Source: api.SourceFastFail, Reason: reason}, nil
	}

	if c := s.opts.cache; c != nil {
		if verdict, assignment, ok := c.Lookup(in); ok {
			return &api.Result{Verdict: verdict, Source: api.SourceCache, Assignment: assignment}, nil
		}
	}

	res, err := s.run(ctx, in)
	if err != nil {
		return nil, err
	}
	if s.opts.cache != nil {
		s.opts.cache.Store(in, res.Verdict, res.Assignment)
	}
	return res, nil
}

func (s *Solver) run(ctx context.Context, in *instance.Instance) (*api.Result, error) {
	if s.opts.preflight {
		if d := reducer.New().Reduce(in); d.Decided() {
			return &api.Result{
				Verdict:    d.Verdict,
				Source:     api.SourcePreflight,
				Reason:     fmt.Sprintf("%s: %s", d.Rule, d.Reason),
				Assignment: d.Assignment,
			}, nil
		}
	}

	if s.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.timeout)
		defer cancel()
	}

	switch s.opts.backend {
	case api.BackendSAT:
		return sat.Solve(ctx, in)
	case api.BackendCP, "":
		out, err := search.Solve(ctx, in, s.opts.search)
		if err != nil {
			return nil, err
		}
		return &api.Result{
			Verdict:    out.Verdict,
			Source:     api.SourceSearch,
			Backend:    api.BackendCP,
			Assignment: out.Assignment,
			Stats:      out.Stats,
		}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", s.opts.backend)
}

func (s *Solver) instance() (*instance.Instance, error) {
	if s.in != nil {
		return s.in, nil
	}
	in, err := instance.New(s.items, s.numBins, s.capacity)
	if err != nil {
		return nil, err
	}
	s.in = in
	return in, nil
}
