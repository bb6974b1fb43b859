package reducer

import (
	"fmt"

	"github.com/bpsolver/bpsolver/pkg/api"
	"github.com/bpsolver/bpsolver/pkg/instance"
)

// EnoughBins puts every item into a bin of its own.
type EnoughBins struct{}

func (EnoughBins) Name() string { return "enough-bins" }

func (EnoughBins) Apply(in *instance.Instance) (Decision, bool) {
	if in.Len() > in.NumBins() || in.MaxSize() > in.Capacity() {
		return Decision{}, false
	}
	assignment := make([]int, in.Len())
	for i := range assignment {
		assignment[i] = i
	}
	return Decision{
		Verdict:    api.VerdictSat,
		Reason:     fmt.Sprintf("%d items fit into %d bins one by one", in.Len(), in.NumBins()),
		Assignment: assignment,
	}, true
}

// NextFit fills one bin after the other and opens the next bin when the
// current item does not fit anymore. With Decreasing set the items are taken
// by decreasing size, otherwise in input order.
type NextFit struct {
	Decreasing bool
}

func (r NextFit) Name() string {
	if r.Decreasing {
		return "next-fit-decreasing"
	}
	return "next-fit"
}

func (r NextFit) Apply(in *instance.Instance) (Decision, bool) {
	if in.NumBins() == 0 {
		return Decision{}, false
	}
	assignment := make([]int, in.Len())
	bin, residual := 0, in.Capacity()
	for k := 0; k < in.Len(); k++ {
		i := k
		if r.Decreasing {
			i = in.Order()[k]
		}
		size := in.Size(i)
		if size > residual {
			bin++
			residual = in.Capacity()
			if bin == in.NumBins() || size > residual {
				return Decision{}, false
			}
		}
		residual -= size
		assignment[i] = bin
	}
	return Decision{
		Verdict:    api.VerdictSat,
		Reason:     fmt.Sprintf("packed into %d of %d bins", bin+1, in.NumBins()),
		Assignment: assignment,
	}, true
}

// PairBound looks at the m+1 largest items. If the two smallest of them do
// not fit together, none of them can share a bin.
type PairBound struct{}

func (PairBound) Name() string { return "pair-bound" }

func (PairBound) Apply(in *instance.Instance) (Decision, bool) {
	m := in.NumBins()
	if m == 0 || in.Len() <= m {
		return Decision{}, false
	}
	sorted := in.Sorted()
	if sorted[m-1] <= in.Capacity()-sorted[m] {
		return Decision{}, false
	}
	return Decision{
		Verdict: api.VerdictUnsat,
		Reason:  fmt.Sprintf("the %d largest items are pairwise incompatible", m+1),
	}, true
}

// BigItemCount counts items above half the capacity as two halves. Every bin
// holds at most two halves.
type BigItemCount struct{}

func (BigItemCount) Name() string { return "big-items" }

func (BigItemCount) Apply(in *instance.Instance) (Decision, bool) {
	c := in.Capacity()
	big, half := 0, 0
	for _, s := range in.Sorted() {
		switch {
		case s > c-s:
			big++
		case s == c-s:
			half++
		}
	}
	if m := in.NumBins(); m >= big+half || 2*big+half <= 2*m {
		return Decision{}, false
	}
	return Decision{
		Verdict: api.VerdictUnsat,
		Reason:  fmt.Sprintf("%d big and %d half items need more than %d bins", big, half, in.NumBins()),
	}, true
}

// LowerBound compares the Martello-Toth L2 bound with the available bins.
type LowerBound struct{}

func (LowerBound) Name() string { return "lower-bound" }

func (LowerBound) Apply(in *instance.Instance) (Decision, bool) {
	l2 := in.LowerBoundL2()
	if l2 <= in.NumBins() {
		return Decision{}, false
	}
	return Decision{
		Verdict: api.VerdictUnsat,
		Reason:  fmt.Sprintf("at least %d bins are needed, only %d available", l2, in.NumBins()),
	}, true
}

// BestFitDecreasing puts every item, largest first, into the fullest bin
// which still has room for it.
type BestFitDecreasing struct{}

func (BestFitDecreasing) Name() string { return "best-fit-decreasing" }

func (BestFitDecreasing) Apply(in *instance.Instance) (Decision, bool) {
	residuals := make([]int, in.NumBins())
	for b := range residuals {
		residuals[b] = in.Capacity()
	}
	assignment := make([]int, in.Len())
	for _, i := range in.Order() {
		size := in.Size(i)
		best := -1
		for b, r := range residuals {
			if r >= size && (best < 0 || r < residuals[best]) {
				best = b
			}
		}
		if best < 0 {
			return Decision{}, false
		}
		residuals[best] -= size
		assignment[i] = best
	}
	return Decision{
		Verdict:    api.VerdictSat,
		Reason:     "best fit decreasing found a packing",
		Assignment: assignment,
	}, true
}
