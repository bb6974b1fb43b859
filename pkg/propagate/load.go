package propagate

import (
	"golang.org/x/exp/slices"

	"github.com/bpsolver/bpsolver/pkg/domain"
)

// LoadBounds reasons about the load every bin must reach. A bin can hold at
// most its current load plus the unassigned items that may still go there,
// capped by the capacity. Since all items have to be packed, each bin has to
// carry at least the total size minus what all other bins can hold. An item
// without which a bin cannot reach that minimum is forced into the bin.
type LoadBounds struct {
	cand    []int
	maxLoad []int
}

func (p *LoadBounds) Name() string { return "load-bounds" }

func (p *LoadBounds) Propagate(s *domain.Store) (bool, error) {
	in := s.Instance()
	m := s.NumBins()
	if cap(p.cand) < m {
		p.cand = make([]int, m)
		p.maxLoad = make([]int, m)
	}
	cand, maxLoad := p.cand[:m], p.maxLoad[:m]
	for b := range cand {
		cand[b] = 0
	}
	for i := 0; i < s.Len(); i++ {
		if s.IsAssigned(i) {
			continue
		}
		size := in.Size(i)
		for b := s.Min(i); b >= 0; b = s.Next(i, b+1) {
			cand[b] += size
		}
	}

	// slack is the sum of all maximum loads minus the total size. It is
	// capped at the total, beyond that no bin needs any item.
	total := in.Total()
	slack := -total
	for b := 0; b < m; b++ {
		maxLoad[b] = min(s.Capacity(), s.Load(b)+cand[b])
		if slack > total-maxLoad[b] {
			slack = total
		} else {
			slack += maxLoad[b]
		}
	}
	if slack < 0 {
		return false, domain.ErrLocalFailure
	}

	order := in.Order()
	for b := 0; b < m; b++ {
		need := maxLoad[b] - s.Load(b) - slack
		if need <= 0 {
			continue
		}
		for _, i := range order {
			if cand[b]-in.Size(i) >= need {
				break
			}
			if s.IsAssigned(i) || !s.Has(i, b) {
				continue
			}
			// loads are stale after an assignment, let the fixpoint loop
			// recompute them
			return true, s.Assign(i, b)
		}
	}
	return false, nil
}

// BigItems checks items which are pairwise incompatible: if two unassigned
// items are both larger than half of the largest residual capacity, they
// cannot share a bin. The k-th largest of them therefore needs k distinct bins
// with enough room.
type BigItems struct {
	residuals []int
}

func (p *BigItems) Name() string { return "big-items" }

func (p *BigItems) Propagate(s *domain.Store) (bool, error) {
	m := s.NumBins()
	if cap(p.residuals) < m {
		p.residuals = make([]int, m)
	}
	residuals := p.residuals[:m]
	largest := 0
	for b := 0; b < m; b++ {
		residuals[b] = s.Residual(b)
		largest = max(largest, residuals[b])
	}
	slices.Sort(residuals)

	in := s.Instance()
	k := 0
	fitting := 0
	next := m - 1
	for _, i := range in.Order() {
		size := in.Size(i)
		if size <= largest-size {
			break
		}
		if s.IsAssigned(i) {
			continue
		}
		k++
		for next >= 0 && residuals[next] >= size {
			fitting++
			next--
		}
		if fitting < k {
			return false, domain.ErrLocalFailure
		}
	}
	return false, nil
}
