package propagate

import (
	"github.com/bpsolver/bpsolver/pkg/domain"
)

// Singletons assigns every unassigned item whose domain holds one bin.
type Singletons struct{}

func (p *Singletons) Name() string { return "singletons" }

func (p *Singletons) Propagate(s *domain.Store) (bool, error) {
	changed := false
	for i := 0; i < s.Len(); i++ {
		if s.IsAssigned(i) || s.DomainSize(i) != 1 {
			continue
		}
		if err := s.Assign(i, s.Min(i)); err != nil {
			return changed, err
		}
		changed = true
	}
	return changed, nil
}

// CapacityBound removes a bin from every unassigned item that no longer fits
// into its residual capacity.
type CapacityBound struct{}

func (p *CapacityBound) Name() string { return "capacity" }

func (p *CapacityBound) Propagate(s *domain.Store) (bool, error) {
	in := s.Instance()
	order := in.Order()
	changed := false
	for b := 0; b < s.NumBins(); b++ {
		residual := s.Residual(b)
		for _, i := range order {
			if in.Size(i) <= residual {
				break
			}
			if s.IsAssigned(i) {
				continue
			}
			c, err := s.Remove(i, b)
			if err != nil {
				return true, err
			}
			changed = changed || c
		}
	}
	return changed, nil
}

// GlobalCapacity fails when the free space of all bins together cannot hold
// the unassigned items.
type GlobalCapacity struct{}

func (p *GlobalCapacity) Name() string { return "global-capacity" }

func (p *GlobalCapacity) Propagate(s *domain.Store) (bool, error) {
	missing := s.UnassignedTotal()
	for b := 0; b < s.NumBins() && missing > 0; b++ {
		missing -= min(missing, s.Residual(b))
	}
	if missing > 0 {
		return false, domain.ErrLocalFailure
	}
	return false, nil
}
