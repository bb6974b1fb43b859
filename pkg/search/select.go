package search

import (
	"github.com/bpsolver/bpsolver/pkg/domain"
	"github.com/bpsolver/bpsolver/pkg/propagate"
)

// selectItem returns the unassigned item with the smallest domain. Ties go to
// the larger item, then to the lower index, which is exactly the order of the
// instance's size ranking. It returns -1 when every item is assigned.
func selectItem(s *domain.Store) int {
	best := -1
	bestSize := 0
	for _, i := range s.Instance().Order() {
		if s.IsAssigned(i) {
			continue
		}
		if size := s.DomainSize(i); best < 0 || size < bestSize {
			best, bestSize = i, size
		}
	}
	return best
}

// rootCandidates lists the bins item may take, skipping every empty bin which
// is interchangeable with a bin listed before it.
func rootCandidates(s *domain.Store, item int, binSymmetry bool) []int {
	var candidates []int
	for b := s.Min(item); b >= 0; b = s.Next(item, b+1) {
		if binSymmetry && s.Load(b) == 0 && equivalentToAny(s, b, candidates) {
			continue
		}
		candidates = append(candidates, b)
	}
	return candidates
}

func equivalentToAny(s *domain.Store, bin int, bins []int) bool {
	for _, other := range bins {
		if s.Load(other) == 0 && propagate.SameColumn(s, bin, other) {
			return true
		}
	}
	return false
}
