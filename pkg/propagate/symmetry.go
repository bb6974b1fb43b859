package propagate

import (
	"github.com/bpsolver/bpsolver/pkg/domain"
)

// Nogood is a (item, bin) pair that can be removed from the store.
type Nogood struct {
	Item int
	Bin  int
}

// FixRoot breaks bin symmetry before the search starts, while all bins are
// still empty and interchangeable. Items larger than half the capacity are
// pairwise incompatible and go to bins 0, 1, 2, ... in decreasing size order.
// Items of exactly half the capacity follow, two per bin. When there are no
// such items, the largest item is put into bin 0.
func FixRoot(s *domain.Store) error {
	in := s.Instance()
	c := s.Capacity()
	bin := 0
	half := false
	fixed := 0
	for _, i := range in.Order() {
		size := in.Size(i)
		if size < c-size {
			break
		}
		if bin >= s.NumBins() {
			return domain.ErrLocalFailure
		}
		if err := s.Assign(i, bin); err != nil {
			return err
		}
		fixed++
		if size == c-size && !half {
			half = true
		} else {
			half = false
			bin++
		}
	}
	if fixed == 0 && in.Len() > 0 && s.NumBins() > 0 {
		return s.Assign(in.Order()[0], 0)
	}
	return nil
}

// Symmetry derives the removals which become valid once a branch item->bin
// has been refuted. It combines two rules:
//
//   - Dominance: unassigned items with the size and the domain of item are
//     interchangeable with it, so none of them can go into bin either.
//   - Bin symmetry: empty bins whose columns (the set of unassigned items
//     admitting them) equal the column of bin are interchangeable with it,
//     so item and its peers cannot go into any of them.
//
// Nogoods must be computed on the state the refuted branch started from.
type Symmetry struct {
	Dominance   bool
	BinSymmetry bool
}

func (y Symmetry) Nogoods(s *domain.Store, item, bin int) []Nogood {
	nogoods := []Nogood{{Item: item, Bin: bin}}
	peers := []int{item}
	if y.Dominance {
		peers = append(peers, Peers(s, item)...)
		for _, p := range peers[1:] {
			nogoods = append(nogoods, Nogood{Item: p, Bin: bin})
		}
	}
	if y.BinSymmetry && s.Load(bin) == 0 {
		for b := s.Min(item); b >= 0; b = s.Next(item, b+1) {
			if b == bin || s.Load(b) != 0 || !SameColumn(s, b, bin) {
				continue
			}
			for _, p := range peers {
				nogoods = append(nogoods, Nogood{Item: p, Bin: b})
			}
		}
	}
	return nogoods
}

// Peers returns the unassigned items, other than item, that share its size
// and its domain.
func Peers(s *domain.Store, item int) []int {
	in := s.Instance()
	size := in.Size(item)
	var peers []int
	for j := 0; j < s.Len(); j++ {
		if j == item || s.IsAssigned(j) || in.Size(j) != size {
			continue
		}
		if s.SameDomain(item, j) {
			peers = append(peers, j)
		}
	}
	return peers
}

// SameColumn reports whether exactly the same unassigned items admit bins a
// and b.
func SameColumn(s *domain.Store, a, b int) bool {
	for i := 0; i < s.Len(); i++ {
		if s.IsAssigned(i) {
			continue
		}
		if s.Has(i, a) != s.Has(i, b) {
			return false
		}
	}
	return true
}

// Apply removes every nogood from the store.
func Apply(s *domain.Store, nogoods []Nogood) error {
	for _, ng := range nogoods {
		if _, err := s.Remove(ng.Item, ng.Bin); err != nil {
			return err
		}
	}
	return nil
}
