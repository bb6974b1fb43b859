/*
Package domain holds the mutable state of the search: the candidate bins of
every item and the load of every bin. Every mutation is recorded on an undo
trail so that a search node can be restored to an earlier checkpoint.
*/
package domain

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/bpsolver/bpsolver/pkg/instance"
)

// ErrLocalFailure signals that the current search node is inconsistent. It is
// recovered by backtracking and never reaches callers of the oracle.
var ErrLocalFailure = errors.New("local failure")

const Unassigned = -1

type entryKind uint8

const (
	entryWord entryKind = iota
	entryAssign
)

type entry struct {
	kind entryKind
	item int
	// word index for entryWord, bin for entryAssign
	idx int
	old uint64
}

// Mark identifies a checkpoint on the trail.
type Mark int

type Store struct {
	in       *instance.Instance
	numBins  int
	capacity int
	words    int

	doms       []uint64
	domSize    []int
	assignedTo []int
	load       []int

	unassigned      int
	unassignedTotal int

	trail []entry
}

// New initializes a store in which every item may go to every bin and every
// bin is empty.
func New(in *instance.Instance) *Store {
	n, m := in.Len(), in.NumBins()
	words := (m + 63) / 64
	s := &Store{
		in:              in,
		numBins:         m,
		capacity:        in.Capacity(),
		words:           words,
		doms:            make([]uint64, n*words),
		domSize:         make([]int, n),
		assignedTo:      make([]int, n),
		load:            make([]int, m),
		unassigned:      n,
		unassignedTotal: in.Total(),
	}
	full := newFullBitset(m)
	for i := 0; i < n; i++ {
		copy(s.dom(i), full)
		s.domSize[i] = m
		s.assignedTo[i] = Unassigned
	}
	return s
}

// Clone returns an independent copy of the current state with an empty
// trail. Checkpoints of s are not valid on the clone.
func (s *Store) Clone() *Store {
	c := *s
	c.doms = append([]uint64(nil), s.doms...)
	c.domSize = append([]int(nil), s.domSize...)
	c.assignedTo = append([]int(nil), s.assignedTo...)
	c.load = append([]int(nil), s.load...)
	c.trail = nil
	return &c
}

func (s *Store) dom(item int) bitset {
	return bitset(s.doms[item*s.words : (item+1)*s.words])
}

func (s *Store) Instance() *instance.Instance { return s.in }
func (s *Store) Len() int                     { return len(s.domSize) }
func (s *Store) NumBins() int                 { return s.numBins }
func (s *Store) Capacity() int                { return s.capacity }

func (s *Store) Has(item, bin int) bool {
	return s.dom(item).has(bin)
}

func (s *Store) DomainSize(item int) int {
	return s.domSize[item]
}

// Min returns the lowest bin in the item's domain or -1 if it is empty.
func (s *Store) Min(item int) int {
	return s.dom(item).min()
}

// Next returns the lowest bin >= from in the item's domain or -1.
func (s *Store) Next(item, from int) int {
	return s.dom(item).next(from)
}

// Domain lists the candidate bins of an item in ascending order.
func (s *Store) Domain(item int) []int {
	d := s.dom(item)
	out := make([]int, 0, s.domSize[item])
	for b := d.min(); b >= 0; b = d.next(b + 1) {
		out = append(out, b)
	}
	return out
}

// SameDomain reports whether two items have identical candidate sets.
func (s *Store) SameDomain(a, b int) bool {
	return s.domSize[a] == s.domSize[b] && s.dom(a).equal(s.dom(b))
}

// Bin returns the bin an item is assigned to or Unassigned.
func (s *Store) Bin(item int) int {
	return s.assignedTo[item]
}

func (s *Store) IsAssigned(item int) bool {
	return s.assignedTo[item] != Unassigned
}

func (s *Store) Load(bin int) int {
	return s.load[bin]
}

func (s *Store) Residual(bin int) int {
	return s.capacity - s.load[bin]
}

// Unassigned returns the number of items without a bin.
func (s *Store) Unassigned() int {
	return s.unassigned
}

// UnassignedTotal returns the total size of the items without a bin.
func (s *Store) UnassignedTotal() int {
	return s.unassignedTotal
}

func (s *Store) Complete() bool {
	return s.unassigned == 0
}

// Assignment returns the bin of every item. Items without a bin are reported
// as Unassigned.
func (s *Store) Assignment() []int {
	return append([]int(nil), s.assignedTo...)
}

// Remove deletes bin from the candidates of item. It reports whether the
// domain changed and fails with ErrLocalFailure when the domain becomes empty.
func (s *Store) Remove(item, bin int) (bool, error) {
	d := s.dom(item)
	if !d.has(bin) {
		return false, nil
	}
	wi := bin >> 6
	s.trail = append(s.trail, entry{kind: entryWord, item: item, idx: wi, old: d[wi]})
	d[wi] &^= uint64(1) << (bin & 63)
	s.domSize[item]--
	if s.domSize[item] == 0 {
		return true, ErrLocalFailure
	}
	return true, nil
}

// Assign commits item to bin. The item's domain collapses to that bin and the
// bin's residual capacity shrinks by the item size.
func (s *Store) Assign(item, bin int) error {
	if cur := s.assignedTo[item]; cur != Unassigned {
		if cur == bin {
			return nil
		}
		return ErrLocalFailure
	}
	d := s.dom(item)
	if !d.has(bin) {
		return ErrLocalFailure
	}
	size := s.in.Size(item)
	if s.capacity-s.load[bin] < size {
		return ErrLocalFailure
	}
	target := bin >> 6
	for wi := range d {
		want := uint64(0)
		if wi == target {
			want = uint64(1) << (bin & 63)
		}
		if d[wi] != want {
			s.trail = append(s.trail, entry{kind: entryWord, item: item, idx: wi, old: d[wi]})
			d[wi] = want
		}
	}
	s.domSize[item] = 1
	s.trail = append(s.trail, entry{kind: entryAssign, item: item, idx: bin})
	s.assignedTo[item] = bin
	s.load[bin] += size
	s.unassigned--
	s.unassignedTotal -= size
	return nil
}

// Checkpoint returns a mark to which Restore can roll back.
func (s *Store) Checkpoint() Mark {
	return Mark(len(s.trail))
}

// Restore undoes every mutation recorded after mark.
func (s *Store) Restore(mark Mark) {
	for len(s.trail) > int(mark) {
		e := s.trail[len(s.trail)-1]
		s.trail = s.trail[:len(s.trail)-1]
		switch e.kind {
		case entryWord:
			d := s.dom(e.item)
			s.domSize[e.item] += bits.OnesCount64(e.old) - bits.OnesCount64(d[e.idx])
			d[e.idx] = e.old
		case entryAssign:
			size := s.in.Size(e.item)
			s.assignedTo[e.item] = Unassigned
			s.load[e.idx] -= size
			s.unassigned++
			s.unassignedTotal += size
		}
	}
}

// TrailLen reports the number of undo entries.
func (s *Store) TrailLen() int {
	return len(s.trail)
}

func (s *Store) String() string {
	return fmt.Sprintf("Store(unassigned=%d/%d, trail=%d)", s.unassigned, len(s.domSize), len(s.trail))
}
