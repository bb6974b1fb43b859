/*
Package instance holds the immutable description of a bin packing feasibility
problem together with the aggregates the propagators and the search need.
*/
package instance

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/multierr"
)

var ErrInvalidInstance = errors.New("invalid instance")

// Instance is read-only after New returns. It is safe to share between
// goroutines.
type Instance struct {
	sizes    []int
	numBins  int
	capacity int
	total    int
	// order lists item indices by decreasing size, ties by lower index.
	order []int
}

// New validates the input and builds an instance. Malformed input is reported
// as ErrInvalidInstance, with every violation listed. An instance that is
// valid but trivially infeasible is still returned; see Infeasible.
func New(sizes []int, numBins, capacity int) (*Instance, error) {
	var err error
	if capacity < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: capacity must not be negative, got %d", ErrInvalidInstance, capacity))
	}
	if numBins < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: number of bins must not be negative, got %d", ErrInvalidInstance, numBins))
	}
	total := 0
	for i, s := range sizes {
		switch {
		case s <= 0:
			err = multierr.Append(err, fmt.Errorf("%w: size of item %d must be positive, got %d", ErrInvalidInstance, i, s))
		case total >= 0 && s > math.MaxInt-total:
			err = multierr.Append(err, fmt.Errorf("%w: total size exceeds %d at item %d", ErrInvalidInstance, math.MaxInt, i))
			total = -1
		case total >= 0:
			total += s
		}
	}
	if err != nil {
		return nil, err
	}

	in := &Instance{
		sizes:    append([]int(nil), sizes...),
		numBins:  numBins,
		capacity: capacity,
		total:    total,
		order:    make([]int, len(sizes)),
	}
	for i := range sizes {
		in.order[i] = i
	}
	sort.SliceStable(in.order, func(a, b int) bool {
		return in.sizes[in.order[a]] > in.sizes[in.order[b]]
	})
	return in, nil
}

func (in *Instance) Len() int      { return len(in.sizes) }
func (in *Instance) NumBins() int  { return in.numBins }
func (in *Instance) Capacity() int { return in.capacity }
func (in *Instance) Total() int    { return in.total }
func (in *Instance) Size(i int) int {
	return in.sizes[i]
}

// Sizes returns a copy of the item sizes in input order.
func (in *Instance) Sizes() []int {
	return append([]int(nil), in.sizes...)
}

// Order returns the item indices sorted by decreasing size. The returned slice
// is shared and must not be modified.
func (in *Instance) Order() []int {
	return in.order
}

// Sorted returns the item sizes in decreasing order.
func (in *Instance) Sorted() []int {
	sorted := make([]int, len(in.order))
	for k, i := range in.order {
		sorted[k] = in.sizes[i]
	}
	return sorted
}

// MaxSize returns the largest item size or 0 for an empty instance.
func (in *Instance) MaxSize() int {
	if len(in.order) == 0 {
		return 0
	}
	return in.sizes[in.order[0]]
}

// Infeasible reports the fast-fail conditions which prove infeasibility
// without any search.
func (in *Instance) Infeasible() (bool, string) {
	if len(in.sizes) == 0 {
		return false, ""
	}
	if in.numBins == 0 {
		return true, fmt.Sprintf("%d items but no bins", len(in.sizes))
	}
	if largest := in.MaxSize(); largest > in.capacity {
		return true, fmt.Sprintf("item of size %d exceeds capacity %d", largest, in.capacity)
	}
	if exceeds(in.total, in.numBins, in.capacity) {
		return true, fmt.Sprintf("total size %d exceeds %d bins of capacity %d", in.total, in.numBins, in.capacity)
	}
	return false, ""
}

// exceeds reports total > bins*capacity without computing the product, which
// may not fit into an int.
func exceeds(total, bins, capacity int) bool {
	if bins == 0 || capacity == 0 {
		return total > 0
	}
	q := total / capacity
	switch {
	case q > bins:
		return true
	case q < bins:
		return false
	default:
		return total%capacity > 0
	}
}

func (in *Instance) String() string {
	return fmt.Sprintf("Instance(n=%d,m=%d,C=%d,total=%d)", len(in.sizes), in.numBins, in.capacity, in.total)
}
