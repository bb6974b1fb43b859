package instance

import (
	"golang.org/x/exp/slices"
)

// LowerBoundL1 is the continuous bound ceil(total / capacity).
func (in *Instance) LowerBoundL1() int {
	if in.total == 0 {
		return 0
	}
	if in.capacity == 0 {
		return len(in.sizes)
	}
	return ceilDiv(in.total, in.capacity)
}

// LowerBoundL2 computes the Martello-Toth L2 bound on the number of bins
// needed to pack all items. For every threshold a in {0} and the distinct
// sizes not larger than C/2, items are split into
//
//	J1: s > C-a, J2: C/2 < s <= C-a, J3: a <= s <= C/2
//
// J1 and J2 items need a bin each, J3 items can only use the space J2 items
// leave free. L2 is the best of these bounds and is never lower than L1.
func (in *Instance) LowerBoundL2() int {
	if len(in.sizes) == 0 {
		return 0
	}
	c := in.capacity
	if c == 0 {
		return len(in.sizes)
	}

	thresholds := []int{0}
	for _, s := range in.sizes {
		if s <= c-s {
			thresholds = append(thresholds, s)
		}
	}
	slices.Sort(thresholds)
	thresholds = slices.Compact(thresholds)

	best := in.LowerBoundL1()
	for _, a := range thresholds {
		j1, j2, free, rest := 0, 0, 0, 0
		for _, s := range in.sizes {
			switch {
			case s > c-a:
				j1++
			case s > c-s:
				j2++
				free += c - s
			case s >= a:
				rest += s
			}
		}
		bound := j1 + j2
		if rest > free {
			bound += ceilDiv(rest-free, c)
		}
		if bound > best {
			best = bound
		}
	}
	return best
}

// ceilDiv rounds a/b up without forming a+b.
func ceilDiv(a, b int) int {
	if a%b == 0 {
		return a / b
	}
	return a/b + 1
}
