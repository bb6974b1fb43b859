package instance

import (
	"math/rand"
)

// Generate draws a feasible instance with a planted packing. Every bin
// receives random items of size 1..capacity until the next one does not fit.
// With full set the bin is then topped up with an item filling it exactly.
// The items are shuffled; assignment holds the planted bin of every item.
func Generate(r *rand.Rand, numBins, capacity int, full bool) (sizes []int, assignment []int) {
	if capacity <= 0 {
		return nil, nil
	}
	for b := 0; b < numBins; b++ {
		residual := capacity
		for {
			size := 1 + r.Intn(capacity)
			if size <= residual {
				sizes = append(sizes, size)
				assignment = append(assignment, b)
				residual -= size
				continue
			}
			if full && residual > 0 {
				sizes = append(sizes, residual)
				assignment = append(assignment, b)
			}
			break
		}
	}
	r.Shuffle(len(sizes), func(i, j int) {
		sizes[i], sizes[j] = sizes[j], sizes[i]
		assignment[i], assignment[j] = assignment[j], assignment[i]
	})
	return sizes, assignment
}
