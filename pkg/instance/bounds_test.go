package instance

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func TestLowerBounds(t *testing.T) {
	tests := []struct {
		name     string
		sizes    []int
		capacity int
		l1       int
		l2       int
	}{
		{name: "empty", sizes: nil, capacity: 10, l1: 0, l2: 0},
		{name: "continuous bound is tight", sizes: []int{4, 4, 4, 4}, capacity: 8, l1: 2, l2: 2},
		{name: "big items need their own bin", sizes: []int{5, 5, 5}, capacity: 8, l1: 2, l2: 3},
		{name: "small items fill the gaps of big items", sizes: []int{6, 6, 2, 2, 2, 2}, capacity: 10, l1: 2, l2: 2},
		{name: "small items overflow the gaps", sizes: []int{6, 6, 4, 4, 4}, capacity: 10, l1: 3, l2: 3},
		{name: "threshold excludes items that cannot join big ones", sizes: []int{7, 7, 7, 4, 4}, capacity: 10, l1: 3, l2: 4},
		{name: "bounds stay exact near the int range", sizes: []int{math.MaxInt - 1, 1}, capacity: math.MaxInt - 1, l1: 2, l2: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGomegaWithT(t)
			in, err := New(tt.sizes, 10, tt.capacity)
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(in.LowerBoundL1()).To(Equal(tt.l1))
			g.Expect(in.LowerBoundL2()).To(Equal(tt.l2))
			g.Expect(in.LowerBoundL2()).To(BeNumerically(">=", in.LowerBoundL1()))
		})
	}
}
