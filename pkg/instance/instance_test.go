package instance

import (
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		sizes      []int
		bins       int
		capacity   int
		wantErr    bool
		infeasible bool
	}{
		{name: "should accept a regular instance", sizes: []int{4, 4, 4, 4}, bins: 2, capacity: 8},
		{name: "should accept an empty instance", sizes: nil, bins: 0, capacity: 0},
		{name: "should reject negative capacity", sizes: []int{1}, bins: 1, capacity: -1, wantErr: true},
		{name: "should reject negative bin count", sizes: []int{1}, bins: -2, capacity: 3, wantErr: true},
		{name: "should reject non-positive sizes", sizes: []int{1, 0, -3}, bins: 2, capacity: 3, wantErr: true},
		{name: "should fail fast on oversized items", sizes: []int{3}, bins: 1, capacity: 2, infeasible: true},
		{name: "should fail fast on total size", sizes: []int{5, 5, 5}, bins: 1, capacity: 10, infeasible: true},
		{name: "should fail fast without bins", sizes: []int{1}, bins: 0, capacity: 10, infeasible: true},
		{name: "should accept a total equal to the overall capacity", sizes: []int{5, 5, 5, 1}, bins: 2, capacity: 8},
		{name: "should accept sizes summing up to the int range", sizes: []int{math.MaxInt - 1, 1}, bins: 2, capacity: math.MaxInt - 1},
		{name: "should reject sizes summing beyond the int range", sizes: []int{math.MaxInt - 1, 1, 1}, bins: 3, capacity: math.MaxInt, wantErr: true},
		{name: "should fail fast on a total beyond bins times capacity without overflowing", sizes: []int{math.MaxInt / 2, math.MaxInt / 2, 1}, bins: 2, capacity: math.MaxInt / 2, infeasible: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGomegaWithT(t)
			in, err := New(tt.sizes, tt.bins, tt.capacity)
			if tt.wantErr {
				g.Expect(err).To(HaveOccurred())
				g.Expect(errors.Is(err, ErrInvalidInstance)).To(BeTrue())
				return
			}
			g.Expect(err).ToNot(HaveOccurred())
			infeasible, reason := in.Infeasible()
			g.Expect(infeasible).To(Equal(tt.infeasible))
			if tt.infeasible {
				g.Expect(reason).ToNot(BeEmpty())
			}
		})
	}
}

func TestNew_ReportsAllViolations(t *testing.T) {
	g := NewGomegaWithT(t)
	_, err := New([]int{0, 2, -1}, -1, -1)
	g.Expect(err).To(HaveOccurred())
	g.Expect(err.Error()).To(ContainSubstring("capacity"))
	g.Expect(err.Error()).To(ContainSubstring("number of bins"))
	g.Expect(err.Error()).To(ContainSubstring("item 0"))
	g.Expect(err.Error()).To(ContainSubstring("item 2"))
}

func TestInstance_Accessors(t *testing.T) {
	g := NewGomegaWithT(t)
	sizes := []int{3, 7, 5, 7, 1}
	in, err := New(sizes, 3, 10)
	g.Expect(err).ToNot(HaveOccurred())

	g.Expect(in.Len()).To(Equal(5))
	g.Expect(in.Total()).To(Equal(23))
	g.Expect(in.MaxSize()).To(Equal(7))
	g.Expect(in.Order()).To(Equal([]int{1, 3, 2, 0, 4}))
	g.Expect(in.Sorted()).To(Equal([]int{7, 7, 5, 3, 1}))

	// the instance owns its own copy of the sizes
	sizes[0] = 100
	g.Expect(in.Size(0)).To(Equal(3))
	in.Sizes()[1] = 100
	g.Expect(in.Size(1)).To(Equal(7))
}

func TestExceeds(t *testing.T) {
	g := NewGomegaWithT(t)
	g.Expect(exceeds(16, 2, 8)).To(BeFalse())
	g.Expect(exceeds(17, 2, 8)).To(BeTrue())
	g.Expect(exceeds(15, 2, 8)).To(BeFalse())
	g.Expect(exceeds(1, 0, 8)).To(BeTrue())
	g.Expect(exceeds(0, 0, 0)).To(BeFalse())
	// bins*capacity would overflow
	big := int(^uint(0) >> 2)
	g.Expect(exceeds(10, big, big)).To(BeFalse())
}
