package stretch

import (
	"context"
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/bpsolver/bpsolver/pkg/api"
	"github.com/bpsolver/bpsolver/pkg/solver"
)

func TestDefaultBounds(t *testing.T) {
	g := NewGomegaWithT(t)
	for capacity, want := range map[int][2]int{
		1:  {1, 2},
		2:  {2, 4},
		3:  {4, 5},
		4:  {5, 7},
		12: {16, 19},
		17: {22, 26},
	} {
		g.Expect(DefaultLowerBound(capacity)).To(Equal(want[0]), "lower bound for %d", capacity)
		g.Expect(DefaultUpperBound(capacity)).To(Equal(want[1]), "upper bound for %d", capacity)
	}
}

func TestRun_KeepsBaselineOnFewBins(t *testing.T) {
	tests := []struct {
		name     string
		bins     int
		capacity int
	}{
		{name: "should keep the baseline for one unit bin pair", bins: 2, capacity: 1},
		{name: "should keep the baseline for two bins of capacity 2", bins: 2, capacity: 2},
		{name: "should keep the baseline for two bins of capacity 3", bins: 2, capacity: 3},
		{name: "should keep the baseline for two bins of capacity 4", bins: 2, capacity: 4},
		{name: "should keep the baseline for two bins of capacity 6", bins: 2, capacity: 6},
		{name: "should keep the baseline for three bins of capacity 2", bins: 3, capacity: 2},
		{name: "should keep the baseline for three bins of capacity 3", bins: 3, capacity: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGomegaWithT(t)
			memo, err := Run(context.Background(), tt.bins, tt.capacity, Options{})
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(memo.LowerBound).To(Equal(DefaultLowerBound(tt.capacity)))
			g.Expect(memo.Value).To(Equal(memo.LowerBound))
			g.Expect(memo.Improved()).To(BeFalse())
			g.Expect(memo.Stats.Nodes).To(BeNumerically(">", 0))
			g.Expect(memo.Stats.FeasibilityChecks).To(BeNumerically(">", 0))

			plain, err := Run(context.Background(), tt.bins, tt.capacity, Options{NoMemo: true})
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(plain.Value).To(Equal(memo.Value))
			g.Expect(plain.Stats.MemoHits).To(BeZero())
		})
	}
}

func TestRun_ForcesFourThirds(t *testing.T) {
	g := NewGomegaWithT(t)
	for _, noMemo := range []bool{false, true} {
		res, err := Run(context.Background(), 2, 3, Options{LowerBound: 3, NoMemo: noMemo})
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(res.Value).To(Equal(4))
		g.Expect(res.Improved()).To(BeTrue())
		g.Expect(res.Factor()).To(BeNumerically("~", 4.0/3.0, 1e-9))

		g.Expect(res.Backtrack.Len()).To(BeNumerically(">", 1))
		name, _ := res.Backtrack.Label("Name")
		g.Expect(name).To(Equal("Root"))
		_, ok := res.Backtrack.Label("Next weight")
		g.Expect(ok).To(BeTrue())
	}
}

func TestRun_Weights(t *testing.T) {
	g := NewGomegaWithT(t)

	res, err := Run(context.Background(), 2, 3, Options{Weights: []int{1, 1, 9}, LowerBound: 3})
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(res.Weights).To(Equal([]int{1}))
	// unit items can always be balanced
	g.Expect(res.Value).To(Equal(3))
	g.Expect(res.Improved()).To(BeFalse())

	memo, err := Run(context.Background(), 2, 4, Options{Weights: []int{3, 2, 1}, LowerBound: 4})
	g.Expect(err).ToNot(HaveOccurred())
	plain, err := Run(context.Background(), 2, 4, Options{Weights: []int{3, 2, 1}, LowerBound: 4, NoMemo: true})
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(memo.Value).To(Equal(plain.Value))
}

func TestRun_OracleOptions(t *testing.T) {
	g := NewGomegaWithT(t)
	base, err := Run(context.Background(), 2, 3, Options{LowerBound: 3})
	g.Expect(err).ToNot(HaveOccurred())
	sat, err := Run(context.Background(), 2, 3, Options{LowerBound: 3, Oracle: []solver.Option{solver.WithBackend(api.BackendSAT), solver.WithPreflight(false)}})
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(sat.Value).To(Equal(base.Value))
}

func TestRun_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		bins     int
		capacity int
		opts     Options
	}{
		{name: "should reject no bins", bins: 0, capacity: 3},
		{name: "should reject zero capacity", bins: 2, capacity: 0},
		{name: "should reject non positive weights", bins: 2, capacity: 3, opts: Options{Weights: []int{2, 0}}},
		{name: "should reject weights which fit nowhere", bins: 2, capacity: 3, opts: Options{Weights: []int{4, 5}}},
		{name: "should reject a total capacity beyond the int range", bins: 3, capacity: math.MaxInt / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGomegaWithT(t)
			_, err := Run(context.Background(), tt.bins, tt.capacity, tt.opts)
			g.Expect(err).To(MatchError(ErrInvalidGame))
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	g := NewGomegaWithT(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, 2, 3, Options{})
	g.Expect(errors.Is(err, context.Canceled)).To(BeTrue())
}

func TestMemoEntry_Answers(t *testing.T) {
	g := NewGomegaWithT(t)
	exact := memoEntry{lower: 4, upper: 8, value: 6}
	g.Expect(exact.answers(5, 7)).To(BeTrue())
	g.Expect(exact.answers(1, 20)).To(BeTrue())

	cutAbove := memoEntry{lower: 4, upper: 6, value: 6}
	g.Expect(cutAbove.answers(4, 6)).To(BeTrue())
	g.Expect(cutAbove.answers(4, 9)).To(BeFalse())

	cutBelow := memoEntry{lower: 5, upper: 8, value: 5}
	g.Expect(cutBelow.answers(5, 8)).To(BeTrue())
	g.Expect(cutBelow.answers(3, 8)).To(BeFalse())
}

func TestKey_IgnoresBinOrder(t *testing.T) {
	g := NewGomegaWithT(t)
	a := &adversary{loads: []int{3, 1, 0}, items: []int{2, 1, 1}}
	b := &adversary{loads: []int{0, 3, 1}, items: []int{1, 2, 1}}
	g.Expect(a.key()).To(Equal(b.key()))

	c := &adversary{loads: []int{3, 1, 0}, items: []int{3, 1}}
	g.Expect(a.key()).ToNot(Equal(c.key()))
}
