package trace

import (
	"bytes"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/sebdah/goldie/v2"
)

func TestBacktrack_Labels(t *testing.T) {
	g := NewGomegaWithT(t)
	b := NewBacktrack()
	b.Set("cut", "LB >= UB")
	b.Set("Next weight", 3)
	b.Set("cut", "Cannot improve")

	v, ok := b.Label("cut")
	g.Expect(ok).To(BeTrue())
	g.Expect(v).To(Equal("Cannot improve"))
	v, ok = b.Label("Next weight")
	g.Expect(ok).To(BeTrue())
	g.Expect(v).To(Equal("3"))
	_, ok = b.Label("bins")
	g.Expect(ok).To(BeFalse())
}

func TestBacktrack_WriteDOT(t *testing.T) {
	g := NewGomegaWithT(t)
	root := NewBacktrack()
	root.Set("Name", "Root")
	root.Set("Next weight", 2)

	left := NewBacktrack()
	left.Set("bins", []int{2, 0})
	leaf := NewBacktrack()
	leaf.Set("bins", []int{4, 0})
	leaf.Set("cut", "Wmax >= UB")
	left.Extend(leaf)

	right := NewBacktrack()
	right.Set("bins", []int{0, 2})
	right.Set("cut", "Memoized value")

	dropped := NewBacktrack()
	dropped.Set("bins", []int{1, 1})

	root.Extend(left, right)
	g.Expect(root.Len()).To(Equal(4))
	g.Expect(root.Children()).To(HaveLen(2))

	buf := &bytes.Buffer{}
	g.Expect(root.WriteDOT(buf)).To(Succeed())
	gold := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	gold.Assert(t, "backtrack", buf.Bytes())
}
