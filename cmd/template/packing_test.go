package template

import (
	"bytes"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/sebdah/goldie/v2"

	"github.com/bpsolver/bpsolver/pkg/api"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		inst   *api.Instance
		result *api.Result
	}{
		{
			name: "packing_sat",
			inst: &api.Instance{Items: []int{5, 5, 4, 4, 2}, Bins: 2, Capacity: 10},
			result: &api.Result{
				Verdict:    api.VerdictSat,
				Source:     api.SourceSearch,
				Backend:    api.BackendCP,
				Assignment: []int{0, 0, 1, 1, 1},
				Stats:      api.Stats{Nodes: 3, Propagations: 7, MaxDepth: 2},
			},
		},
		{
			name: "packing_unsat",
			inst: &api.Instance{Name: "halves", Items: []int{6, 6, 6}, Bins: 2, Capacity: 10},
			result: &api.Result{
				Verdict: api.VerdictUnsat,
				Source:  api.SourcePreflight,
				Reason:  "the 3 largest items are pairwise incompatible",
			},
		},
	}
	gold := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGomegaWithT(t)
			buf := &bytes.Buffer{}
			g.Expect(Render(buf, tt.inst, tt.result)).To(Succeed())
			gold.Assert(t, tt.name, buf.Bytes())
		})
	}
}

func TestRender_EmptyBin(t *testing.T) {
	g := NewGomegaWithT(t)
	buf := &bytes.Buffer{}
	inst := &api.Instance{Items: []int{3}, Bins: 2, Capacity: 4}
	res := &api.Result{Verdict: api.VerdictSat, Source: api.SourcePreflight, Assignment: []int{1}}
	g.Expect(Render(buf, inst, res)).To(Succeed())
	g.Expect(buf.String()).To(ContainSubstring("0\t0/4\t4\t\n"))
	g.Expect(buf.String()).To(ContainSubstring("1\t3/4\t1\t#1:3\n"))
}
