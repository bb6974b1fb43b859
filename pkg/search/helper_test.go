package search

import (
	"math/rand"

	. "github.com/onsi/gomega"

	"github.com/bpsolver/bpsolver/pkg/instance"
)

// bruteForce decides small instances by trying every bin for every item.
func bruteForce(sizes []int, bins, capacity int) bool {
	loads := make([]int, bins)
	var place func(i int) bool
	place = func(i int) bool {
		if i == len(sizes) {
			return true
		}
		for b := range loads {
			if loads[b]+sizes[i] > capacity {
				continue
			}
			loads[b] += sizes[i]
			ok := place(i + 1)
			loads[b] -= sizes[i]
			if ok {
				return true
			}
		}
		return false
	}
	return place(0)
}

type randomInstance struct {
	sizes    []int
	bins     int
	capacity int
}

func randomInstances(seed int64, count int) []randomInstance {
	r := rand.New(rand.NewSource(seed))
	var instances []randomInstance
	for len(instances) < count {
		capacity := 1 + r.Intn(12)
		bins := 1 + r.Intn(4)
		sizes := make([]int, 1+r.Intn(9))
		for i := range sizes {
			sizes[i] = 1 + r.Intn(capacity)
		}
		instances = append(instances, randomInstance{sizes: sizes, bins: bins, capacity: capacity})
	}
	return instances
}

func newInstance(g *WithT, sizes []int, bins, capacity int) *instance.Instance {
	in, err := instance.New(sizes, bins, capacity)
	g.Expect(err).ToNot(HaveOccurred())
	return in
}

func expectValidPacking(g *WithT, sizes []int, bins, capacity int, assignment []int) {
	g.Expect(assignment).To(HaveLen(len(sizes)))
	loads := make([]int, bins)
	for i, b := range assignment {
		g.Expect(b).To(And(BeNumerically(">=", 0), BeNumerically("<", bins)))
		loads[b] += sizes[i]
	}
	for _, l := range loads {
		g.Expect(l).To(BeNumerically("<=", capacity))
	}
}
