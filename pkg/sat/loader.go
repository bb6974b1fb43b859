package sat

import (
	"fmt"

	"github.com/crillab/gophersat/solver"
	"github.com/sirupsen/logrus"

	"github.com/bpsolver/bpsolver/pkg/instance"
)

// Var is the boolean "item goes into bin".
type Var struct {
	satVarName int
	Item       int
	Bin        int
}

func (v Var) String() string {
	return fmt.Sprintf("x%d_%d", v.Item, v.Bin)
}

// Model is the pseudo-boolean encoding of an instance.
type Model struct {
	in     *instance.Instance
	vars   []*Var
	constr []solver.PBConstr
}

func (m *Model) Vars() []*Var {
	return m.vars
}

func (m *Model) Constraints() int {
	return len(m.constr)
}

type Loader struct {
	m         *Model
	varsCount int
}

func NewLoader() *Loader {
	return &Loader{
		m:         &Model{},
		varsCount: 0,
	}
}

// Load generates one variable per item and bin, and the constraints
//
//   - every item goes into exactly one bin
//   - the sizes in every bin sum up to at most the capacity
//   - the largest item goes into bin 0
func (loader *Loader) Load(in *instance.Instance) *Model {
	loader.m.in = in
	m := in.NumBins()

	// Generate variables
	for i := 0; i < in.Len(); i++ {
		for b := 0; b < m; b++ {
			loader.m.vars = append(loader.m.vars, &Var{satVarName: loader.ticket(), Item: i, Bin: b})
		}
	}
	logrus.Debugf("Generated %v variables.", len(loader.m.vars))

	for i := 0; i < in.Len(); i++ {
		lits := loader.itemLits(i)
		loader.m.constr = append(loader.m.constr, solver.AtLeast(lits, 1), solver.AtMost(lits, 1))
	}
	for b := 0; b < m; b++ {
		lits, weights := loader.binLits(b)
		loader.m.constr = append(loader.m.constr, solver.LtEq(lits, weights, in.Capacity()))
	}
	if in.Len() > 0 && m > 0 {
		loader.m.constr = append(loader.m.constr, solver.PropClause(loader.lit(in.Order()[0], 0)))
	}
	logrus.Debugf("Generated %v constraints.", len(loader.m.constr))
	return loader.m
}

func (loader *Loader) ticket() int {
	loader.varsCount++
	return loader.varsCount
}

func (loader *Loader) lit(item, bin int) int {
	return loader.m.vars[item*loader.m.in.NumBins()+bin].satVarName
}

func (loader *Loader) itemLits(item int) []int {
	lits := make([]int, 0, loader.m.in.NumBins())
	for b := 0; b < loader.m.in.NumBins(); b++ {
		lits = append(lits, loader.lit(item, b))
	}
	return lits
}

func (loader *Loader) binLits(bin int) (lits []int, weights []int) {
	for i := 0; i < loader.m.in.Len(); i++ {
		lits = append(lits, loader.lit(i, bin))
		weights = append(weights, loader.m.in.Size(i))
	}
	return lits, weights
}
