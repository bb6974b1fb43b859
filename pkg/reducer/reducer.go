package reducer

import (
	"github.com/sirupsen/logrus"

	"github.com/bpsolver/bpsolver/pkg/api"
	"github.com/bpsolver/bpsolver/pkg/instance"
)

// Decision is the outcome of a preflight rule. A VerdictUnknown decision
// leaves the instance to the search engine.
type Decision struct {
	Verdict api.Verdict
	Rule    string
	Reason  string
	// Assignment is the witness packing of a SAT decision, in input order.
	Assignment []int
}

func (d Decision) Decided() bool {
	return d.Verdict == api.VerdictSat || d.Verdict == api.VerdictUnsat
}

type Rule interface {
	Name() string
	// Apply returns a decided Decision, or ok=false when the rule does not
	// apply to in.
	Apply(in *instance.Instance) (d Decision, ok bool)
}

type Reducer struct {
	rules []Rule
}

// New creates a reducer running rules in order. Without rules the default
// set is used.
func New(rules ...Rule) *Reducer {
	if len(rules) == 0 {
		rules = Default()
	}
	return &Reducer{rules: rules}
}

// Default returns the preflight rules, cheapest first.
func Default() []Rule {
	return []Rule{
		EnoughBins{},
		NextFit{},
		PairBound{},
		NextFit{Decreasing: true},
		BigItemCount{},
		LowerBound{},
		BestFitDecreasing{},
	}
}

// Reduce expects an instance which passed the fast-fail checks, so that no
// item exceeds the capacity.
func (r *Reducer) Reduce(in *instance.Instance) Decision {
	for _, rule := range r.rules {
		d, ok := rule.Apply(in)
		if !ok {
			logrus.Debugf("preflight rule %s does not apply to %v", rule.Name(), in)
			continue
		}
		d.Rule = rule.Name()
		logrus.WithFields(logrus.Fields{
			"rule":    d.Rule,
			"verdict": d.Verdict,
		}).Debugf("preflight decided %v: %s", in, d.Reason)
		return d
	}
	return Decision{Verdict: api.VerdictUnknown}
}
