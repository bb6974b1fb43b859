package api

import (
	"fmt"
	"strings"
	"time"
)

// Verdict is the outcome of a feasibility decision.
type Verdict string

const (
	VerdictSat     Verdict = "SAT"
	VerdictUnsat   Verdict = "UNSAT"
	VerdictUnknown Verdict = "UNKNOWN"
)

// Source tells which stage of the pipeline produced a verdict.
type Source string

const (
	SourceDegenerate Source = "degenerate"
	SourceFastFail   Source = "fast-fail"
	SourceCache      Source = "cache"
	SourcePreflight  Source = "preflight"
	SourceSearch     Source = "search"
)

// Backend selects the engine used for instances that survive the preflight.
type Backend string

const (
	BackendCP  Backend = "cp"
	BackendSAT Backend = "sat"
)

func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(s)); b {
	case BackendCP, BackendSAT:
		return b, nil
	case "":
		return BackendCP, nil
	default:
		return "", fmt.Errorf("unknown backend %q, expected one of cp, sat", s)
	}
}

// Instance is the on-disk representation of a bin packing instance.
type Instance struct {
	Name     string `json:"name,omitempty"`
	Items    []int  `json:"items"`
	Bins     int    `json:"bins"`
	Capacity int    `json:"capacity"`
}

func (i *Instance) String() string {
	if i.Name != "" {
		return fmt.Sprintf("%s(n=%d,m=%d,C=%d)", i.Name, len(i.Items), i.Bins, i.Capacity)
	}
	return fmt.Sprintf("(n=%d,m=%d,C=%d)", len(i.Items), i.Bins, i.Capacity)
}

// Stats collects search statistics of a single decision.
type Stats struct {
	Nodes        int64         `json:"nodes"`
	Backtracks   int64         `json:"backtracks"`
	Propagations int64         `json:"propagations"`
	MaxDepth     int           `json:"maxDepth"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Add merges other into s. Depth is merged as a maximum.
func (s *Stats) Add(other Stats) {
	s.Nodes += other.Nodes
	s.Backtracks += other.Backtracks
	s.Propagations += other.Propagations
	if other.MaxDepth > s.MaxDepth {
		s.MaxDepth = other.MaxDepth
	}
}

// Result is the full answer of a decision call.
type Result struct {
	Verdict Verdict `json:"verdict"`
	Source  Source  `json:"source"`
	Backend Backend `json:"backend,omitempty"`
	// Reason is a short human readable explanation for verdicts that were
	// decided without search.
	Reason string `json:"reason,omitempty"`
	// Assignment holds the bin of every item, in input order, when the
	// verdict is SAT and a witness is known.
	Assignment []int `json:"assignment,omitempty"`
	Stats      Stats `json:"stats"`
}

func (r *Result) Feasible() bool {
	return r.Verdict == VerdictSat
}

// Bins groups the assigned item indices per bin.
func (r *Result) Bins(numBins int) [][]int {
	if r.Assignment == nil {
		return nil
	}
	bins := make([][]int, numBins)
	for item, bin := range r.Assignment {
		if bin >= 0 && bin < numBins {
			bins[bin] = append(bins[bin], item)
		}
	}
	return bins
}
