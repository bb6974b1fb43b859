/*
Package propagate implements the inference rules which prune item domains
without search. Propagators are run to a fixpoint in priority order: whenever
one of them changes the store, the loop starts again at the first one.
*/
package propagate

import (
	"github.com/bpsolver/bpsolver/pkg/domain"
)

type Propagator interface {
	Name() string
	// Propagate prunes s and reports whether anything changed. It returns
	// domain.ErrLocalFailure when the current node cannot be completed.
	Propagate(s *domain.Store) (bool, error)
}

// Default returns a fresh set of the standard propagators in priority order.
// Propagators may keep scratch buffers, so a set must not be shared between
// goroutines.
func Default() []Propagator {
	return []Propagator{
		&Singletons{},
		&CapacityBound{},
		&GlobalCapacity{},
		&LoadBounds{},
		&BigItems{},
	}
}

type Fixpoint struct {
	props  []Propagator
	passes int64
}

func NewFixpoint(props ...Propagator) *Fixpoint {
	if len(props) == 0 {
		props = Default()
	}
	return &Fixpoint{props: props}
}

// Run applies the propagators until none of them changes the store.
func (f *Fixpoint) Run(s *domain.Store) error {
	for {
		changed := false
		for _, p := range f.props {
			f.passes++
			c, err := p.Propagate(s)
			if err != nil {
				return err
			}
			if c {
				changed = true
				break
			}
		}
		if !changed {
			return nil
		}
	}
}

// Passes returns how many single propagator applications were executed.
func (f *Fixpoint) Passes() int64 {
	return f.passes
}
