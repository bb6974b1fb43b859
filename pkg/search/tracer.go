package search

// Event describes one transition of the search: StateBranching when an item
// is committed to a bin, StateBacktracking when that branch was refuted and
// StateSat when the node holds a complete packing. Node identifiers are unique
// per search, the root has identifier 0.
type Event struct {
	State  State
	Node   int64
	Parent int64
	Item   int
	Bin    int
	Depth  int
}

// Tracer receives search events in the order they happen. It is only called
// from the sequential search.
type Tracer interface {
	Trace(ev Event)
}

type TracerFunc func(ev Event)

func (f TracerFunc) Trace(ev Event) {
	f(ev)
}
