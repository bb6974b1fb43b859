package trace

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bpsolver/bpsolver/pkg/search"
)

// Node is one branch of the search tree. The root carries no event.
type Node struct {
	id       int64
	Event    *search.Event
	Outcome  search.State
	siblings map[int64]*Node
	keys     []int64
}

// Tree records the events of a sequential search. It implements
// search.Tracer.
type Tree struct {
	root  *Node
	index map[int64]*Node
}

func NewSearchTree() *Tree {
	root := &Node{
		siblings: map[int64]*Node{},
	}
	return &Tree{
		root:  root,
		index: map[int64]*Node{0: root},
	}
}

func (t *Tree) Trace(ev search.Event) {
	switch ev.State {
	case search.StateBranching:
		parent, exists := t.index[ev.Parent]
		if !exists {
			parent = t.root
		}
		if _, exists := parent.siblings[ev.Node]; exists {
			return
		}
		e := ev
		node := &Node{
			id:       ev.Node,
			Event:    &e,
			Outcome:  search.StateBranching,
			siblings: map[int64]*Node{},
		}
		parent.siblings[ev.Node] = node
		parent.keys = append(parent.keys, ev.Node)
		t.index[ev.Node] = node
	case search.StateBacktracking, search.StateSat:
		if node, exists := t.index[ev.Node]; exists {
			node.Outcome = ev.State
		}
	}
}

// Len returns the number of branches without the root.
func (t *Tree) Len() int {
	return len(t.index) - 1
}

// Traverse returns the branch events breadth first.
func (t *Tree) Traverse() (events []search.Event) {
	var queue []*Node
	for _, k := range t.root.keys {
		queue = append(queue, t.root.siblings[k])
	}

	for {
		if len(queue) == 0 {
			break
		}
		next := queue[0]
		queue = queue[1:]
		if next.Event != nil {
			events = append(events, *next.Event)
		}
		for _, k := range next.keys {
			queue = append(queue, next.siblings[k])
		}
	}
	return
}

// WriteDOT renders the tree as an undirected graphviz graph. Refuted branches
// are red, the branch holding the solution is green.
func (t *Tree) WriteDOT(w io.Writer) error {
	b := bufio.NewWriter(w)
	fmt.Fprintln(b, "graph {")
	t.root.writeDOT(b)
	fmt.Fprintln(b, "}")
	return b.Flush()
}

func (n *Node) writeDOT(w io.Writer) {
	if n.Event == nil {
		fmt.Fprintf(w, "n%d [label=\"root\"];\n", n.id)
	} else {
		fmt.Fprintf(w, "n%d [label=\"item: %d\\nbin: %d\"", n.id, n.Event.Item, n.Event.Bin)
		switch n.Outcome {
		case search.StateBacktracking:
			fmt.Fprint(w, ", color=red")
		case search.StateSat:
			fmt.Fprint(w, ", color=green")
		}
		fmt.Fprintln(w, "];")
	}
	for _, k := range n.keys {
		fmt.Fprintf(w, "n%d -- n%d;\n", n.id, k)
		n.siblings[k].writeDOT(w)
	}
}
