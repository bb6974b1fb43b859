package trace

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Backtrack is a node of a labelled branch-and-bound tree. Nodes are created
// detached and only become part of the tree once their parent adopts them, so
// branches that were explored but not kept can be dropped.
type Backtrack struct {
	labels   []label
	children []*Backtrack
}

type label struct {
	key   string
	value string
}

func NewBacktrack() *Backtrack {
	return &Backtrack{}
}

// Set adds a label or replaces the value of an existing one. Labels keep the
// order of their first Set.
func (b *Backtrack) Set(key string, value interface{}) {
	v := fmt.Sprint(value)
	for i := range b.labels {
		if b.labels[i].key == key {
			b.labels[i].value = v
			return
		}
	}
	b.labels = append(b.labels, label{key: key, value: v})
}

func (b *Backtrack) Label(key string) (string, bool) {
	for _, l := range b.labels {
		if l.key == key {
			return l.value, true
		}
	}
	return "", false
}

// Extend adopts children.
func (b *Backtrack) Extend(children ...*Backtrack) {
	b.children = append(b.children, children...)
}

func (b *Backtrack) Children() []*Backtrack {
	return b.children
}

// Len counts b and all nodes below it.
func (b *Backtrack) Len() int {
	n := 1
	for _, c := range b.children {
		n += c.Len()
	}
	return n
}

// WriteDOT renders the tree as an undirected graphviz graph. Nodes are
// numbered in depth-first order.
func (b *Backtrack) WriteDOT(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "graph {")
	next := 0
	b.writeDOT(bw, &next)
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func (b *Backtrack) writeDOT(w io.Writer, next *int) {
	id := *next
	*next++
	parts := make([]string, 0, len(b.labels))
	for _, l := range b.labels {
		parts = append(parts, l.key+": "+l.value)
	}
	fmt.Fprintf(w, "n%d [label=\"%s\"];\n", id, strings.Join(parts, "\\n"))
	for _, c := range b.children {
		fmt.Fprintf(w, "n%d -- n%d;\n", id, *next)
		c.writeDOT(w, next)
	}
}
