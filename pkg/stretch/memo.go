package stretch

import (
	"sort"
	"strconv"

	"golang.org/x/crypto/blake2b"
)

type memoKey [blake2b.Size256]byte

// memoEntry remembers the window a value was computed for. A value at or
// above the upper bound, or at or below the lower bound, is only a bound on
// the exact value.
type memoEntry struct {
	lower int
	upper int
	value int
}

// answers reports whether the stored value is valid for the window
// (lower, upper).
func (e memoEntry) answers(lower, upper int) bool {
	if e.value >= e.upper && e.upper < upper {
		return false
	}
	if e.value <= e.lower && e.lower > lower {
		return false
	}
	return true
}

// key identifies the current position independent of the bin order: the
// sorted bin loads followed by the item size multiset.
func (a *adversary) key() memoKey {
	loads := append([]int(nil), a.loads...)
	sort.Ints(loads)
	items := append([]int(nil), a.items...)
	sort.Ints(items)

	buf := make([]byte, 0, 8*(len(loads)+len(items)+1))
	for _, l := range loads {
		buf = strconv.AppendInt(buf, int64(l), 10)
		buf = append(buf, ' ')
	}
	buf = append(buf, '|')
	for _, s := range items {
		buf = strconv.AppendInt(buf, int64(s), 10)
		buf = append(buf, ' ')
	}
	return blake2b.Sum256(buf)
}
