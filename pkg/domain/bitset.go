package domain

import "math/bits"

// bitset is a fixed-width set of bin indices. Width is chosen by the store,
// all bitsets of one store share it.
type bitset []uint64

func newFullBitset(n int) bitset {
	b := make(bitset, (n+63)/64)
	for i := range b {
		b[i] = ^uint64(0)
	}
	if rem := n % 64; rem != 0 {
		b[len(b)-1] = (uint64(1) << rem) - 1
	}
	return b
}

func (b bitset) has(i int) bool {
	return b[i>>6]&(uint64(1)<<(i&63)) != 0
}

func (b bitset) count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}

// min returns the lowest set index or -1.
func (b bitset) min() int {
	for wi, w := range b {
		if w != 0 {
			return wi<<6 + bits.TrailingZeros64(w)
		}
	}
	return -1
}

// next returns the lowest set index >= from or -1.
func (b bitset) next(from int) int {
	wi := from >> 6
	if wi >= len(b) {
		return -1
	}
	w := b[wi] &^ ((uint64(1) << (from & 63)) - 1)
	for {
		if w != 0 {
			return wi<<6 + bits.TrailingZeros64(w)
		}
		wi++
		if wi >= len(b) {
			return -1
		}
		w = b[wi]
	}
}

func (b bitset) equal(o bitset) bool {
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}
