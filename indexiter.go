package bloomgo

import (
	"iter"
	"math/bits"

	"github.com/zeebo/xxh3"
)

// HashIndexIterator deterministically turns an item into a stream of bit
// positions in [0, bitSize).
//
// Each draw hashes the item with xxh3-64, seeded with a counter that starts
// at zero and increments per hash. The 64-bit word is reduced modulo the
// next power of two >= bitSize (a mask), and values falling beyond bitSize
// are rejected and redrawn. Power-of-two sizes therefore never reject, and
// non-power-of-two sizes stay uniform instead of picking up modulo bias; at
// worst the acceptance probability per draw is > 1/2.
//
// The same item and bitSize always produce the same sequence on every
// platform and in every process. The iterator itself is single-pass; create
// a new one to replay the sequence.
type HashIndexIterator struct {
	item    []byte
	bitSize uint64
	mask    uint64
	counter uint64
}

// NewHashIndexIterator returns an iterator over bit positions for item in a
// filter of bitSize bits. If bitSize is zero the iterator is immediately
// exhausted.
func NewHashIndexIterator(item []byte, bitSize uint64) *HashIndexIterator {
	return &HashIndexIterator{
		item:    item,
		bitSize: bitSize,
		mask:    pow2Mask(bitSize),
	}
}

// Next returns the next index and true, or 0 and false once the sequence is
// exhausted. Only a zero bitSize exhausts the sequence; otherwise Next
// always succeeds after a probabilistically bounded number of redraws.
func (it *HashIndexIterator) Next() (uint64, bool) {
	if it.bitSize == 0 {
		return 0, false
	}
	for {
		v := xxh3.HashSeed(it.item, it.counter) & it.mask
		it.counter++
		if v < it.bitSize {
			return v, true
		}
	}
}

// pow2Mask returns nextPow2(bitSize) - 1. For bitSize <= 1 the mask is 0,
// and for bitSize above 1<<63 the "next power of two" is the full 64-bit
// range, so the mask wraps to all ones.
func pow2Mask(bitSize uint64) uint64 {
	if bitSize <= 1 {
		return 0
	}
	return 1<<bits.Len64(bitSize-1) - 1
}

// hashIndices yields the first k indices of the item's index stream, or
// nothing at all when bitSize is zero.
func hashIndices(item []byte, bitSize uint64, k uint32) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		it := NewHashIndexIterator(item, bitSize)
		for range k {
			v, ok := it.Next()
			if !ok {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}
