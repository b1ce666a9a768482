package bloomgo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectIndices(item []byte, bitSize uint64, k uint32) []uint64 {
	var out []uint64
	for i := range hashIndices(item, bitSize, k) {
		out = append(out, i)
	}
	return out
}

func TestHashIndexIterator_Deterministic(t *testing.T) {
	// Two independently constructed iterators over the same item and size
	// must produce identical sequences. This is the whole point of the
	// library, so check it across a spread of configurations.
	items := [][]byte{
		[]byte("a"),
		[]byte("hello"),
		{},
		{0xF5, 0xF5, 0xF5, 0xF5},
		[]byte("a slightly longer item with some entropy 0123456789"),
	}
	sizes := []uint64{1, 2, 63, 64, 65, 200, 256, 1000, 2048, 1 << 20}

	for _, item := range items {
		for _, size := range sizes {
			a := collectIndices(item, size, 30)
			b := collectIndices(item, size, 30)
			require.Equal(t, a, b, "item %q size %d", item, size)
			require.Len(t, a, 30)
		}
	}
}

func TestHashIndexIterator_IndicesInRange(t *testing.T) {
	// Non-power-of-two sizes exercise the rejection path; every produced
	// index must still be strictly below the bit size.
	for _, size := range []uint64{1, 3, 5, 7, 100, 200, 255, 257, 1000, 4097} {
		t.Run(fmt.Sprintf("size=%d", size), func(t *testing.T) {
			for i := range 200 {
				item := []byte(fmt.Sprintf("item-%d", i))
				for idx := range hashIndices(item, size, 10) {
					require.Less(t, idx, size)
				}
			}
		})
	}
}

func TestHashIndexIterator_ZeroBitSize(t *testing.T) {
	it := NewHashIndexIterator([]byte("anything"), 0)
	_, ok := it.Next()
	assert.False(t, ok)

	// And the bounded sequence yields nothing at all.
	assert.Empty(t, collectIndices([]byte("anything"), 0, 30))
}

func TestHashIndexIterator_SinglePass(t *testing.T) {
	it := NewHashIndexIterator([]byte("hello"), 256)

	var first []uint64
	for range 10 {
		v, ok := it.Next()
		require.True(t, ok)
		first = append(first, v)
	}

	// The iterator does not restart: continuing produces the tail of the
	// stream, while a fresh iterator reproduces the head.
	var tail []uint64
	for range 10 {
		v, ok := it.Next()
		require.True(t, ok)
		tail = append(tail, v)
	}
	assert.NotEqual(t, first, tail, "iterator restarted")

	fresh := collectIndices([]byte("hello"), 256, 10)
	assert.Equal(t, first, fresh)
}

func TestHashIndexIterator_Uniformity(t *testing.T) {
	// Coarse uniformity check over a non-power-of-two range: with
	// 10 buckets and 20000 draws, each bucket expects 2000 hits. A
	// disproportionately favored value (classic modulo bias doubles the
	// low buckets) would blow far past the 25% tolerance.
	const bitSize = 10
	counts := make([]int, bitSize)

	for i := range 20000 {
		item := []byte(fmt.Sprintf("uniform-%d", i))
		it := NewHashIndexIterator(item, bitSize)
		v, ok := it.Next()
		require.True(t, ok)
		counts[v]++
	}

	const expect = 20000 / bitSize
	for v, n := range counts {
		assert.InDelta(t, expect, n, expect*0.25, "value %d drawn %d times", v, n)
	}
}

func TestHashIndexIterator_DistinctItemsDiffer(t *testing.T) {
	a := collectIndices([]byte("a"), 1<<16, 30)
	b := collectIndices([]byte("b"), 1<<16, 30)
	assert.NotEqual(t, a, b)
}

func TestPow2Mask(t *testing.T) {
	tests := []struct {
		bitSize uint64
		want    uint64
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 3},
		{4, 3},
		{5, 7},
		{64, 63},
		{65, 127},
		{1 << 32, 1<<32 - 1},
		{1<<32 + 1, 1<<33 - 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pow2Mask(tt.bitSize), "bitSize %d", tt.bitSize)
	}
}
