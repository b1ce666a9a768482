package bloomgo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bits0 exercises the degenerate compile-time size.
type bits0 struct{}

func (bits0) BloomBits() uint64 { return 0 }

// bits100 exercises a non-power-of-two, non-byte-aligned size.
type bits100 struct{}

func (bits100) BloomBits() uint64 { return 100 }

func TestNewFixed_Validation(t *testing.T) {
	_, err := NewFixed[Bits256](0)
	assert.ErrorIs(t, err, ErrInvalidHashCount)

	f, err := NewFixed[Bits256](30)
	require.NoError(t, err)
	assert.Equal(t, uint64(256), f.BitSize())
	assert.Equal(t, uint32(30), f.HashCount())
}

func TestFixed_InsertContains(t *testing.T) {
	f, err := NewFixed[Bits2048](30)
	require.NoError(t, err)

	items := []string{"first", "second", "third"}
	for _, item := range items {
		f.Insert([]byte(item))
	}
	for _, item := range items {
		assert.True(t, f.Contains([]byte(item)))
	}
	assert.False(t, f.Contains([]byte("fourth")))
}

func TestFixed_ParityWithRuntimeFilter(t *testing.T) {
	// Both variants run the same core: identical inserts must give
	// bit-identical filters, including on awkward sizes.
	t.Run("Bits2048", func(t *testing.T) {
		fixed, err := NewFixed[Bits2048](30)
		require.NoError(t, err)
		rt, err := New(2048, 30)
		require.NoError(t, err)

		for i := range 100 {
			item := []byte(fmt.Sprintf("parity-%d", i))
			fixed.Insert(item)
			rt.Insert(item)
		}

		assert.Equal(t, rt.Bytes(), fixed.Bytes())
		assert.True(t, fixed.AsFilter().Equal(rt))
	})

	t.Run("bits100", func(t *testing.T) {
		fixed, err := NewFixed[bits100](7)
		require.NoError(t, err)
		rt, err := New(100, 7)
		require.NoError(t, err)

		for i := range 40 {
			item := []byte(fmt.Sprintf("parity-%d", i))
			fixed.Insert(item)
			rt.Insert(item)
		}

		assert.Equal(t, rt.Bytes(), fixed.Bytes())
		for i := range 40 {
			item := []byte(fmt.Sprintf("parity-%d", i))
			assert.Equal(t, rt.Contains(item), fixed.Contains(item))
		}
	})
}

func TestFixed_ZeroSize(t *testing.T) {
	f, err := NewFixed[bits0](4)
	require.NoError(t, err)

	assert.True(t, f.Contains([]byte("anything")))
	f.Insert([]byte("anything"))
	assert.Equal(t, uint64(0), f.OnesCount())
	assert.True(t, f.Contains([]byte("else")))
}

func TestFixed_UnionWith(t *testing.T) {
	a, err := NewFixed[Bits1024](10)
	require.NoError(t, err)
	b, err := NewFixed[Bits1024](10)
	require.NoError(t, err)

	a.Insert([]byte("left"))
	b.Insert([]byte("right"))

	require.NoError(t, a.UnionWith(b))
	assert.True(t, a.Contains([]byte("left")))
	assert.True(t, a.Contains([]byte("right")))

	// Hash count mismatch is still a runtime error.
	c, err := NewFixed[Bits1024](11)
	require.NoError(t, err)
	var kErr *ErrHashCountMismatch
	assert.ErrorAs(t, a.UnionWith(c), &kErr)
}

func TestFixed_Conversions(t *testing.T) {
	fixed, err := NewFixed[Bits512](8)
	require.NoError(t, err)
	fixed.Insert([]byte("x"))

	rt := fixed.AsFilter()
	assert.Equal(t, uint64(512), rt.BitSize())
	assert.True(t, rt.Contains([]byte("x")))

	// Conversion does not alias.
	onesBefore := fixed.OnesCount()
	rt.Insert([]byte("only-runtime"))
	assert.Equal(t, onesBefore, fixed.OnesCount())

	back, err := FixedFromFilter[Bits512](rt)
	require.NoError(t, err)
	assert.True(t, back.Contains([]byte("x")))
	assert.True(t, back.Contains([]byte("only-runtime")))

	wrong, _ := New(256, 8)
	var sizeErr *ErrSizeMismatch
	_, err = FixedFromFilter[Bits512](wrong)
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, uint64(512), sizeErr.Expected)
	assert.Equal(t, uint64(256), sizeErr.Actual)
}

func TestFixed_FromBytes(t *testing.T) {
	f, err := NewFixed[Bits256](30)
	require.NoError(t, err)
	f.Insert([]byte("stored"))

	got, err := FixedFromBytes[Bits256](30, f.Bytes())
	require.NoError(t, err)
	assert.True(t, got.Equal(f))

	var lenErr *ErrBitDataLength
	_, err = FixedFromBytes[Bits256](30, []byte{0x01, 0x02})
	require.ErrorAs(t, err, &lenErr)
	assert.Equal(t, 32, lenErr.ExpectedBytes)
}

func TestPredeclaredSizes(t *testing.T) {
	assert.Equal(t, uint64(64), Bits64{}.BloomBits())
	assert.Equal(t, uint64(256), Bits256{}.BloomBits())
	assert.Equal(t, uint64(512), Bits512{}.BloomBits())
	assert.Equal(t, uint64(1024), Bits1024{}.BloomBits())
	assert.Equal(t, uint64(2048), Bits2048{}.BloomBits())
	assert.Equal(t, uint64(4096), Bits4096{}.BloomBits())
}
