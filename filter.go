package bloomgo

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/hupe1980/bloomgo/internal/bitvec"
)

// Filter is a deterministic Bloom filter whose bit size is chosen at
// construction time. See Fixed for the variant that carries its bit size in
// the type.
//
// A Filter is mutated only by Insert and UnionWith. Bit size and hash count
// are immutable for its lifetime. Instances are not safe for concurrent use
// without external synchronization.
type Filter struct {
	vec bitvec.Vector
	k   uint32
}

// New returns an all-zero filter with the given bit size and hash count.
//
// A bit size of zero is allowed and yields the degenerate filter: Insert is
// a no-op and Contains reports true for every item (the "all derived indices
// are set" condition is vacuously true when no indices are derived). A hash
// count of zero is rejected with ErrInvalidHashCount.
func New(bitSize uint64, hashCount uint32) (*Filter, error) {
	if hashCount == 0 {
		return nil, ErrInvalidHashCount
	}
	return &Filter{vec: bitvec.New(bitSize), k: hashCount}, nil
}

// NewFromParameters returns an all-zero filter sized by p.
func NewFromParameters(p Parameters) (*Filter, error) {
	return New(p.BitSize, p.HashCount)
}

// FromBytes builds a filter over a copy of packed bit data, as produced by
// Bytes. The data length must match the bit size exactly.
func FromBytes(bitSize uint64, hashCount uint32, data []byte) (*Filter, error) {
	if hashCount == 0 {
		return nil, ErrInvalidHashCount
	}
	vec, err := bitvec.FromBytes(bitSize, data)
	if errors.Is(err, bitvec.ErrLengthMismatch) {
		return nil, &ErrBitDataLength{
			ExpectedBytes: int(bitvec.ByteLen(bitSize)),
			ActualBytes:   len(data),
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBitData, err)
	}
	return &Filter{vec: vec, k: hashCount}, nil
}

// Insert adds an item to the filter. It never fails, for any item and any
// filter state, including the zero-bit-size filter.
func (f *Filter) Insert(item []byte) {
	insertInto(f.vec, item, f.k)
}

// Contains reports whether the item may be in the filter. False is
// definitive; true may be a false positive. After Insert(x), Contains(x) is
// always true.
func (f *Filter) Contains(item []byte) bool {
	return containedIn(f.vec, item, f.k)
}

// UnionWith merges other into f by bitwise OR. Both filters must have the
// same bit size and hash count; otherwise f is left untouched and a
// mismatch error is returned.
//
// Unions are monotonic and saturating: the set-bit count never decreases,
// and merging many item sets drives the false-positive rate toward 1.0.
func (f *Filter) UnionWith(other *Filter) error {
	if f.vec.Len() != other.vec.Len() {
		return &ErrSizeMismatch{Expected: f.vec.Len(), Actual: other.vec.Len()}
	}
	if f.k != other.k {
		return &ErrHashCountMismatch{Expected: f.k, Actual: other.k}
	}
	return f.vec.UnionWith(other.vec)
}

// HashIndices returns the lazy sequence of up to HashCount bit positions
// the item hashes to. The sequence is empty when the bit size is zero.
// Ranging over it again replays the identical sequence.
func (f *Filter) HashIndices(item []byte) iter.Seq[uint64] {
	return hashIndices(item, f.vec.Len(), f.k)
}

// OnesCount returns the number of set bits. Intended for diagnostics; it
// walks the whole bit store.
func (f *Filter) OnesCount() uint64 { return f.vec.OnesCount() }

// BitSize returns the filter's bit length.
func (f *Filter) BitSize() uint64 { return f.vec.Len() }

// HashCount returns the number of bit positions derived per item.
func (f *Filter) HashCount() uint32 { return f.k }

// Parameters returns the filter's configuration.
func (f *Filter) Parameters() Parameters {
	return Parameters{BitSize: f.vec.Len(), HashCount: f.k}
}

// Bytes returns a copy of the packed bit data, LSB-first per byte. The copy
// keeps the filter's internal state unaliased across API boundaries.
func (f *Filter) Bytes() []byte {
	return f.vec.Clone().Bytes()
}

// Equal reports whether two filters have identical configuration and bits.
func (f *Filter) Equal(other *Filter) bool {
	return f.k == other.k && f.vec.Equal(other.vec)
}

// Clone returns an independent copy of the filter.
func (f *Filter) Clone() *Filter {
	return &Filter{vec: f.vec.Clone(), k: f.k}
}

// EstimateFalsePositiveRate estimates the current false-positive rate from
// the filter's load factor: (onesCount/bitSize)^hashCount. The degenerate
// zero-bit-size filter reports 1, since it answers true for everything.
func (f *Filter) EstimateFalsePositiveRate() float64 {
	m := f.vec.Len()
	if m == 0 {
		return 1
	}
	load := float64(f.vec.OnesCount()) / float64(m)
	return powUint(load, f.k)
}

// String renders the filter configuration and bit data as hex.
func (f *Filter) String() string {
	return fmt.Sprintf("Filter{bitSize: %d, hashCount: %d, bits: 0x%X}",
		f.vec.Len(), f.k, f.vec.Bytes())
}

// LogValue implements slog.LogValuer, so filters log as structured groups
// instead of raw bit dumps.
func (f *Filter) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("bit_size", f.vec.Len()),
		slog.Uint64("hash_count", uint64(f.k)),
		slog.Uint64("ones_count", f.vec.OnesCount()),
	)
}

// insertInto and containedIn are the single shared core both filter
// variants run on; Fixed delegates to them with its own vector.

func insertInto(vec bitvec.Vector, item []byte, k uint32) {
	it := NewHashIndexIterator(item, vec.Len())
	for range k {
		i, ok := it.Next()
		if !ok {
			return
		}
		vec.Set(i)
	}
}

func containedIn(vec bitvec.Vector, item []byte, k uint32) bool {
	it := NewHashIndexIterator(item, vec.Len())
	for range k {
		i, ok := it.Next()
		if !ok {
			// Zero bit size: vacuously contained.
			return true
		}
		if !vec.Test(i) {
			return false
		}
	}
	return true
}
