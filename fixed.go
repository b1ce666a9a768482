package bloomgo

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/hupe1980/bloomgo/internal/bitvec"
)

// Size carries a filter bit length as a compile-time property. Implementations
// are zero-sized marker types whose BloomBits method returns a constant.
//
// Because the size is part of the Fixed type, two fixed filters can only be
// unioned when their sizes agree — a size mismatch is a compile error rather
// than a runtime one. Callers can define their own sizes:
//
//	type bits80 struct{}
//
//	func (bits80) BloomBits() uint64 { return 80 }
type Size interface {
	BloomBits() uint64
}

// Predeclared sizes for common filter lengths.
type (
	// Bits64 is a 64-bit filter size.
	Bits64 struct{}
	// Bits256 is a 256-bit filter size.
	Bits256 struct{}
	// Bits512 is a 512-bit filter size.
	Bits512 struct{}
	// Bits1024 is a 1024-bit filter size.
	Bits1024 struct{}
	// Bits2048 is a 2048-bit filter size.
	Bits2048 struct{}
	// Bits4096 is a 4096-bit filter size.
	Bits4096 struct{}
)

func (Bits64) BloomBits() uint64   { return 64 }
func (Bits256) BloomBits() uint64  { return 256 }
func (Bits512) BloomBits() uint64  { return 512 }
func (Bits1024) BloomBits() uint64 { return 1024 }
func (Bits2048) BloomBits() uint64 { return 2048 }
func (Bits4096) BloomBits() uint64 { return 4096 }

// sizeBits reads the constant bit length off the size type.
func sizeBits[S Size]() uint64 {
	var s S
	return s.BloomBits()
}

// Fixed is a deterministic Bloom filter whose bit size is fixed by its type
// parameter. It behaves identically to a Filter of the same bit size: the
// two variants share one hashing and bit-layout core, and produce identical
// bit patterns for identical inserts.
type Fixed[S Size] struct {
	vec bitvec.Vector
	k   uint32
}

// NewFixed returns an all-zero fixed-size filter with the given hash count.
// A hash count of zero is rejected with ErrInvalidHashCount.
func NewFixed[S Size](hashCount uint32) (*Fixed[S], error) {
	if hashCount == 0 {
		return nil, ErrInvalidHashCount
	}
	return &Fixed[S]{vec: bitvec.New(sizeBits[S]()), k: hashCount}, nil
}

// FixedFromBytes builds a fixed-size filter over a copy of packed bit data.
// The data length must match the size type exactly.
func FixedFromBytes[S Size](hashCount uint32, data []byte) (*Fixed[S], error) {
	if hashCount == 0 {
		return nil, ErrInvalidHashCount
	}
	bits := sizeBits[S]()
	vec, err := bitvec.FromBytes(bits, data)
	if errors.Is(err, bitvec.ErrLengthMismatch) {
		return nil, &ErrBitDataLength{
			ExpectedBytes: int(bitvec.ByteLen(bits)),
			ActualBytes:   len(data),
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBitData, err)
	}
	return &Fixed[S]{vec: vec, k: hashCount}, nil
}

// Insert adds an item to the filter. It never fails.
func (f *Fixed[S]) Insert(item []byte) {
	insertInto(f.vec, item, f.k)
}

// Contains reports whether the item may be in the filter. False is
// definitive; after Insert(x), Contains(x) is always true.
func (f *Fixed[S]) Contains(item []byte) bool {
	return containedIn(f.vec, item, f.k)
}

// UnionWith merges other into f by bitwise OR. The type system already
// guarantees equal bit sizes; hash counts must also agree.
func (f *Fixed[S]) UnionWith(other *Fixed[S]) error {
	if f.k != other.k {
		return &ErrHashCountMismatch{Expected: f.k, Actual: other.k}
	}
	return f.vec.UnionWith(other.vec)
}

// HashIndices returns the lazy sequence of up to HashCount bit positions
// the item hashes to.
func (f *Fixed[S]) HashIndices(item []byte) iter.Seq[uint64] {
	return hashIndices(item, f.vec.Len(), f.k)
}

// OnesCount returns the number of set bits.
func (f *Fixed[S]) OnesCount() uint64 { return f.vec.OnesCount() }

// BitSize returns the filter's bit length, as fixed by S.
func (f *Fixed[S]) BitSize() uint64 { return f.vec.Len() }

// HashCount returns the number of bit positions derived per item.
func (f *Fixed[S]) HashCount() uint32 { return f.k }

// Bytes returns a copy of the packed bit data, LSB-first per byte.
func (f *Fixed[S]) Bytes() []byte {
	return f.vec.Clone().Bytes()
}

// Equal reports whether two filters have identical hash counts and bits.
func (f *Fixed[S]) Equal(other *Fixed[S]) bool {
	return f.k == other.k && f.vec.Equal(other.vec)
}

// Clone returns an independent copy of the filter.
func (f *Fixed[S]) Clone() *Fixed[S] {
	return &Fixed[S]{vec: f.vec.Clone(), k: f.k}
}

// AsFilter returns a runtime-sized copy of the filter. The copy shares no
// state with f.
func (f *Fixed[S]) AsFilter() *Filter {
	return &Filter{vec: f.vec.Clone(), k: f.k}
}

// FixedFromFilter converts a runtime-sized filter into a fixed-size one.
// The filter's bit size must match S.
func FixedFromFilter[S Size](f *Filter) (*Fixed[S], error) {
	if want := sizeBits[S](); f.BitSize() != want {
		return nil, &ErrSizeMismatch{Expected: want, Actual: f.BitSize()}
	}
	return &Fixed[S]{vec: f.vec.Clone(), k: f.k}, nil
}

// EstimateFalsePositiveRate estimates the current false-positive rate from
// the filter's load factor.
func (f *Fixed[S]) EstimateFalsePositiveRate() float64 {
	return f.AsFilter().EstimateFalsePositiveRate()
}

// String renders the filter configuration and bit data as hex.
func (f *Fixed[S]) String() string {
	return fmt.Sprintf("Fixed{bitSize: %d, hashCount: %d, bits: 0x%X}",
		f.vec.Len(), f.k, f.vec.Bytes())
}

// LogValue implements slog.LogValuer.
func (f *Fixed[S]) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("bit_size", f.vec.Len()),
		slog.Uint64("hash_count", uint64(f.k)),
		slog.Uint64("ones_count", f.vec.OnesCount()),
	)
}
