package bitvec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
)

// ErrLengthMismatch is returned by UnionWith when the two vectors do not
// have the same bit length. No partial mutation happens in that case.
var ErrLengthMismatch = errors.New("bitvec: length mismatch")

// ErrInvalidPadding is returned by FromBytes when bits beyond the declared
// length are set in the final byte. Rejecting them keeps every vector in
// canonical form, so byte equality and bit equality coincide.
var ErrInvalidPadding = errors.New("bitvec: nonzero padding bits")

// Vector is a fixed-length sequence of bits, packed LSB-first per byte.
//
// The zero value is an empty (zero-length) vector.
type Vector struct {
	bits uint64
	data []byte
}

// New returns an all-zero vector of the given bit length.
func New(bitLen uint64) Vector {
	return Vector{
		bits: bitLen,
		data: make([]byte, ByteLen(bitLen)),
	}
}

// FromBytes builds a vector of bitLen bits over a copy of data.
// The data length must be exactly ByteLen(bitLen) and any padding bits in
// the last byte must be zero.
func FromBytes(bitLen uint64, data []byte) (Vector, error) {
	if uint64(len(data)) != ByteLen(bitLen) {
		return Vector{}, fmt.Errorf("%w: %d bits need %d bytes, got %d",
			ErrLengthMismatch, bitLen, ByteLen(bitLen), len(data))
	}
	if rem := bitLen % 8; rem != 0 && len(data) > 0 {
		if data[len(data)-1]&^byte(1<<rem-1) != 0 {
			return Vector{}, ErrInvalidPadding
		}
	}
	return Vector{bits: bitLen, data: bytes.Clone(data)}, nil
}

// ByteLen returns the number of bytes needed to hold bitLen bits. Written
// without bitLen+7 so it cannot wrap near the top of the uint64 range.
func ByteLen(bitLen uint64) uint64 {
	n := bitLen / 8
	if bitLen%8 != 0 {
		n++
	}
	return n
}

// Len returns the vector length in bits.
func (v Vector) Len() uint64 { return v.bits }

// Set marks bit i. It panics if i is out of range.
func (v Vector) Set(i uint64) {
	if i >= v.bits {
		panic(fmt.Sprintf("bitvec: index %d out of range [0, %d)", i, v.bits))
	}
	v.data[i>>3] |= 1 << (i & 7)
}

// Test reports whether bit i is set. It panics if i is out of range.
func (v Vector) Test(i uint64) bool {
	if i >= v.bits {
		panic(fmt.Sprintf("bitvec: index %d out of range [0, %d)", i, v.bits))
	}
	return v.data[i>>3]&(1<<(i&7)) != 0
}

// OnesCount returns the number of set bits.
func (v Vector) OnesCount() uint64 {
	var n int
	d := v.data
	for len(d) >= 8 {
		n += bits.OnesCount64(binary.LittleEndian.Uint64(d))
		d = d[8:]
	}
	for _, b := range d {
		n += bits.OnesCount8(b)
	}
	return uint64(n)
}

// UnionWith ORs other into v. Both vectors must have the same bit length;
// otherwise ErrLengthMismatch is returned and v is untouched.
func (v Vector) UnionWith(other Vector) error {
	if v.bits != other.bits {
		return fmt.Errorf("%w: %d vs %d bits", ErrLengthMismatch, v.bits, other.bits)
	}
	for i := range v.data {
		v.data[i] |= other.data[i]
	}
	return nil
}

// Equal reports whether two vectors have identical length and bits.
func (v Vector) Equal(other Vector) bool {
	return v.bits == other.bits && bytes.Equal(v.data, other.data)
}

// Clone returns an independent copy of v.
func (v Vector) Clone() Vector {
	return Vector{bits: v.bits, data: bytes.Clone(v.data)}
}

// Bytes returns the packed bit data. The slice aliases the vector's
// storage; callers must not mutate it.
func (v Vector) Bytes() []byte { return v.data }
