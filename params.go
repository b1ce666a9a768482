package bloomgo

import (
	"errors"
	"math"
	"math/bits"

	"github.com/hupe1980/bloomgo/internal/bitvec"
)

var (
	// ErrInvalidItemCount is returned by the sizing helpers when the
	// expected item count is zero.
	ErrInvalidItemCount = errors.New("expected item count must be positive")

	// ErrInvalidFalsePositiveRate is returned when the target
	// false-positive rate is outside (0, 1).
	ErrInvalidFalsePositiveRate = errors.New("false positive rate must be in (0, 1)")
)

// Parameters describes a filter configuration: the bit length of the store
// and the number of bit positions derived per item. The sizing helpers keep
// the bit size byte-aligned, so serialized filters never carry padding bits.
type Parameters struct {
	BitSize   uint64
	HashCount uint32
}

// ParametersFromFalsePositiveRate returns the smallest byte-aligned
// configuration that keeps the false-positive rate at or below fpr once
// nItems items have been inserted.
func ParametersFromFalsePositiveRate(nItems uint64, fpr float64) (Parameters, error) {
	byteSize, err := optimalByteSize(nItems, fpr)
	if err != nil {
		return Parameters{}, err
	}
	return Parameters{
		BitSize:   byteSize * 8,
		HashCount: optimalHashCount(byteSize*8, nItems),
	}, nil
}

// ParametersFromFalsePositiveRatePow2 is ParametersFromFalsePositiveRate
// with the byte size rounded up to the next power of two. Power-of-two bit
// sizes let index derivation mask instead of rejection-sample, and are the
// natural choice when filters are embedded in block-aligned structures.
func ParametersFromFalsePositiveRatePow2(nItems uint64, fpr float64) (Parameters, error) {
	byteSize, err := optimalByteSize(nItems, fpr)
	if err != nil {
		return Parameters{}, err
	}
	byteSize = nextPow2(byteSize)
	return Parameters{
		BitSize:   byteSize * 8,
		HashCount: optimalHashCount(byteSize*8, nItems),
	}, nil
}

// ParametersFromByteSize returns the configuration with the given byte size
// and the hash count that minimizes the false-positive rate at nItems.
func ParametersFromByteSize(byteSize uint64, nItems uint64) (Parameters, error) {
	if nItems == 0 {
		return Parameters{}, ErrInvalidItemCount
	}
	return Parameters{
		BitSize:   byteSize * 8,
		HashCount: optimalHashCount(byteSize*8, nItems),
	}, nil
}

// ByteSize returns the number of bytes the bit store occupies.
func (p Parameters) ByteSize() uint64 {
	return bitvec.ByteLen(p.BitSize)
}

// FalsePositiveRateAt returns the expected false-positive rate once nItems
// items have been inserted: (1 - e^(-k*n/m))^k. See https://hur.st/bloomfilter/.
func (p Parameters) FalsePositiveRateAt(nItems uint64) float64 {
	if p.BitSize == 0 {
		return 1
	}
	k := float64(p.HashCount)
	m := float64(p.BitSize)
	n := float64(nItems)
	return math.Pow(1-math.Exp(-k/(m/n)), k)
}

func optimalByteSize(nItems uint64, fpr float64) (uint64, error) {
	if nItems == 0 {
		return 0, ErrInvalidItemCount
	}
	if !(fpr > 0 && fpr < 1) {
		return 0, ErrInvalidFalsePositiveRate
	}
	n := float64(nItems)
	bitSize := n * math.Log(fpr) / -(math.Ln2 * math.Ln2)
	return uint64(math.Ceil(bitSize / 8)), nil
}

func optimalHashCount(bitSize uint64, nItems uint64) uint32 {
	m := float64(bitSize)
	n := float64(nItems)
	k := uint32(math.Ceil(m / n * math.Ln2))
	return max(k, 1)
}

func nextPow2(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len64(n-1)
}

func powUint(x float64, k uint32) float64 {
	return math.Pow(x, float64(k))
}
