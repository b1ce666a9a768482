package bloomgo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHashCount is returned when a filter is constructed with a
	// hash count of zero. A zero hash count would silently turn every
	// insert into a no-op, so it is rejected instead of clamped.
	ErrInvalidHashCount = errors.New("hash count must be positive")

	// ErrInvalidMagic is returned when decoding data that does not start
	// with the bloomgo binary magic number.
	ErrInvalidMagic = errors.New("invalid magic number")

	// ErrInvalidVersion is returned when decoding a binary filter written
	// by an unknown format version.
	ErrInvalidVersion = errors.New("unsupported format version")

	// ErrChecksumMismatch is returned when the CRC32C trailer of a binary
	// filter does not match its contents.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrTruncated is returned when serialized filter data ends before the
	// declared payload or trailer.
	ErrTruncated = errors.New("truncated filter data")

	// ErrInvalidBitData is returned when decoded bit data is inconsistent
	// with the declared bit size, for example nonzero padding bits beyond
	// the filter length.
	ErrInvalidBitData = errors.New("invalid bit data")
)

// ErrSizeMismatch indicates an operation across two filters (or a filter and
// serialized bit data) whose bit sizes differ.
type ErrSizeMismatch struct {
	Expected uint64
	Actual   uint64
}

func (e *ErrSizeMismatch) Error() string {
	return fmt.Sprintf("bit size mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrHashCountMismatch indicates a union of two filters with different hash
// counts. The bitwise operation would be safe, but the result could not be
// interpreted by either party, so it is rejected.
type ErrHashCountMismatch struct {
	Expected uint32
	Actual   uint32
}

func (e *ErrHashCountMismatch) Error() string {
	return fmt.Sprintf("hash count mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrBitDataLength indicates imported bit data whose byte length does not
// match the length implied by the declared bit size.
type ErrBitDataLength struct {
	ExpectedBytes int
	ActualBytes   int
}

func (e *ErrBitDataLength) Error() string {
	return fmt.Sprintf("bit data length mismatch: expected %d bytes, got %d", e.ExpectedBytes, e.ActualBytes)
}
