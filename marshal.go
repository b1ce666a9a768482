package bloomgo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/hupe1980/bloomgo/codec"
	"github.com/hupe1980/bloomgo/internal/bitvec"
)

const (
	// binaryMagic identifies bloomgo binary filter data (ASCII "BLM1").
	binaryMagic = 0x424C4D31
	// binaryVersion is the current binary format version (v1.0).
	binaryVersion = 0x00010000

	binaryHeaderLen  = 32
	binaryTrailerLen = 4

	flagZstd = 1 << 0

	// maxDecodeBits caps the declared bit size of a decoded filter (1 GiB of
	// packed bit data). The header is untrusted until the checksum verifies,
	// so the payload allocation must never be sized by a header field alone.
	maxDecodeBits = 1 << 33
)

// binaryHeader is the fixed 32-byte header at the start of every binary
// filter, little-endian, followed by PayloadLen payload bytes and a CRC32C
// trailer over header+payload.
type binaryHeader struct {
	Magic      uint32
	Version    uint32
	Flags      uint32
	HashCount  uint32
	BitSize    uint64
	PayloadLen uint64
}

// crc32cTable is pre-computed for the CRC32-Castagnoli polynomial, the same
// checksum family used by iSCSI, RocksDB and LevelDB. Hardware accelerated
// on x86 and ARM.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

var (
	zstdOnce sync.Once
	zstdEnc  *zstd.Encoder
	zstdDec  *zstd.Decoder
	zstdErr  error
)

// zstdCodec lazily builds the shared zstd encoder/decoder pair. Both are
// safe for concurrent EncodeAll/DecodeAll use. The decoder's memory is
// bounded to the decode limit, so a compressed bomb cannot expand past it.
func zstdCodec() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEnc, zstdErr = zstd.NewWriter(nil)
		if zstdErr != nil {
			return
		}
		zstdDec, zstdErr = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecodeBits/8))
	})
	return zstdEnc, zstdDec, zstdErr
}

// EncodeOption configures binary encoding.
type EncodeOption func(*encodeOptions)

type encodeOptions struct {
	compress bool
}

// WithCompression enables zstd compression of the bit data. Sparse filters
// compress extremely well; the flag is recorded in the header so Decode
// needs no out-of-band knowledge.
func WithCompression() EncodeOption {
	return func(o *encodeOptions) {
		o.compress = true
	}
}

// Encode writes the filter to w in the bloomgo binary format.
func (f *Filter) Encode(w io.Writer, opts ...EncodeOption) error {
	return encodeFilter(w, f.vec, f.k, opts)
}

// Decode reads a filter from w's counterpart: a stream produced by Encode.
func Decode(r io.Reader) (*Filter, error) {
	vec, k, err := decodeFilter(r)
	if err != nil {
		return nil, err
	}
	return &Filter{vec: vec, k: k}, nil
}

// MarshalBinary implements encoding.BinaryMarshaler, without compression.
func (f *Filter) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (f *Filter) UnmarshalBinary(data []byte) error {
	decoded, err := Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*f = *decoded
	return nil
}

// Encode writes the filter to w in the bloomgo binary format. Fixed and
// runtime-sized filters share the wire format; only decoding differs in the
// size check.
func (f *Fixed[S]) Encode(w io.Writer, opts ...EncodeOption) error {
	return encodeFilter(w, f.vec, f.k, opts)
}

// DecodeFixed reads a fixed-size filter from a stream produced by Encode.
// The declared bit size must match S.
func DecodeFixed[S Size](r io.Reader) (*Fixed[S], error) {
	vec, k, err := decodeFilter(r)
	if err != nil {
		return nil, err
	}
	if want := sizeBits[S](); vec.Len() != want {
		return nil, &ErrSizeMismatch{Expected: want, Actual: vec.Len()}
	}
	return &Fixed[S]{vec: vec, k: k}, nil
}

// MarshalBinary implements encoding.BinaryMarshaler, without compression.
func (f *Fixed[S]) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (f *Fixed[S]) UnmarshalBinary(data []byte) error {
	decoded, err := DecodeFixed[S](bytes.NewReader(data))
	if err != nil {
		return err
	}
	*f = *decoded
	return nil
}

func encodeFilter(w io.Writer, vec bitvec.Vector, k uint32, opts []EncodeOption) error {
	var o encodeOptions
	for _, opt := range opts {
		opt(&o)
	}

	payload := vec.Bytes()
	var flags uint32
	if o.compress {
		enc, _, err := zstdCodec()
		if err != nil {
			return err
		}
		payload = enc.EncodeAll(payload, nil)
		flags |= flagZstd
	}

	var buf bytes.Buffer
	buf.Grow(binaryHeaderLen + len(payload) + binaryTrailerLen)
	header := binaryHeader{
		Magic:      binaryMagic,
		Version:    binaryVersion,
		Flags:      flags,
		HashCount:  k,
		BitSize:    vec.Len(),
		PayloadLen: uint64(len(payload)),
	}
	if err := binary.Write(&buf, binary.LittleEndian, &header); err != nil {
		return err
	}
	buf.Write(payload)

	var trailer [binaryTrailerLen]byte
	binary.LittleEndian.PutUint32(trailer[:], crc32.Checksum(buf.Bytes(), crc32cTable))
	buf.Write(trailer[:])

	_, err := w.Write(buf.Bytes())
	return err
}

func decodeFilter(r io.Reader) (bitvec.Vector, uint32, error) {
	var headerBytes [binaryHeaderLen]byte
	if _, err := io.ReadFull(r, headerBytes[:]); err != nil {
		return bitvec.Vector{}, 0, fmt.Errorf("%w: %w", ErrTruncated, err)
	}

	var header binaryHeader
	if err := binary.Read(bytes.NewReader(headerBytes[:]), binary.LittleEndian, &header); err != nil {
		return bitvec.Vector{}, 0, err
	}
	if header.Magic != binaryMagic {
		return bitvec.Vector{}, 0, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, header.Magic)
	}
	if header.Version != binaryVersion {
		return bitvec.Vector{}, 0, fmt.Errorf("%w: got 0x%08x", ErrInvalidVersion, header.Version)
	}
	if header.HashCount == 0 {
		return bitvec.Vector{}, 0, ErrInvalidHashCount
	}
	if header.BitSize > maxDecodeBits {
		return bitvec.Vector{}, 0, fmt.Errorf("%w: declared bit size %d exceeds decode limit",
			ErrInvalidBitData, header.BitSize)
	}

	expected := bitvec.ByteLen(header.BitSize)
	compressed := header.Flags&flagZstd != 0
	if compressed {
		// A zstd frame of the bit data can exceed the raw size only by
		// small framing overhead; anything bigger is corrupt and must not
		// drive the allocation below.
		if header.PayloadLen > expected+expected/128+128 {
			return bitvec.Vector{}, 0, fmt.Errorf("%w: compressed payload of %d bytes for %d-bit filter",
				ErrInvalidBitData, header.PayloadLen, header.BitSize)
		}
	} else if header.PayloadLen != expected {
		return bitvec.Vector{}, 0, &ErrBitDataLength{
			ExpectedBytes: int(expected),
			ActualBytes:   int(header.PayloadLen),
		}
	}

	payload := make([]byte, header.PayloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return bitvec.Vector{}, 0, fmt.Errorf("%w: %w", ErrTruncated, err)
	}

	var trailer [binaryTrailerLen]byte
	if _, err := io.ReadFull(r, trailer[:]); err != nil {
		return bitvec.Vector{}, 0, fmt.Errorf("%w: %w", ErrTruncated, err)
	}

	sum := crc32.Checksum(headerBytes[:], crc32cTable)
	sum = crc32.Update(sum, crc32cTable, payload)
	if got := binary.LittleEndian.Uint32(trailer[:]); got != sum {
		return bitvec.Vector{}, 0, fmt.Errorf("%w: got 0x%08x, want 0x%08x", ErrChecksumMismatch, got, sum)
	}

	if compressed {
		_, dec, err := zstdCodec()
		if err != nil {
			return bitvec.Vector{}, 0, err
		}
		payload, err = dec.DecodeAll(payload, make([]byte, 0, expected))
		if err != nil {
			return bitvec.Vector{}, 0, fmt.Errorf("%w: %w", ErrInvalidBitData, err)
		}
	}

	vec, err := bitvec.FromBytes(header.BitSize, payload)
	if err != nil {
		return bitvec.Vector{}, 0, fmt.Errorf("%w: %w", ErrInvalidBitData, err)
	}
	return vec, header.HashCount, nil
}

// filterJSON is the structured external form: bit size, hash count, and the
// packed bit data (base64 in JSON).
type filterJSON struct {
	BitSize   uint64 `json:"bit_size"`
	HashCount uint32 `json:"hash_count"`
	BitData   []byte `json:"bit_data"`
}

// MarshalJSON implements json.Marshaler using the module's default codec.
func (f *Filter) MarshalJSON() ([]byte, error) {
	return codec.Default.Marshal(filterJSON{
		BitSize:   f.vec.Len(),
		HashCount: f.k,
		BitData:   f.vec.Bytes(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Filter) UnmarshalJSON(data []byte) error {
	var fj filterJSON
	if err := codec.Default.Unmarshal(data, &fj); err != nil {
		return err
	}
	if fj.HashCount == 0 {
		return ErrInvalidHashCount
	}
	vec, err := bitvec.FromBytes(fj.BitSize, fj.BitData)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBitData, err)
	}
	f.vec = vec
	f.k = fj.HashCount
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f *Fixed[S]) MarshalJSON() ([]byte, error) {
	return codec.Default.Marshal(filterJSON{
		BitSize:   f.vec.Len(),
		HashCount: f.k,
		BitData:   f.vec.Bytes(),
	})
}

// UnmarshalJSON implements json.Unmarshaler. The declared bit size must
// match S.
func (f *Fixed[S]) UnmarshalJSON(data []byte) error {
	var decoded Filter
	if err := decoded.UnmarshalJSON(data); err != nil {
		return err
	}
	fixed, err := FixedFromFilter[S](&decoded)
	if err != nil {
		return err
	}
	*f = *fixed
	return nil
}
