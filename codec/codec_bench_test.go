package codec

import (
	"testing"
)

type benchFilterDoc struct {
	BitSize   uint64 `json:"bit_size"`
	HashCount uint32 `json:"hash_count"`
	BitData   []byte `json:"bit_data"`
}

func benchmarkCodecMarshal(b *testing.B, c Codec, v any) {
	b.Helper()
	b.ReportAllocs()

	warm, err := c.Marshal(v)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(warm)))

	var sink []byte
	b.ResetTimer()
	for b.Loop() {
		out, err := c.Marshal(v)
		if err != nil {
			b.Fatal(err)
		}
		sink = out
	}
	_ = sink
}

func benchmarkCodecUnmarshal[T any](b *testing.B, c Codec, data []byte, dst *T) {
	b.Helper()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	var v T
	b.ResetTimer()
	for b.Loop() {
		if err := c.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
	if dst != nil {
		*dst = v
	}
}

func benchFilterPayload(byteSize int) benchFilterDoc {
	// Half-full bit data compresses poorly in base64, which is the realistic
	// worst case for a loaded filter.
	data := make([]byte, byteSize)
	for i := range data {
		if i%2 == 0 {
			data[i] = 0xA5
		}
	}
	return benchFilterDoc{
		BitSize:   uint64(byteSize) * 8,
		HashCount: 30,
		BitData:   data,
	}
}

func BenchmarkCodec_Marshal_Filter(b *testing.B) {
	doc := benchFilterPayload(4096)

	b.Run("stdlib", func(b *testing.B) { benchmarkCodecMarshal(b, JSON{}, doc) })
	b.Run("go-json", func(b *testing.B) { benchmarkCodecMarshal(b, GoJSON{}, doc) })
}

func BenchmarkCodec_Unmarshal_Filter(b *testing.B) {
	doc := benchFilterPayload(4096)
	jsonData := MustMarshal(JSON{}, doc)

	b.Run("stdlib", func(b *testing.B) {
		var sink benchFilterDoc
		benchmarkCodecUnmarshal(b, JSON{}, jsonData, &sink)
		_ = sink
	})
	b.Run("go-json", func(b *testing.B) {
		var sink benchFilterDoc
		benchmarkCodecUnmarshal(b, GoJSON{}, jsonData, &sink)
		_ = sink
	})
}
