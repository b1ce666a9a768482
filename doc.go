// Package bloomgo provides deterministic Bloom filters for Go.
//
// A Bloom filter answers set-membership queries with no false negatives and a
// tunable false-positive rate. Bloomgo additionally guarantees that every bit
// decision is reproducible: two parties that insert the same items into
// filters with the same bit size and hash count end up with bit-identical
// filters, regardless of process, machine, or insertion order of independent
// items. That makes the filters usable as content-addressing primitives and
// in distributed protocols where filters are exchanged and compared byte for
// byte.
//
// # Quick Start
//
//	f, _ := bloomgo.New(2048, 30)
//	f.Insert([]byte("hello"))
//
//	f.Contains([]byte("hello")) // true, always
//	f.Contains([]byte("world")) // false, or a false positive
//
// Sizing from an expected item count and target false-positive rate:
//
//	params, _ := bloomgo.ParametersFromFalsePositiveRate(100_000, 0.001)
//	f, _ := bloomgo.NewFromParameters(params)
//
// # Fixed-Size Filters
//
// Fixed carries its bit length in the type, so filters of different sizes
// cannot be unioned by mistake:
//
//	f, _ := bloomgo.NewFixed[bloomgo.Bits2048](30)
//	f.Insert([]byte("hello"))
//
// Both variants share the same hashing and bit layout; a Filter and a Fixed
// of equal size produce identical bits for identical inserts.
//
// # Determinism
//
// Index derivation uses xxh3-64 seeded with a draw counter and rejection
// sampling into [0, bitSize). No system entropy, clocks, or map iteration
// order is involved anywhere. The serialized forms (binary and JSON) carry
// bit size and hash count and round-trip bit for bit; see the filterstore
// package for persisting filters to local or object storage.
//
// # Merging
//
// Filters of equal bit size and hash count can be unioned. Unions are
// monotonic: bits are only ever added, and the false-positive rate rises
// toward 1.0 as more item sets are merged. That saturation is the designed
// trade-off that makes merged filters hide how many sets they contain.
//
// # Concurrency
//
// Filter operations are pure in-memory computation and never block, but a
// filter instance has no internal locking. Callers that share one instance
// across goroutines must apply their own reader-writer discipline.
package bloomgo
