// Package bitvec implements the fixed-length bit vector backing bloomgo
// filters.
//
// Bits are packed LSB-first within each byte: bit i lives in byte i/8 at
// position i%8. This layout is part of the filter wire contract — the raw
// bytes of a vector are exactly the bit data carried by the serialized
// filter forms, so it must never change.
//
// The vector length is fixed at construction. Out-of-range indexes on Set
// and Test panic: through the public filter API the hash index generator
// never produces one, so hitting the panic means a bug in the caller, not a
// recoverable condition. Length mismatches on UnionWith, which external
// callers can trigger, are returned as errors instead.
package bitvec
