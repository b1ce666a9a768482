// Package filterstore persists serialized Bloom filters under names.
//
// A Store moves opaque filter bytes in and out of a backend; the Manager
// layers the bloomgo binary encoding on top, so callers save and load
// *bloomgo.Filter values directly:
//
//	store := filterstore.NewLocalStore("./filters")
//	mgr := filterstore.NewManager(store)
//
//	_ = mgr.Save(ctx, "peers/alice", filter)
//	f, _ := mgr.Load(ctx, "peers/alice")
//
// Backends: in-memory (tests), local filesystem, S3 (subpackage s3), and
// MinIO/S3-compatible (subpackage minio).
//
// Filters are small and decoded atomically, so the Store contract is
// whole-value Get/Put rather than ranged reads. Stores are safe for
// concurrent use, but concurrent Puts to the same name race with
// last-writer-wins semantics; single-writer discipline per name is the
// caller's job, just like sharing a filter instance is.
package filterstore
