// Package s3 provides an S3 implementation of the filterstore.Store
// interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("filters/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	mgr := filterstore.NewManager(store)
//
// # Features
//
//   - Multipart uploads for large saturated filters
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
