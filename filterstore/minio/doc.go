// Package minio provides a MinIO implementation of the filterstore.Store
// interface, usable with any S3-compatible object storage.
//
// # Usage
//
//	client, err := miniogo.New("localhost:9000", &miniogo.Options{
//	    Creds: credentials.NewStaticV4(accessKey, secretKey, ""),
//	})
//
//	store := minio.NewStore(client, "filters", "tenant-a/")
//	mgr := filterstore.NewManager(store)
package minio
