// Package blobstore provides the storage abstraction for engine snapshots.
//
// BlobStore is the interface for reading and writing whole blobs (collection
// snapshots, the alias table). Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: process-local, nothing survives a restart
//   - LocalStore: local filesystem with atomic rename writes
//   - minio.Store: MinIO and other S3-compatible services
//   - s3.Store: Amazon S3 with multipart uploads
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Get(ctx, name) ([]byte, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
