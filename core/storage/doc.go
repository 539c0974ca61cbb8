// Package storage provides access to an S3-compatible object store.
//
// It wraps the MinIO Go client so the query catalog and its SQL resources can be kept
// in a bucket instead of the local filesystem. This supports both AWS S3 and
// self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	data, err := storage.ReadObject(ctx, client, "config", "queries/queries.json")
package storage
