package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"sheet-sync/core/reconcile"
	"sheet-sync/core/storage"
)

// Source reads catalog resources by slash separated name.
type Source interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
}

// DirSource reads resources from a local directory.
type DirSource struct {
	Root string
}

// ReadFile reads root/name.
func (s DirSource) ReadFile(_ context.Context, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(name)))
}

// BucketSource reads resources from an object storage bucket.
type BucketSource struct {
	Client storage.Client
	Bucket string
}

// ReadFile downloads the object called name.
func (s BucketSource) ReadFile(ctx context.Context, name string) ([]byte, error) {
	return storage.ReadObject(ctx, s.Client, s.Bucket, name)
}

// Check verifies that the bucket exists.
func (s BucketSource) Check(ctx context.Context) error {
	ok, err := s.Client.BucketExists(ctx, s.Bucket)
	if err != nil {
		return fmt.Errorf("%w: check bucket %s: %v", reconcile.ErrConfig, s.Bucket, err)
	}
	if !ok {
		return fmt.Errorf("%w: bucket %s does not exist", reconcile.ErrConfig, s.Bucket)
	}
	return nil
}

// NewSource picks the bucket when one is configured and the local directory otherwise.
// client may be nil when no bucket is configured.
func NewSource(cfg Config, client storage.Client) Source {
	if cfg.Bucket != "" && client != nil {
		return BucketSource{Client: client, Bucket: cfg.Bucket}
	}
	root := cfg.Root
	if root == "" {
		root = "."
	}
	return DirSource{Root: root}
}
