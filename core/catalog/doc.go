// Package catalog loads the named queries a run synchronizes.
//
// A catalog maps query names to their source database, SQL resource, target table
// id and primary column. Entries are returned in the order they appear on disk, which
// is the order a run processes them.
//
// # Formats
//
//   - JSON (.json): decoded token by token so object key order survives.
//   - YAML (.yaml, .yml): decoded through yaml.v3 nodes.
//   - TOML (.toml): one table per query, ordered by MetaData.Keys().
//
// # Sources
//
// Resources are read from a local directory (DirSource) or from an object storage
// bucket (BucketSource). SQL references resolve against Config.SQLDir.
//
// Every failure is a reconcile.ErrConfig: a run cannot start without its catalog.
package catalog
