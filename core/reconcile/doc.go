// Package reconcile decides how a batch of freshly queried rows lands in a remote table.
//
// Given a snapshot of the remote table (its columns and existing rows) and a batch of source
// rows, the engine classifies every row as an update of an existing remote row or as a new row
// to append, builds the cell payload for each, and issues at most two mutation calls.
//
// # Architecture
//
// 1. Table: the remote store abstraction (snapshot fetch, batch update, batch insert).
//
// 2. KeyIndex: primary-column value → row id, built once per snapshot. When two remote rows
//    share a key, the one that comes first in the snapshot wins.
//
// 3. Plan: pure classification of a batch into updates and inserts.
//
// 4. Engine: validates the batch against the snapshot schema, plans, then applies updates
//    before inserts. Ids of inserted rows are added to the index so later batches of the same
//    query update them instead of appending duplicates.
//
// # Errors
//
// Failures are wrapped around the sentinels in errors.go; KindOf maps any error to the
// ErrorKind the run report uses.
//
// # Usage Example
//
//	snap, err := table.GetSnapshot(ctx, tableID)
//	idx, err := reconcile.NewKeyIndex(snap, "Name")
//	engine := reconcile.NewEngine(table, logger)
//	result, err := engine.ReconcileIndexed(ctx, tableID, idx, batch)
package reconcile
