package reconcile

import "context"

// Table defines the remote table the engine writes to.
// Implementations perform one network call per method.
type Table interface {
	// GetSnapshot fetches the columns and existing rows of a table.
	// It returns an error wrapping ErrTableNotFound when the id does not resolve.
	GetSnapshot(ctx context.Context, tableID string) (*Snapshot, error)

	// UpdateRows rewrites the cells of existing rows in one call.
	UpdateRows(ctx context.Context, tableID string, rows []RowUpdate) error

	// AddRows appends rows at the bottom of the table in one call.
	// It returns the ids of the created rows in request order; the slice may be
	// shorter than rows if the remote store does not report them.
	AddRows(ctx context.Context, tableID string, rows []RowInsert) ([]int64, error)
}
