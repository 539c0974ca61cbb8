package sync

import (
	"context"
	gosync "sync"

	"sheet-sync/core/reconcile"

	"go.uber.org/zap"
)

// DryRunTable reads through to a real table and discards every write.
// Added rows get negative placeholder ids so later batches still match them.
type DryRunTable struct {
	table  reconcile.Table
	logger *zap.Logger

	mu     gosync.Mutex
	nextID int64
}

// NewDryRunTable wraps table.
func NewDryRunTable(table reconcile.Table, logger *zap.Logger) *DryRunTable {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DryRunTable{table: table, logger: logger}
}

// GetSnapshot reads the real table.
func (t *DryRunTable) GetSnapshot(ctx context.Context, tableID string) (*reconcile.Snapshot, error) {
	return t.table.GetSnapshot(ctx, tableID)
}

// UpdateRows logs the update and returns.
func (t *DryRunTable) UpdateRows(_ context.Context, tableID string, rows []reconcile.RowUpdate) error {
	t.logger.Info("Dry run: skipping update", zap.String("table_id", tableID), zap.Int("rows", len(rows)))
	return nil
}

// AddRows logs the insert and returns placeholder ids.
func (t *DryRunTable) AddRows(_ context.Context, tableID string, rows []reconcile.RowInsert) ([]int64, error) {
	t.logger.Info("Dry run: skipping insert", zap.String("table_id", tableID), zap.Int("rows", len(rows)))

	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]int64, len(rows))
	for i := range ids {
		t.nextID--
		ids[i] = t.nextID
	}
	return ids, nil
}
