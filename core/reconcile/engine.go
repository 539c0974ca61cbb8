package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Engine applies row batches to a remote table.
type Engine struct {
	table  Table
	logger *zap.Logger
}

// NewEngine creates an engine writing to table.
func NewEngine(table Table, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{table: table, logger: logger}
}

// Reconcile applies one batch against a snapshot, matching on primaryColumn.
// The key index is built for this call only; use ReconcileIndexed to share one across batches.
func (e *Engine) Reconcile(ctx context.Context, tableID string, snap *Snapshot, batch RowBatch, primaryColumn string) (*MutationResult, error) {
	idx, err := NewKeyIndex(snap, primaryColumn)
	if err != nil {
		e.logger.Error("Batch rejected", zap.String("table_id", tableID), zap.Error(err))
		return nil, err
	}
	return e.ReconcileIndexed(ctx, tableID, idx, batch)
}

// ReconcileIndexed plans batch against idx and applies the plan: one update call, then one
// insert call, each only when non-empty. Rows created by the insert call are added to idx.
func (e *Engine) ReconcileIndexed(ctx context.Context, tableID string, idx *KeyIndex, batch RowBatch) (*MutationResult, error) {
	l := e.logger.With(zap.String("table_id", tableID))

	plan, err := Plan(idx, batch)
	if err != nil {
		l.Error("Batch rejected", zap.Int("rows", batch.Len()), zap.Error(err))
		return nil, err
	}

	result := &MutationResult{}

	if len(plan.Updates) > 0 {
		if err := e.table.UpdateRows(ctx, tableID, plan.Updates); err != nil {
			l.Error("Failed to update rows", zap.Int("rows", len(plan.Updates)), zap.Error(err))
			return result, fmt.Errorf("update %d rows in table %s: %w", len(plan.Updates), tableID, err)
		}
		result.Updated = len(plan.Updates)
		l.Info("Updated rows", zap.Int("rows", result.Updated))
	}

	if len(plan.Inserts) > 0 {
		ids, err := e.table.AddRows(ctx, tableID, plan.Inserts)
		if err != nil {
			l.Error("Failed to add rows", zap.Int("rows", len(plan.Inserts)), zap.Error(err))
			return result, fmt.Errorf("add %d rows to table %s: %w", len(plan.Inserts), tableID, err)
		}
		result.Added = len(plan.Inserts)
		l.Info("Added rows", zap.Int("rows", result.Added))

		for i, id := range ids {
			if i >= len(plan.Inserts) {
				break
			}
			if key := plan.Inserts[i].Key; key != "" {
				idx.remember(key, id)
			}
		}
	}

	return result, nil
}
