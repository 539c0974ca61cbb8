package mocks

import (
	"context"

	"sheet-sync/core/reconcile"

	"github.com/stretchr/testify/mock"
)

// Table is a mock implementation of reconcile.Table
type Table struct {
	mock.Mock
}

func (m *Table) GetSnapshot(ctx context.Context, tableID string) (*reconcile.Snapshot, error) {
	args := m.Called(ctx, tableID)
	if snap, ok := args.Get(0).(*reconcile.Snapshot); ok {
		return snap, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Table) UpdateRows(ctx context.Context, tableID string, rows []reconcile.RowUpdate) error {
	args := m.Called(ctx, tableID, rows)
	return args.Error(0)
}

func (m *Table) AddRows(ctx context.Context, tableID string, rows []reconcile.RowInsert) ([]int64, error) {
	args := m.Called(ctx, tableID, rows)
	if ids, ok := args.Get(0).([]int64); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}
