package reconcile

import (
	"fmt"
	"strings"
)

// Plan classifies every record of batch as an update of an indexed row or as an insert.
// It validates the batch columns against the snapshot schema before building any cells.
func Plan(idx *KeyIndex, batch RowBatch) (*MutationPlan, error) {
	snap := idx.Snapshot()

	columnIDs, err := resolveColumns(snap, batch.Columns)
	if err != nil {
		return nil, err
	}

	pk := batch.ColumnIndex(idx.PrimaryColumn())
	if pk < 0 {
		return nil, fmt.Errorf("%w: primary column %q not in query result", ErrColumnMismatch, idx.PrimaryColumn())
	}

	plan := &MutationPlan{}
	for n, record := range batch.Records {
		if len(record) != len(columnIDs) {
			return nil, fmt.Errorf("record %d has %d values for %d columns", n, len(record), len(columnIDs))
		}

		cells := make([]Cell, len(record))
		for i, v := range record {
			cells[i] = Cell{ColumnID: columnIDs[i], Value: v}
		}

		if rowID, ok := idx.Lookup(record[pk]); ok {
			plan.Updates = append(plan.Updates, RowUpdate{RowID: rowID, Cells: cells})
			continue
		}
		key, _ := record[pk].Key()
		plan.Inserts = append(plan.Inserts, RowInsert{Cells: cells, Key: key})
	}

	return plan, nil
}

// resolveColumns maps batch column names to snapshot column ids.
func resolveColumns(snap *Snapshot, columns []string) ([]int64, error) {
	ids := make([]int64, len(columns))
	var missing []string
	for i, name := range columns {
		id, ok := snap.Columns[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		ids[i] = id
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: columns [%s] not in table %s", ErrColumnMismatch, strings.Join(missing, ", "), snap.TableID)
	}
	return ids, nil
}
