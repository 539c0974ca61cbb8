package smartsheet

import (
	"fmt"

	"sheet-sync/core/reconcile"
)

// sheet is the subset of the Sheet object read by GetSnapshot.
type sheet struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Columns []column `json:"columns"`
	Rows    []row    `json:"rows"`
}

type column struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type row struct {
	ID    int64  `json:"id"`
	Cells []cell `json:"cells"`
}

type cell struct {
	ColumnID int64           `json:"columnId"`
	Value    reconcile.Value `json:"value"`
}

// writeCell is a cell in an update or insert request.
type writeCell struct {
	ColumnID int64 `json:"columnId"`
	Value    any   `json:"value"`
}

type writeRow struct {
	ID       int64       `json:"id,omitempty"`
	ToBottom bool        `json:"toBottom,omitempty"`
	Cells    []writeCell `json:"cells"`
}

// result is the envelope returned by row mutations.
type result struct {
	Message    string `json:"message"`
	ResultCode int    `json:"resultCode"`
	Result     []row  `json:"result"`
}

// APIError is an error response from the API.
type APIError struct {
	StatusCode int    `json:"-"`
	ErrorCode  int    `json:"errorCode"`
	Message    string `json:"message"`
	RefID      string `json:"refId"`
}

func (e *APIError) Error() string {
	if e.RefID != "" {
		return fmt.Sprintf("smartsheet: %d (error %d, ref %s): %s", e.StatusCode, e.ErrorCode, e.RefID, e.Message)
	}
	return fmt.Sprintf("smartsheet: %d (error %d): %s", e.StatusCode, e.ErrorCode, e.Message)
}

// errorCodeNotFound is returned for unknown sheet ids.
const errorCodeNotFound = 1006

func toSnapshot(tableID string, s *sheet) *reconcile.Snapshot {
	snap := &reconcile.Snapshot{
		TableID: tableID,
		Name:    s.Name,
		Columns: make(map[string]int64, len(s.Columns)),
		Rows:    make([]reconcile.Row, 0, len(s.Rows)),
	}
	for _, c := range s.Columns {
		// Titles are unique within a sheet
		snap.Columns[c.Title] = c.ID
	}
	for _, r := range s.Rows {
		cells := make(map[int64]reconcile.Value, len(r.Cells))
		for _, c := range r.Cells {
			cells[c.ColumnID] = c.Value
		}
		snap.Rows = append(snap.Rows, reconcile.Row{ID: r.ID, Cells: cells})
	}
	return snap
}

func toWriteCells(cells []reconcile.Cell) []writeCell {
	out := make([]writeCell, len(cells))
	for i, c := range cells {
		v := c.Value.Interface()
		if v == nil {
			// An empty string clears the cell
			v = ""
		}
		out[i] = writeCell{ColumnID: c.ColumnID, Value: v}
	}
	return out
}
