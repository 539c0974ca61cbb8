package reconcile

import "fmt"

// KeyIndex maps primary-column keys to remote row ids for one snapshot.
// It is built once per query and is not safe for concurrent use.
type KeyIndex struct {
	snapshot  *Snapshot
	primary   string
	primaryID int64
	rows      map[string]int64
}

// NewKeyIndex indexes the snapshot rows by the given primary column.
// When several rows share a key, the first one in snapshot order is kept.
func NewKeyIndex(snap *Snapshot, primaryColumn string) (*KeyIndex, error) {
	if snap == nil {
		return nil, fmt.Errorf("nil snapshot")
	}
	primaryID, ok := snap.Columns[primaryColumn]
	if !ok {
		return nil, fmt.Errorf("%w: primary column %q not in table %s", ErrColumnMismatch, primaryColumn, snap.TableID)
	}

	idx := &KeyIndex{
		snapshot:  snap,
		primary:   primaryColumn,
		primaryID: primaryID,
		rows:      make(map[string]int64, len(snap.Rows)),
	}
	for _, row := range snap.Rows {
		key, ok := row.Cells[primaryID].Key()
		if !ok {
			continue
		}
		idx.remember(key, row.ID)
	}
	return idx, nil
}

// Snapshot returns the snapshot the index was built from.
func (i *KeyIndex) Snapshot() *Snapshot { return i.snapshot }

// PrimaryColumn returns the indexed column title.
func (i *KeyIndex) PrimaryColumn() string { return i.primary }

// Len returns the number of distinct keys.
func (i *KeyIndex) Len() int { return len(i.rows) }

// Lookup returns the row id matching v.
func (i *KeyIndex) Lookup(v Value) (int64, bool) {
	key, ok := v.Key()
	if !ok {
		return 0, false
	}
	id, ok := i.rows[key]
	return id, ok
}

// remember records key → rowID unless the key is already taken.
func (i *KeyIndex) remember(key string, rowID int64) {
	if _, seen := i.rows[key]; seen {
		return
	}
	i.rows[key] = rowID
}
