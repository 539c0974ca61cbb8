package reconcile

// RowBatch is a bounded group of source rows processed as one reconciliation unit.
// Every record holds one value per column, in column order.
type RowBatch struct {
	// Columns are the source column names, fixed within the batch.
	Columns []string

	// Records are the rows of the batch.
	Records [][]Value
}

// Len returns the number of records in the batch.
func (b RowBatch) Len() int {
	return len(b.Records)
}

// ColumnIndex returns the position of a column in the batch, or -1.
func (b RowBatch) ColumnIndex(name string) int {
	for i, c := range b.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Row is an existing remote row as seen in a snapshot.
type Row struct {
	// ID is the remote row id.
	ID int64 `json:"id"`

	// Cells holds the row values keyed by column id.
	Cells map[int64]Value `json:"cells"`
}

// Snapshot is the remote table's schema and rows read at one point in time.
// It is held fixed for the remainder of a query's processing.
type Snapshot struct {
	// TableID is the remote table identifier.
	TableID string `json:"table_id"`

	// Name is the display name of the remote table.
	Name string `json:"name"`

	// Columns maps column titles to column ids.
	Columns map[string]int64 `json:"columns"`

	// Rows are the existing rows in table order.
	Rows []Row `json:"rows"`
}

// Cell is one (column id, value) pair of a mutation payload.
type Cell struct {
	ColumnID int64 `json:"columnId"`
	Value    Value `json:"value"`
}

// RowUpdate rewrites the cells of an existing remote row.
type RowUpdate struct {
	RowID int64  `json:"id"`
	Cells []Cell `json:"cells"`
}

// RowInsert appends a new row at the bottom of the remote table.
type RowInsert struct {
	Cells []Cell `json:"cells"`

	// Key is the primary-column key of the inserted row, used to index the created row.
	Key string `json:"-"`
}

// MutationPlan partitions a batch into updates and inserts.
type MutationPlan struct {
	Updates []RowUpdate `json:"updates"`
	Inserts []RowInsert `json:"inserts"`
}

// IsEmpty reports whether the plan has nothing to apply.
func (p *MutationPlan) IsEmpty() bool {
	return len(p.Updates) == 0 && len(p.Inserts) == 0
}

// MutationResult holds the counts of an applied plan.
type MutationResult struct {
	Updated int `json:"updated"`
	Added   int `json:"added"`
}
