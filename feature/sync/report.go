package sync

import (
	"time"

	"sheet-sync/core/reconcile"
)

// State is the lifecycle position of one query within a run.
type State string

const (
	StatePending     State = "pending"
	StateFetching    State = "fetching"
	StateReconciling State = "reconciling"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// QueryResult is the outcome of one catalog entry.
type QueryResult struct {
	Name     string              `json:"name"`
	Database string              `json:"database"`
	TableID  string              `json:"table_id"`
	State    State               `json:"state"`
	Kind     reconcile.ErrorKind `json:"kind,omitempty"`
	Error    string              `json:"error,omitempty"`
	Batches  int                 `json:"batches"`
	Rows     int                 `json:"rows"`
	Updated  int                 `json:"updated"`
	Added    int                 `json:"added"`
	Duration time.Duration       `json:"duration_ns"`

	err error
}

// Err returns the error that failed the query, if any.
func (r QueryResult) Err() error {
	return r.err
}

// RunReport summarizes one run over the catalog.
type RunReport struct {
	ID         string        `json:"id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Results    []QueryResult `json:"results"`
}

// FailedCount returns how many queries ended in StateFailed.
func (r *RunReport) FailedCount() int {
	n := 0
	for _, res := range r.Results {
		if res.State == StateFailed {
			n++
		}
	}
	return n
}

// OK is true when every query completed.
func (r *RunReport) OK() bool {
	return r.FailedCount() == 0
}
