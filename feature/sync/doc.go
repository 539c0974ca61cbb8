// Package sync drives catalog runs.
//
// A run walks the query catalog in order. For each query it fetches one snapshot of the
// target table, streams the query result in batches and reconciles every batch against that
// snapshot. A failing query is recorded in the run report and the run moves on to the next one.
//
// # Components
//
//   - Runner: executes one run at a time and keeps the last report.
//   - Service: reloads the catalog before each run; used by the CLI and the status API.
//   - Scheduler: cron trigger that skips a tick while the previous run is still going.
package sync
