package sync

import (
	"context"
	"fmt"
	"iter"
	gosync "sync"
	"time"

	"sheet-sync/core/catalog"
	"sheet-sync/core/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Executor streams query results from named source databases.
type Executor interface {
	Check(databaseID string) error
	Execute(ctx context.Context, databaseID, query string) iter.Seq2[reconcile.RowBatch, error]
}

// Runner executes catalog runs. Runs never overlap.
type Runner struct {
	source Executor
	table  reconcile.Table
	engine *reconcile.Engine
	logger *zap.Logger

	mu     gosync.Mutex
	lastMu gosync.RWMutex
	last   *RunReport
}

// NewRunner creates a runner reading from source and writing to table.
func NewRunner(source Executor, table reconcile.Table, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		source: source,
		table:  table,
		engine: reconcile.NewEngine(table, logger),
		logger: logger,
	}
}

// Run processes specs in order, waiting for any run in progress to finish first.
func (r *Runner) Run(ctx context.Context, specs []catalog.QuerySpec) *RunReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run(ctx, specs)
}

// TryRun is Run without waiting. It reports false when another run holds the runner.
func (r *Runner) TryRun(ctx context.Context, specs []catalog.QuerySpec) (*RunReport, bool) {
	if !r.mu.TryLock() {
		return nil, false
	}
	defer r.mu.Unlock()
	return r.run(ctx, specs), true
}

// LastReport returns the report of the most recent finished run, or nil.
func (r *Runner) LastReport() *RunReport {
	r.lastMu.RLock()
	defer r.lastMu.RUnlock()
	return r.last
}

func (r *Runner) run(ctx context.Context, specs []catalog.QuerySpec) *RunReport {
	report := &RunReport{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Results:   make([]QueryResult, 0, len(specs)),
	}
	l := r.logger.With(zap.String("run_id", report.ID))
	l.Info("Starting run", zap.Int("queries", len(specs)))

	for _, spec := range specs {
		report.Results = append(report.Results, r.runQuery(ctx, l, spec))
	}

	report.FinishedAt = time.Now()
	l.Info("Run finished",
		zap.Int("queries", len(specs)),
		zap.Int("failed", report.FailedCount()),
		zap.Duration("duration", report.FinishedAt.Sub(report.StartedAt)),
	)

	r.lastMu.Lock()
	r.last = report
	r.lastMu.Unlock()
	return report
}

func (r *Runner) runQuery(ctx context.Context, logger *zap.Logger, spec catalog.QuerySpec) (res QueryResult) {
	l := logger.With(zap.String("query", spec.Name), zap.String("database", spec.Database), zap.String("table_id", spec.TableID))
	res = QueryResult{Name: spec.Name, Database: spec.Database, TableID: spec.TableID, State: StatePending}
	start := time.Now()

	fail := func(err error) {
		res.State = StateFailed
		res.Kind = reconcile.KindOf(err)
		res.Error = err.Error()
		res.err = err
		l.Error("Query failed", zap.String("kind", string(res.Kind)), zap.Int("batches", res.Batches), zap.Error(err))
	}

	defer func() {
		if p := recover(); p != nil {
			fail(fmt.Errorf("panic: %v", p))
		}
		res.Duration = time.Since(start)
	}()

	if err := r.source.Check(spec.Database); err != nil {
		fail(err)
		return res
	}

	res.State = StateFetching
	snap, err := r.table.GetSnapshot(ctx, spec.TableID)
	if err != nil {
		fail(err)
		return res
	}
	idx, err := reconcile.NewKeyIndex(snap, spec.PrimaryColumn)
	if err != nil {
		fail(err)
		return res
	}
	l.Debug("Loaded table snapshot", zap.Int("rows", len(snap.Rows)), zap.Int("keys", idx.Len()))

	res.State = StateReconciling
	for batch, err := range r.source.Execute(ctx, spec.Database, spec.Text) {
		if err != nil {
			fail(err)
			return res
		}
		result, err := r.engine.ReconcileIndexed(ctx, spec.TableID, idx, batch)
		if result != nil {
			res.Updated += result.Updated
			res.Added += result.Added
		}
		if err != nil {
			fail(err)
			return res
		}
		res.Batches++
		res.Rows += batch.Len()
	}

	res.State = StateDone
	l.Info("Query synchronized",
		zap.Int("batches", res.Batches),
		zap.Int("rows", res.Rows),
		zap.Int("updated", res.Updated),
		zap.Int("added", res.Added),
	)
	return res
}
