package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"sort"

	"sheet-sync/core/reconcile"
	"sheet-sync/core/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultChunkSize is the number of rows per batch when none is configured.
const DefaultChunkSize = 1000

// Pool holds one engine per backing database, created once at startup.
type Pool struct {
	engines   map[string]*gorm.DB
	failed    map[string]error
	chunkSize int
}

// NewPool wraps already opened engines keyed by source identifier.
func NewPool(engines map[string]*gorm.DB, chunkSize int) *Pool {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Pool{engines: engines, failed: make(map[string]error), chunkSize: chunkSize}
}

// Open connects every configured database. A database that cannot be reached is
// remembered, and queries targeting it fail with the connection error instead of
// stopping the other sources.
func Open(cfgs []Config, chunkSize int, log *zap.Logger) *Pool {
	pool := NewPool(make(map[string]*gorm.DB, len(cfgs)), chunkSize)

	for _, cfg := range cfgs {
		db, err := Connect(cfg)
		if err != nil {
			pool.failed[cfg.Name] = err
			log.Error("Source database unavailable", zap.String("database", cfg.Name), zap.Error(err))
			continue
		}
		pool.engines[cfg.Name] = db
		log.Info("Connected to source database",
			zap.String("database", cfg.Name),
			zap.String("driver", cfg.Driver),
		)
	}

	return pool
}

// Names returns the identifiers of the connected sources, sorted.
func (p *Pool) Names() []string {
	names := make([]string, 0, len(p.engines))
	for name := range p.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check reports whether queries can run on the named database.
func (p *Pool) Check(databaseID string) error {
	if err, failed := p.failed[databaseID]; failed {
		return fmt.Errorf("%w: %v", reconcile.ErrSourceExecution, err)
	}
	if _, ok := p.engines[databaseID]; !ok {
		return fmt.Errorf("%w: database %q is not configured", reconcile.ErrSourceExecution, databaseID)
	}
	return nil
}

// Execute runs query on the named database and yields its rows in batches of at most
// the configured chunk size. Rows are read lazily; the sequence can be consumed once.
// Every error is wrapped around reconcile.ErrSourceExecution.
func (p *Pool) Execute(ctx context.Context, databaseID, query string) iter.Seq2[reconcile.RowBatch, error] {
	return func(yield func(reconcile.RowBatch, error) bool) {
		if err := p.Check(databaseID); err != nil {
			yield(reconcile.RowBatch{}, err)
			return
		}
		db := p.engines[databaseID]

		rows, err := db.WithContext(ctx).Raw(query).Rows()
		if err != nil {
			yield(reconcile.RowBatch{}, fmt.Errorf("%w: %v", reconcile.ErrSourceExecution, err))
			return
		}
		defer rows.Close()

		columns, numeric, err := describe(rows)
		if err != nil {
			yield(reconcile.RowBatch{}, fmt.Errorf("%w: %v", reconcile.ErrSourceExecution, err))
			return
		}

		batch := reconcile.RowBatch{Columns: columns}
		raw := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range raw {
			dest[i] = &raw[i]
		}

		for rows.Next() {
			if err := rows.Scan(dest...); err != nil {
				yield(reconcile.RowBatch{}, fmt.Errorf("%w: %v", reconcile.ErrSourceExecution, err))
				return
			}

			record := make([]reconcile.Value, len(raw))
			for i, v := range raw {
				record[i] = convert(v, numeric[i])
			}
			batch.Records = append(batch.Records, record)

			if len(batch.Records) == p.chunkSize {
				if !yield(batch, nil) {
					return
				}
				batch = reconcile.RowBatch{Columns: columns}
			}
		}

		if err := rows.Err(); err != nil {
			yield(reconcile.RowBatch{}, fmt.Errorf("%w: %v", reconcile.ErrSourceExecution, err))
			return
		}

		if batch.Len() > 0 {
			yield(batch, nil)
		}
	}
}

// Close closes every engine.
func (p *Pool) Close() error {
	var errs []error
	for name, db := range p.engines {
		sqlDB, err := db.DB()
		if err != nil {
			errs = append(errs, fmt.Errorf("database %s: %w", name, err))
			continue
		}
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// describe returns the column names and which columns hold numbers that the
// driver may report as text.
func describe(rows *sql.Rows) ([]string, []bool, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	numeric := make([]bool, len(columns))
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, nil, err
	}
	for i, ct := range types {
		numeric[i] = utils.IsNumericType(ct.DatabaseTypeName())
	}

	return columns, numeric, nil
}

func convert(v any, numeric bool) reconcile.Value {
	if numeric {
		switch t := v.(type) {
		case []byte, string:
			s := utils.ToString(t)
			if s == "" {
				return reconcile.Null()
			}
			return reconcile.Number(utils.ToFloat(s))
		}
	}
	return reconcile.ValueOf(v)
}
