package sync

import (
	"context"
	"errors"
	gosync "sync"

	"sheet-sync/core/catalog"

	"go.uber.org/zap"
)

// ErrBusy is returned when a run is requested while another one is in progress.
var ErrBusy = errors.New("a run is already in progress")

// CatalogFunc loads the query catalog.
type CatalogFunc func(ctx context.Context) ([]catalog.QuerySpec, error)

// CatalogLoader returns a CatalogFunc reading cfg through src.
func CatalogLoader(src catalog.Source, cfg catalog.Config) CatalogFunc {
	return func(ctx context.Context) ([]catalog.QuerySpec, error) {
		return catalog.Load(ctx, src, cfg)
	}
}

// Service reloads the catalog before each run.
type Service struct {
	runner *Runner
	load   CatalogFunc
	logger *zap.Logger

	// background counts runs started outside the caller's goroutine.
	background gosync.WaitGroup
}

// NewService creates a new sync service.
func NewService(runner *Runner, load CatalogFunc, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{runner: runner, load: load, logger: logger}
}

// RunOnce loads the catalog and runs it, waiting for any run in progress.
// A catalog error aborts before any query runs.
func (s *Service) RunOnce(ctx context.Context) (*RunReport, error) {
	s.runner.mu.Lock()
	defer s.runner.mu.Unlock()
	return s.loadAndRun(ctx)
}

// Trigger starts a run in the background and returns immediately.
// It returns ErrBusy when a run is already in progress.
func (s *Service) Trigger(ctx context.Context) error {
	if !s.runner.mu.TryLock() {
		return ErrBusy
	}
	s.Go(func() {
		defer s.runner.mu.Unlock()
		_, _ = s.loadAndRun(ctx)
	})
	return nil
}

// Go runs fn in a goroutine that Wait accounts for.
func (s *Service) Go(fn func()) {
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		fn()
	}()
}

// Wait blocks until every background run and any run in progress have finished.
func (s *Service) Wait() {
	s.background.Wait()
	// Cron ticks run RunOnce on their own goroutines and hold the lock while running.
	s.runner.mu.Lock()
	s.runner.mu.Unlock()
}

// Running reports whether a run is in progress.
func (s *Service) Running() bool {
	if s.runner.mu.TryLock() {
		s.runner.mu.Unlock()
		return false
	}
	return true
}

// LastReport returns the most recent finished report, or nil.
func (s *Service) LastReport() *RunReport {
	return s.runner.LastReport()
}

func (s *Service) loadAndRun(ctx context.Context) (*RunReport, error) {
	specs, err := s.load(ctx)
	if err != nil {
		s.logger.Error("Failed to load query catalog", zap.Error(err))
		return nil, err
	}
	return s.runner.run(ctx, specs), nil
}
