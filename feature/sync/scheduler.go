package sync

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler triggers runs on a cron schedule. A tick that fires while the previous
// run is still going is skipped.
type Scheduler struct {
	cron       *cron.Cron
	service    *Service
	logger     *zap.Logger
	spec       string
	runOnStart bool
	entry      cron.EntryID
}

// NewScheduler creates a scheduler for the given cron expression.
// Descriptors such as "@hourly" and "@every 15m" are accepted.
func NewScheduler(service *Service, spec string, runOnStart bool, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := cron.PrintfLogger(zap.NewStdLog(logger.Named("cron")))
	return &Scheduler{
		cron:       cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		service:    service,
		logger:     logger,
		spec:       spec,
		runOnStart: runOnStart,
	}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start() error {
	id, err := s.cron.AddFunc(s.spec, s.tick)
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.spec, err)
	}
	s.entry = id
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.String("schedule", s.spec), zap.Time("next", s.cron.Entry(id).Next))

	if s.runOnStart {
		// The wrapped job goes through the same SkipIfStillRunning guard as the cron ticks.
		s.service.Go(s.cron.Entry(id).WrappedJob.Run)
	}
	return nil
}

// Stop halts the schedule. The returned context is done once no run is in progress,
// whether it came from a tick, the start-up run or a Service.Trigger call.
func (s *Scheduler) Stop() context.Context {
	jobs := s.cron.Stop()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer cancel()
		<-jobs.Done()
		s.service.Wait()
	}()
	return ctx
}

func (s *Scheduler) tick() {
	report, err := s.service.RunOnce(context.Background())
	if err != nil {
		// Catalog errors abort this tick only.
		return
	}
	if !report.OK() {
		s.logger.Warn("Scheduled run finished with failures", zap.String("run_id", report.ID), zap.Int("failed", report.FailedCount()))
	}
}
