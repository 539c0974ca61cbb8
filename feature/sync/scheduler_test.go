package sync

import (
	"context"
	"testing"
	"time"

	"sheet-sync/core/reconcile/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestScheduler_InvalidSpec tests that a malformed cron expression is rejected.
func TestScheduler_InvalidSpec(t *testing.T) {
	svc := NewService(NewRunner(&fakeSource{}, new(mocks.Table), zap.NewNop()), staticCatalog(), zap.NewNop())
	s := NewScheduler(svc, "every now and then", false, zap.NewNop())

	err := s.Start()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "every now and then")
}

// TestScheduler_RunOnStart tests that a run starts immediately when requested.
func TestScheduler_RunOnStart(t *testing.T) {
	src := &fakeSource{databases: map[string]bool{"dw": true}}
	table := new(mocks.Table)
	table.On("GetSnapshot", mock.Anything, "10").Return(sheet("10"), nil)
	svc := NewService(NewRunner(src, table, zap.NewNop()), staticCatalog(spec("a", "dw", "10")), zap.NewNop())

	s := NewScheduler(svc, "@hourly", true, zap.NewNop())
	require.NoError(t, s.Start())

	assert.Eventually(t, func() bool { return svc.LastReport() != nil }, 2*time.Second, 10*time.Millisecond)
	<-s.Stop().Done()
	assert.Equal(t, StateDone, svc.LastReport().Results[0].State)
}

// TestScheduler_Every tests that ticks fire on an interval schedule.
func TestScheduler_Every(t *testing.T) {
	src := &fakeSource{databases: map[string]bool{"dw": true}}
	table := new(mocks.Table)
	table.On("GetSnapshot", mock.Anything, "10").Return(sheet("10"), nil)
	svc := NewService(NewRunner(src, table, zap.NewNop()), staticCatalog(spec("a", "dw", "10")), zap.NewNop())

	s := NewScheduler(svc, "@every 1s", false, zap.NewNop())
	require.NoError(t, s.Start())
	defer func() { <-s.Stop().Done() }()

	assert.Eventually(t, func() bool { return svc.LastReport() != nil }, 3*time.Second, 50*time.Millisecond)
}

// TestScheduler_StopWaitsForStartupRun tests that Stop is not done while the start-up run is in progress.
func TestScheduler_StopWaitsForStartupRun(t *testing.T) {
	block := make(chan struct{})
	src := &fakeSource{databases: map[string]bool{"dw": true}, block: block}
	table := new(mocks.Table)
	table.On("GetSnapshot", mock.Anything, "10").Return(sheet("10"), nil)
	svc := NewService(NewRunner(src, table, zap.NewNop()), staticCatalog(spec("a", "dw", "10")), zap.NewNop())

	s := NewScheduler(svc, "@hourly", true, zap.NewNop())
	require.NoError(t, s.Start())
	require.Eventually(t, func() bool { return len(src.Executed()) == 1 }, 2*time.Second, 10*time.Millisecond)

	stopped := s.Stop()
	select {
	case <-stopped.Done():
		t.Fatal("stop finished while a run was in progress")
	case <-time.After(100 * time.Millisecond):
	}

	close(block)
	select {
	case <-stopped.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not finish after the run ended")
	}
	require.NotNil(t, svc.LastReport())
	assert.Equal(t, StateDone, svc.LastReport().Results[0].State)
}

// TestScheduler_StopWaitsForTriggeredRun tests that Stop also waits for runs started through Trigger.
func TestScheduler_StopWaitsForTriggeredRun(t *testing.T) {
	block := make(chan struct{})
	src := &fakeSource{databases: map[string]bool{"dw": true}, block: block}
	table := new(mocks.Table)
	table.On("GetSnapshot", mock.Anything, "10").Return(sheet("10"), nil)
	svc := NewService(NewRunner(src, table, zap.NewNop()), staticCatalog(spec("a", "dw", "10")), zap.NewNop())

	s := NewScheduler(svc, "@hourly", false, zap.NewNop())
	require.NoError(t, s.Start())
	require.NoError(t, svc.Trigger(context.Background()))

	stopped := s.Stop()
	select {
	case <-stopped.Done():
		t.Fatal("stop finished while a triggered run was in progress")
	case <-time.After(100 * time.Millisecond):
	}

	close(block)
	select {
	case <-stopped.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not finish after the run ended")
	}
	assert.NotNil(t, svc.LastReport())
}
