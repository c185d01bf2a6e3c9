package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sahmed73/Simulation-Automation/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedEvents struct {
	events []domain.Event
}

func (c *capturedEvents) Publish(ctx context.Context, event domain.Event) error {
	c.events = append(c.events, event)
	return nil
}

func newTestManager(root string, scheduler *fakeScheduler, oracle *fakeOracle, events *capturedEvents) *managerService {
	log := testLogger()
	classifier := NewClassifierService(scheduler, "", log)
	queues := []domain.QueueDescriptor{
		{Name: "short", Limit: 10, Cores: 24, Walltime: 6 * time.Hour},
	}
	placer := NewPlacementService(scheduler, queues, "sahmed73", log)
	reporter := NewReportService(root, classifier, nil, log)
	cfg := ManagerConfig{Root: root, MaxAttempts: 5}

	if events == nil {
		return NewManagerService(cfg, classifier, placer, reporter, oracle, nil, log)
	}
	return NewManagerService(cfg, classifier, placer, reporter, oracle, events, log)
}

func TestRunSubmitsReadyUnitOnce(t *testing.T) {
	// A fresh unit with satisfied dependencies and spare capacity on the
	// first queue gets exactly one submission; once the job is pending it
	// drops out of the candidate set and the loop stops.
	root := t.TempDir()
	dir := makeUnit(t, root, "pe20", nil)

	scheduler := newFakeScheduler()
	events := &capturedEvents{}
	manager := newTestManager(root, scheduler, &fakeOracle{}, events)

	require.NoError(t, manager.Run(context.Background()))

	require.Len(t, scheduler.submitted, 1)
	assert.Equal(t, dir, scheduler.submitted[0].workDir)

	unit := domain.SimulationUnit{Dir: dir}
	assert.Equal(t, 1, unit.AttemptCount())

	require.Len(t, events.events, 1)
	assert.Equal(t, domain.EventSubmitted, events.events[0].Type)
	assert.Equal(t, 1, events.events[0].Attempts)

	// The loop regenerated the report on its way out.
	_, err := os.Stat(filepath.Join(root, domain.ReportFileName))
	assert.NoError(t, err)
}

func TestRunExcludesLiveUnitsRegardlessOfAttempts(t *testing.T) {
	// Five submission records plus a live pending state: the unit stays out
	// of the candidate set, so the attempt budget never even comes up.
	root := t.TempDir()
	makeUnit(t, root, "pe50", map[string]string{
		"slurm-1.out": "", "slurm-2.out": "", "slurm-3.out": "",
		"slurm-4.out": "", "slurm-5.out": "",
	})

	scheduler := newFakeScheduler()
	scheduler.setAccounting("", "5", &domain.AccountingRecord{State: "PENDING"})
	manager := newTestManager(root, scheduler, &fakeOracle{}, nil)

	require.NoError(t, manager.Run(context.Background()))
	assert.Empty(t, scheduler.submitted)
}

func TestRunAbandonsExhaustedUnit(t *testing.T) {
	// Five attempts on record, accounting purged: the unit is eligible but
	// over budget, so it is abandoned with an event and the loop terminates
	// without another submission.
	root := t.TempDir()
	dir := makeUnit(t, root, "pe80", map[string]string{
		"slurm-1.out": "", "slurm-2.out": "", "slurm-3.out": "",
		"slurm-4.out": "", "slurm-5.out": "",
	})

	scheduler := newFakeScheduler()
	events := &capturedEvents{}
	manager := newTestManager(root, scheduler, &fakeOracle{}, events)

	require.NoError(t, manager.Run(context.Background()))

	assert.Empty(t, scheduler.submitted)
	require.Len(t, events.events, 1)
	assert.Equal(t, domain.EventAbandoned, events.events[0].Type)
	assert.Equal(t, dir, events.events[0].Directory)
	assert.Equal(t, 5, events.events[0].Attempts)
}

func TestRunRetriesUnreadyDependenciesNextPass(t *testing.T) {
	// A unit whose dependency check comes back empty is skipped without
	// charging its submission budget, then picked up on a later pass.
	root := t.TempDir()
	ready := makeUnit(t, root, "ready", nil)
	blocked := makeUnit(t, root, "blocked", nil)

	scheduler := newFakeScheduler()
	oracle := &fakeOracle{notReadyTimes: map[string]int{blocked: 1}}
	manager := newTestManager(root, scheduler, oracle, nil)

	require.NoError(t, manager.Run(context.Background()))

	require.Len(t, scheduler.submitted, 2)
	assert.Equal(t, ready, scheduler.submitted[0].workDir)
	assert.Equal(t, blocked, scheduler.submitted[1].workDir)
	assert.Equal(t, 1, domain.SimulationUnit{Dir: blocked}.AttemptCount())
}

func TestRunCompletedUnitsAreLeftAlone(t *testing.T) {
	root := t.TempDir()
	makeUnit(t, root, "finished", map[string]string{
		domain.SolverLogName: "ok\nTotal wall time: 01:00:00\n",
		"slurm-900.out":      "",
	})

	scheduler := newFakeScheduler()
	scheduler.setAccounting("", "900", &domain.AccountingRecord{State: "COMPLETED"})
	manager := newTestManager(root, scheduler, &fakeOracle{}, nil)

	require.NoError(t, manager.Run(context.Background()))
	assert.Empty(t, scheduler.submitted)
}
