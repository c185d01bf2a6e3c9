package service

import (
	"context"

	"github.com/sahmed73/Simulation-Automation/internal/core/domain"
	"github.com/sahmed73/Simulation-Automation/internal/core/port"
	"go.uber.org/zap"
)

// classifierService derives a unit's lifecycle status from its solver log and
// the scheduler accounting database. Status is a pure function of directory
// state plus the latest accounting lookup; nothing is cached between calls.
type classifierService struct {
	scheduler        port.SchedulerClient
	secondaryCluster string
	log              *zap.Logger
}

func NewClassifierService(scheduler port.SchedulerClient, secondaryCluster string, log *zap.Logger) *classifierService {
	return &classifierService{
		scheduler:        scheduler,
		secondaryCluster: secondaryCluster,
		log:              log,
	}
}

// Classify resolves a unit's status. The accounting record for the latest
// submission attempt is returned alongside so the report generator does not
// query twice; it is nil when the unit was never submitted or the record has
// been purged.
func (c *classifierService) Classify(ctx context.Context, dir string) (domain.Status, *domain.AccountingRecord, error) {
	unit := domain.SimulationUnit{Dir: dir}

	// A submission record takes precedence over a missing log: a job can
	// crash before the solver opens its log, and that must surface as a
	// failure, not as never-submitted.
	record, ok := unit.LatestRecord()
	if !ok {
		return domain.StatusNotSubmitted, nil, nil
	}

	acct, err := c.lookup(ctx, record.JobID)
	if err != nil {
		return domain.StatusUnknown, nil, err
	}
	if acct == nil {
		// Known to neither cluster: submitted once, but the accounting
		// record expired or was purged.
		c.log.Warn("Job unknown to accounting on both clusters",
			zap.String("dir", dir),
			zap.String("job_id", record.JobID))
		return domain.StatusUnknown, nil, nil
	}

	state := acct.State.Normalize()
	completion := unit.Completion()

	switch {
	case state.IsFailureTerminal():
		return domain.StatusHardFail, acct, nil
	case state.IsSuccessTerminal() && completion == domain.CompletionComplete:
		return domain.StatusCompleted, acct, nil
	case state.IsSuccessTerminal():
		// Scheduler says done, solver never reached its completion marker.
		return domain.StatusSoftFail, acct, nil
	case state.IsLive():
		return state.LiveStatus(), acct, nil
	default:
		c.log.Warn("Unrecognized scheduler state",
			zap.String("dir", dir),
			zap.String("job_id", record.JobID),
			zap.String("state", string(acct.State)))
		return domain.StatusUnknown, acct, nil
	}
}

// lookup queries the default cluster first and falls back to the secondary
// cluster when the record is unknown there.
func (c *classifierService) lookup(ctx context.Context, jobID string) (*domain.AccountingRecord, error) {
	acct, err := c.scheduler.Accounting(ctx, jobID, "")
	if err != nil {
		return nil, err
	}
	if acct != nil {
		return acct, nil
	}
	if c.secondaryCluster == "" {
		return nil, nil
	}
	return c.scheduler.Accounting(ctx, jobID, c.secondaryCluster)
}
