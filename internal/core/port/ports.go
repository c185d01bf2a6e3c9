// Package port provides behavior interfaces that connects service & adapter layers.
package port

import (
	"context"

	"github.com/sahmed73/Simulation-Automation/internal/core/domain"
)

// SchedulerClient defines every interaction with the batch scheduler. The
// production adapter shells out to the Slurm binaries; tests substitute a
// fake. The cluster argument is empty for the default cluster.
type SchedulerClient interface {
	// Submit enqueues the descriptor script from workDir and returns the
	// assigned job id. A submission record file exists in workDir when
	// Submit returns successfully.
	Submit(ctx context.Context, workDir, script, cluster string) (string, error)

	// QueueOccupancy counts the user's live jobs on one partition.
	QueueOccupancy(ctx context.Context, user, partition, cluster string) (int, error)

	// Accounting looks a job up in the accounting database. An unknown job is
	// (nil, nil), not an error; the caller decides whether to try another
	// cluster.
	Accounting(ctx context.Context, jobID, cluster string) (*domain.AccountingRecord, error)
}

// DependencyOracle reports whether a simulation directory's input
// prerequisites are satisfied. A non-empty path means ready. Implementations
// must bound their own runtime; a stuck oracle is treated as "not ready".
type DependencyOracle interface {
	Check(ctx context.Context, dir string) (string, error)
}

// HistoryRepository archives report rows so terminal outcomes outlive the
// accounting database's retention window.
type HistoryRepository interface {
	SaveRows(ctx context.Context, rows []domain.ReportRow) error
}

// EventPublisher pushes lifecycle events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// ManagerLock serializes managers: at most one holds the lease for a given
// root directory at a time.
type ManagerLock interface {
	Acquire(ctx context.Context, root string) error
	Release(ctx context.Context, root string) error
}
