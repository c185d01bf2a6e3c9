package service

import (
	"context"
	"os"

	"github.com/sahmed73/Simulation-Automation/internal/core/domain"
	"github.com/sahmed73/Simulation-Automation/internal/core/port"
	"go.uber.org/zap"
)

// placementService places one job onto the first queue with spare capacity.
type placementService struct {
	scheduler port.SchedulerClient
	queues    []domain.QueueDescriptor
	user      string
	log       *zap.Logger
}

func NewPlacementService(scheduler port.SchedulerClient, queues []domain.QueueDescriptor, user string, log *zap.Logger) *placementService {
	return &placementService{
		scheduler: scheduler,
		queues:    queues,
		user:      user,
		log:       log,
	}
}

// Place walks the queue list in priority order, submits to the first queue
// whose live occupancy is under its limit, and returns the assigned job id.
// It returns ok=false when every queue is full; the descriptor is left
// untouched in that case and the caller retries next pass. Occupancy is
// polled immediately before the decision; the check-then-act race with other
// submitters is accepted.
func (p *placementService) Place(ctx context.Context, dir string) (string, bool, error) {
	unit := domain.SimulationUnit{Dir: dir}

	for _, queue := range p.queues {
		// A zero limit never satisfies occupancy < limit; that is how a
		// queue is disabled without leaving the priority list.
		occupancy, err := p.scheduler.QueueOccupancy(ctx, p.user, queue.Name, queue.Cluster)
		if err != nil {
			p.log.Warn("Occupancy query failed, skipping queue",
				zap.String("queue", queue.Name),
				zap.Error(err))
			continue
		}
		if occupancy >= queue.Limit {
			continue
		}

		if err := p.rewriteDescriptor(unit, queue); err != nil {
			return "", false, err
		}

		jobID, err := p.scheduler.Submit(ctx, dir, domain.DescriptorFileName, queue.Cluster)
		if err != nil {
			p.log.Error("Submission failed",
				zap.String("dir", dir),
				zap.String("queue", queue.Name),
				zap.Error(err))
			return "", false, nil
		}

		p.log.Info("Submitted job",
			zap.String("dir", dir),
			zap.String("job_id", jobID),
			zap.String("queue", queue.Name),
			zap.Int("occupancy", occupancy),
			zap.Int("limit", queue.Limit))
		return jobID, true, nil
	}

	p.log.Info("No queue has spare capacity", zap.String("dir", dir))
	return "", false, nil
}

// rewriteDescriptor applies the queue's resource profile to the unit's
// submission descriptor: pure rewrite first, then an explicit write-back.
func (p *placementService) rewriteDescriptor(unit domain.SimulationUnit, queue domain.QueueDescriptor) error {
	path := unit.DescriptorPath()
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	rewritten, err := domain.RewriteDescriptor(string(content), queue)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(rewritten), 0o644)
}
