package service

import (
	"context"
	"time"

	"github.com/sahmed73/Simulation-Automation/internal/core/domain"
	"github.com/sahmed73/Simulation-Automation/internal/core/port"
	"go.uber.org/zap"
)

// excludedStatuses marks work the manager must leave alone: finished units
// and units the scheduler is already holding or running.
var excludedStatuses = map[domain.Status]bool{
	domain.StatusCompleted: true,
	domain.StatusPending:   true,
	domain.StatusRunning:   true,
}

// ManagerConfig holds the loop's tunables. The pass interval and submission
// pause are configuration, not constants, so operators can match the polling
// rate to the cluster's tolerance.
type ManagerConfig struct {
	Root         string
	MaxAttempts  int
	PassInterval time.Duration
	SubmitPause  time.Duration
}

// managerService is the reconciliation loop: level-triggered, re-deriving
// truth from disk and the scheduler every pass rather than trusting cached
// deltas. One pass costs O(total directories); that is the price of being
// self-healing against missed updates.
type managerService struct {
	cfg        ManagerConfig
	classifier *classifierService
	placer     *placementService
	reporter   *reportService
	oracle     port.DependencyOracle
	events     port.EventPublisher
	log        *zap.Logger
}

// NewManagerService wires the orchestrator. events may be nil.
func NewManagerService(
	cfg ManagerConfig,
	classifier *classifierService,
	placer *placementService,
	reporter *reportService,
	oracle port.DependencyOracle,
	events port.EventPublisher,
	log *zap.Logger,
) *managerService {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &managerService{
		cfg:        cfg,
		classifier: classifier,
		placer:     placer,
		reporter:   reporter,
		oracle:     oracle,
		events:     events,
		log:        log,
	}
}

// Run repeats the pass until a refresh yields no eligible work, regenerating
// the report after every pass. Context cancellation stops the loop between
// units; no in-flight scheduler call is interrupted.
func (m *managerService) Run(ctx context.Context) error {
	// Units that exhausted the submission budget. Tracked across passes so
	// the wholesale refresh cannot resurrect them; their terminal status
	// still shows in the report via the classifier.
	abandoned := make(map[string]bool)

	for pass := 1; ; pass++ {
		candidates, err := m.refresh(ctx, abandoned)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			m.log.Info("No eligible work remains, stopping", zap.Int("pass", pass))
			return m.reporter.Generate(ctx)
		}

		m.log.Info("Manager pass starting",
			zap.Int("pass", pass),
			zap.Int("candidates", len(candidates)))

		for _, dir := range candidates {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.processUnit(ctx, dir, abandoned)
		}

		if err := m.reporter.Generate(ctx); err != nil {
			m.log.Error("Report generation failed", zap.Error(err))
		}

		if !sleepCtx(ctx, m.cfg.PassInterval) {
			return ctx.Err()
		}
	}
}

// refresh rebuilds the candidate set from scratch: every discovered unit
// minus excluded statuses minus the abandoned set. The set is a value passed
// through the loop body, never process-wide state.
func (m *managerService) refresh(ctx context.Context, abandoned map[string]bool) ([]string, error) {
	dirs, err := DiscoverUnits(m.cfg.Root)
	if err != nil {
		return nil, err
	}

	var candidates []string
	for _, dir := range dirs {
		if abandoned[dir] {
			continue
		}
		status, _, err := m.classifier.Classify(ctx, dir)
		if err != nil {
			m.log.Warn("Classification failed during refresh",
				zap.String("dir", dir),
				zap.Error(err))
			continue
		}
		if excludedStatuses[status] {
			continue
		}
		candidates = append(candidates, dir)
	}
	return candidates, nil
}

func (m *managerService) processUnit(ctx context.Context, dir string, abandoned map[string]bool) {
	inputPath, err := m.oracle.Check(ctx, dir)
	if err != nil {
		m.log.Warn("Dependency check failed", zap.String("dir", dir), zap.Error(err))
		return
	}
	if inputPath == "" {
		m.log.Debug("Dependencies not ready", zap.String("dir", dir))
		return
	}

	unit := domain.SimulationUnit{Dir: dir}
	attempts := unit.AttemptCount()
	if attempts >= m.cfg.MaxAttempts {
		abandoned[dir] = true
		m.log.Warn("Submission budget exhausted, abandoning unit",
			zap.String("dir", dir),
			zap.Int("attempts", attempts))
		m.publish(ctx, domain.Event{
			Type:      domain.EventAbandoned,
			Directory: dir,
			Attempts:  attempts,
			Time:      time.Now(),
		})
		return
	}

	jobID, placed, err := m.placer.Place(ctx, dir)
	if err != nil {
		m.log.Error("Placement failed", zap.String("dir", dir), zap.Error(err))
		return
	}
	if !placed {
		return
	}

	m.publish(ctx, domain.Event{
		Type:      domain.EventSubmitted,
		Directory: dir,
		JobID:     jobID,
		Attempts:  attempts + 1,
		Time:      time.Now(),
	})

	// Spread submissions out so a burst of sbatch calls does not hammer
	// the scheduler.
	sleepCtx(ctx, m.cfg.SubmitPause)
}

func (m *managerService) publish(ctx context.Context, event domain.Event) {
	if m.events == nil {
		return
	}
	if err := m.events.Publish(ctx, event); err != nil {
		m.log.Warn("Event publish failed",
			zap.String("type", string(event.Type)),
			zap.Error(err))
	}
}

// sleepCtx sleeps unless the context ends first; false means cancelled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
