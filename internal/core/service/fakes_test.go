package service

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/sahmed73/Simulation-Automation/internal/core/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// fakeScheduler stands in for the Slurm binaries. Occupancy and accounting
// are keyed the way the real adapter routes them: per cluster, with "" for
// the default cluster. Submit mimics the real adapter by creating the
// submission record file and registering the new job as PENDING.
type fakeScheduler struct {
	occupancy  map[string]int                                 // cluster + "|" + partition
	accounting map[string]map[string]*domain.AccountingRecord // cluster → job id
	nextJobID  int
	submitted  []submitCall
	submitErr  error
}

type submitCall struct {
	workDir string
	cluster string
	jobID   string
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{
		occupancy:  make(map[string]int),
		accounting: map[string]map[string]*domain.AccountingRecord{"": {}},
		nextJobID:  1000,
	}
}

func (f *fakeScheduler) setOccupancy(cluster, partition string, n int) {
	f.occupancy[cluster+"|"+partition] = n
}

func (f *fakeScheduler) setAccounting(cluster, jobID string, rec *domain.AccountingRecord) {
	if f.accounting[cluster] == nil {
		f.accounting[cluster] = make(map[string]*domain.AccountingRecord)
	}
	rec.JobID = jobID
	f.accounting[cluster][jobID] = rec
}

func (f *fakeScheduler) Submit(ctx context.Context, workDir, script, cluster string) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.nextJobID++
	jobID := strconv.Itoa(f.nextJobID)

	unit := domain.SimulationUnit{Dir: workDir}
	if err := os.WriteFile(unit.SubmissionRecordPath(jobID), nil, 0o644); err != nil {
		return "", err
	}
	f.setAccounting(cluster, jobID, &domain.AccountingRecord{State: "PENDING"})
	f.submitted = append(f.submitted, submitCall{workDir: workDir, cluster: cluster, jobID: jobID})
	return jobID, nil
}

func (f *fakeScheduler) QueueOccupancy(ctx context.Context, user, partition, cluster string) (int, error) {
	return f.occupancy[cluster+"|"+partition], nil
}

func (f *fakeScheduler) Accounting(ctx context.Context, jobID, cluster string) (*domain.AccountingRecord, error) {
	return f.accounting[cluster][jobID], nil
}

// fakeOracle reports readiness per directory; unlisted directories are ready.
// notReadyTimes delays a directory for that many checks before it reports
// ready.
type fakeOracle struct {
	notReadyTimes map[string]int
}

func (f *fakeOracle) Check(ctx context.Context, dir string) (string, error) {
	if f.notReadyTimes[dir] > 0 {
		f.notReadyTimes[dir]--
		return "", nil
	}
	return filepath.Join(dir, domain.InputFileName), nil
}

const testDescriptor = `#!/bin/bash
#SBATCH --job-name=test
#SBATCH --partition=placeholder
#SBATCH --ntasks=1
#SBATCH --time=01:00:00
srun lmp -in input.lammps
`

// makeUnit creates a simulation directory under root with the input
// descriptor marker, a submission descriptor, and any extra files given as
// name/content pairs.
func makeUnit(t *testing.T, root, name string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.InputFileName), []byte("# lammps input\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.DescriptorFileName), []byte(testDescriptor), 0o644))
	for fname, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fname), []byte(content), 0o644))
	}
	return dir
}
