// Package slurm shells out to the Slurm binaries to implement the scheduler
// client port. Every call targets either the default cluster or an explicitly
// named secondary cluster via --clusters.
package slurm

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sahmed73/Simulation-Automation/internal/core/domain"
	"github.com/sahmed73/Simulation-Automation/internal/core/port"
	"go.uber.org/zap"
)

// sacctFormat lists the accounting fields queried per job, pipe-separated by
// sacct -P. Order must match parseAccountingLine.
const sacctFormat = "State,JobName,Partition,Submit,Start,End,Elapsed,AllocCPUS,NodeList,MaxRSS,ReqMem"

type client struct {
	log *zap.Logger
}

// NewClient builds the exec-based Slurm adapter.
func NewClient(log *zap.Logger) port.SchedulerClient {
	return &client{log: log}
}

// Submit runs sbatch from the unit directory and writes the submission record
// file. The record exists as soon as sbatch returns, so attempt counting and
// job-id recovery never depend on the job having started.
func (c *client) Submit(ctx context.Context, workDir, script, cluster string) (string, error) {
	args := []string{"--parsable"}
	if cluster != "" {
		args = append(args, "--clusters", cluster)
	}
	args = append(args, script)

	cmd := exec.CommandContext(ctx, "sbatch", args...)
	cmd.Dir = workDir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("sbatch failed: %w: %s", err, exitStderr(err))
	}

	jobID, err := parseSubmitOutput(string(out))
	if err != nil {
		return "", err
	}

	unit := domain.SimulationUnit{Dir: workDir}
	record, err := os.OpenFile(unit.SubmissionRecordPath(jobID), os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating submission record for job %s: %w", jobID, err)
	}
	record.Close()

	c.log.Debug("sbatch accepted job",
		zap.String("dir", workDir),
		zap.String("job_id", jobID),
		zap.String("cluster", cluster))
	return jobID, nil
}

// QueueOccupancy counts the user's pending and running jobs on one partition.
func (c *client) QueueOccupancy(ctx context.Context, user, partition, cluster string) (int, error) {
	args := []string{"-h", "-u", user, "-p", partition, "-t", "PENDING,RUNNING", "-o", "%i"}
	if cluster != "" {
		args = append(args, "--clusters", cluster)
	}

	out, err := exec.CommandContext(ctx, "squeue", args...).Output()
	if err != nil {
		return 0, fmt.Errorf("squeue failed: %w: %s", err, exitStderr(err))
	}
	return countJobLines(string(out)), nil
}

// Accounting queries sacct for one job. An empty result is (nil, nil): the
// job is simply unknown to this cluster.
func (c *client) Accounting(ctx context.Context, jobID, cluster string) (*domain.AccountingRecord, error) {
	args := []string{"-j", jobID, "-X", "-n", "-P", "--format", sacctFormat}
	if cluster != "" {
		args = append(args, "--clusters", cluster)
	}

	out, err := exec.CommandContext(ctx, "sacct", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("sacct failed: %w: %s", err, exitStderr(err))
	}
	return parseAccountingOutput(jobID, string(out)), nil
}

// exitStderr surfaces the captured stderr of a failed command.
func exitStderr(err error) string {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return strings.TrimSpace(string(exitErr.Stderr))
	}
	return ""
}
