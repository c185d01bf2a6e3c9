package slurm

import (
	"fmt"
	"strings"

	"github.com/sahmed73/Simulation-Automation/internal/core/domain"
)

// parseSubmitOutput extracts the job id from sbatch --parsable output, which
// is either "<jobid>" or "<jobid>;<cluster>" when submitting cross-cluster.
func parseSubmitOutput(out string) (string, error) {
	line := strings.TrimSpace(out)
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	if line == "" {
		return "", fmt.Errorf("sbatch returned no job id")
	}
	for _, r := range line {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("sbatch returned malformed job id %q", line)
		}
	}
	return line, nil
}

// countJobLines counts job ids in squeue output, skipping the "CLUSTER: name"
// banner that --clusters inserts.
func countJobLines(out string) int {
	count := 0
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "CLUSTER:") {
			continue
		}
		count++
	}
	return count
}

// parseAccountingOutput turns sacct -n -P output into an accounting record.
// With -X only the main job line is present; anything past the first data
// line is ignored. Empty output means the job is unknown here.
func parseAccountingOutput(jobID, out string) *domain.AccountingRecord {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "CLUSTER:") {
			continue
		}
		return parseAccountingLine(jobID, line)
	}
	return nil
}

func parseAccountingLine(jobID, line string) *domain.AccountingRecord {
	fields := strings.Split(line, "|")
	// Pad so a truncated line still yields a usable record.
	for len(fields) < 11 {
		fields = append(fields, "")
	}
	return &domain.AccountingRecord{
		JobID:     jobID,
		State:     domain.SlurmState(fields[0]),
		JobName:   fields[1],
		Partition: fields[2],
		Submit:    fields[3],
		Start:     fields[4],
		End:       fields[5],
		Elapsed:   fields[6],
		AllocCPUS: fields[7],
		NodeList:  fields[8],
		MaxRSS:    fields[9],
		ReqMem:    fields[10],
	}
}
