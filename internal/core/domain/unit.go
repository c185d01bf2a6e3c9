package domain

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Fixed per-directory file names. The presence of InputFileName is the sole
// marker that a directory is a SimulationUnit.
const (
	InputFileName      = "input.lammps"
	SolverLogName      = "log.lammps"
	DescriptorFileName = "run.sbatch"
	ReportFileName     = "job_report.csv"

	// SuccessMarker appears in the solver log only when the run reached its
	// final milestone. A job can exit 0 from the scheduler's point of view
	// without ever printing it.
	SuccessMarker = "Total wall time"

	errorMarker = "error"
)

var submissionRecordPattern = regexp.MustCompile(`^slurm-(\d+)\.out$`)

// Completion is the solver-log half of the classification signal.
type Completion int

const (
	CompletionMissing Completion = iota
	CompletionIncomplete
	CompletionComplete
)

// SimulationUnit is one simulation working directory.
type SimulationUnit struct {
	Dir string
}

// SubmissionRecord is one slurm-<jobid>.out file, created at submission time.
// One record exists per submission attempt.
type SubmissionRecord struct {
	Path    string
	JobID   string
	ModTime time.Time
}

// Completion inspects the solver log and reports missing, incomplete or
// complete.
func (u SimulationUnit) Completion() Completion {
	data, err := os.ReadFile(filepath.Join(u.Dir, SolverLogName))
	if err != nil {
		return CompletionMissing
	}
	if strings.Contains(string(data), SuccessMarker) {
		return CompletionComplete
	}
	return CompletionIncomplete
}

// SubmissionRecords returns all submission records for the unit, ordered
// oldest first. Ordering is by file modification time with the numeric job id
// as tie breaker, so the last element is the most recent attempt.
func (u SimulationUnit) SubmissionRecords() ([]SubmissionRecord, error) {
	entries, err := os.ReadDir(u.Dir)
	if err != nil {
		return nil, err
	}

	var records []SubmissionRecord
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := submissionRecordPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		records = append(records, SubmissionRecord{
			Path:    filepath.Join(u.Dir, e.Name()),
			JobID:   m[1],
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].ModTime.Equal(records[j].ModTime) {
			return records[i].ModTime.Before(records[j].ModTime)
		}
		a, _ := strconv.ParseUint(records[i].JobID, 10, 64)
		b, _ := strconv.ParseUint(records[j].JobID, 10, 64)
		return a < b
	})
	return records, nil
}

// LatestRecord returns the most recent submission record, or false when the
// unit has never been submitted.
func (u SimulationUnit) LatestRecord() (SubmissionRecord, bool) {
	records, err := u.SubmissionRecords()
	if err != nil || len(records) == 0 {
		return SubmissionRecord{}, false
	}
	return records[len(records)-1], true
}

// AttemptCount is the number of submission attempts recorded on disk.
func (u SimulationUnit) AttemptCount() int {
	records, err := u.SubmissionRecords()
	if err != nil {
		return 0
	}
	return len(records)
}

// ErrorLine scans the solver log and returns the first line containing the
// error marker, case-insensitively. Empty when the log is absent or clean.
func (u SimulationUnit) ErrorLine() string {
	f, err := os.Open(filepath.Join(u.Dir, SolverLogName))
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(strings.ToLower(line), errorMarker) {
			return strings.TrimSpace(line)
		}
	}
	return ""
}

// DescriptorPath is the unit's submission descriptor file.
func (u SimulationUnit) DescriptorPath() string {
	return filepath.Join(u.Dir, DescriptorFileName)
}

// SubmissionRecordPath is where the record for a given job id lives.
func (u SimulationUnit) SubmissionRecordPath(jobID string) string {
	return filepath.Join(u.Dir, "slurm-"+jobID+".out")
}
