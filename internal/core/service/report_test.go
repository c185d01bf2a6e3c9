package service

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sahmed73/Simulation-Automation/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readReport(t *testing.T, root string) [][]string {
	t.Helper()
	f, err := os.Open(filepath.Join(root, domain.ReportFileName))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestGenerateReportRows(t *testing.T) {
	root := t.TempDir()
	makeUnit(t, root, "fresh", nil)
	failed := makeUnit(t, root, "failed", map[string]string{
		domain.SolverLogName: "setup\nERROR: Lost atoms\n",
		"slurm-700.out":      "",
	})

	scheduler := newFakeScheduler()
	scheduler.setAccounting("", "700", &domain.AccountingRecord{
		State:     "FAILED",
		JobName:   "oplsaa-pe20",
		Partition: "short",
		Elapsed:   "01:02:03",
		AllocCPUS: "24",
		NodeList:  "mrcd[001-002]",
	})
	classifier := NewClassifierService(scheduler, "", testLogger())
	reporter := NewReportService(root, classifier, nil, testLogger())

	require.NoError(t, reporter.Generate(context.Background()))

	rows := readReport(t, root)
	require.Len(t, rows, 3) // header + 2 units
	assert.Equal(t, domain.ReportHeader(), rows[0])

	byDir := map[string][]string{}
	for _, row := range rows[1:] {
		byDir[row[0]] = row
	}

	fresh := byDir[filepath.Join(root, "fresh")]
	require.NotNil(t, fresh)
	assert.Equal(t, string(domain.StatusNotSubmitted), fresh[1])
	// Accounting columns fall back to the sentinel.
	for _, col := range fresh[2:13] {
		assert.Equal(t, domain.Sentinel, col)
	}
	assert.Empty(t, fresh[13])

	failedRow := byDir[failed]
	require.NotNil(t, failedRow)
	assert.Equal(t, string(domain.StatusHardFail), failedRow[1])
	assert.Equal(t, "700", failedRow[2])
	assert.Equal(t, "oplsaa-pe20", failedRow[3])
	assert.Equal(t, "short", failedRow[4])
	assert.Equal(t, "24", failedRow[9])
	assert.Equal(t, "ERROR: Lost atoms", failedRow[13])
}

func TestGenerateIsIdempotent(t *testing.T) {
	root := t.TempDir()
	makeUnit(t, root, "a", map[string]string{
		domain.SolverLogName: "Total wall time: 00:01:00\n",
		"slurm-10.out":       "",
	})
	makeUnit(t, root, "b", nil)

	scheduler := newFakeScheduler()
	scheduler.setAccounting("", "10", &domain.AccountingRecord{State: "COMPLETED", Elapsed: "00:01:00"})
	classifier := NewClassifierService(scheduler, "", testLogger())
	reporter := NewReportService(root, classifier, nil, testLogger())

	require.NoError(t, reporter.Generate(context.Background()))
	first, err := os.ReadFile(filepath.Join(root, domain.ReportFileName))
	require.NoError(t, err)

	require.NoError(t, reporter.Generate(context.Background()))
	second, err := os.ReadFile(filepath.Join(root, domain.ReportFileName))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateOverwritesPriorReport(t *testing.T) {
	root := t.TempDir()
	makeUnit(t, root, "only", nil)

	stale := strings.Repeat("stale,content\n", 100)
	require.NoError(t, os.WriteFile(filepath.Join(root, domain.ReportFileName), []byte(stale), 0o644))

	classifier := NewClassifierService(newFakeScheduler(), "", testLogger())
	reporter := NewReportService(root, classifier, nil, testLogger())
	require.NoError(t, reporter.Generate(context.Background()))

	rows := readReport(t, root)
	assert.Len(t, rows, 2)
}
