package service

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/sahmed73/Simulation-Automation/internal/core/domain"
	"github.com/sahmed73/Simulation-Automation/internal/core/port"
	"go.uber.org/zap"
)

// reportService regenerates the status report. The report is a snapshot:
// every known unit gets a row regardless of status, and the file is fully
// overwritten on every pass.
type reportService struct {
	root       string
	classifier *classifierService
	history    port.HistoryRepository
	log        *zap.Logger
}

// NewReportService builds a report generator. history may be nil; rows are
// then written to the CSV file only.
func NewReportService(root string, classifier *classifierService, history port.HistoryRepository, log *zap.Logger) *reportService {
	return &reportService{
		root:       root,
		classifier: classifier,
		history:    history,
		log:        log,
	}
}

// Generate writes the full report table to job_report.csv under the root and,
// when configured, archives the rows.
func (r *reportService) Generate(ctx context.Context) error {
	dirs, err := DiscoverUnits(r.root)
	if err != nil {
		return err
	}

	rows := make([]domain.ReportRow, 0, len(dirs))
	for _, dir := range dirs {
		status, acct, err := r.classifier.Classify(ctx, dir)
		if err != nil {
			r.log.Warn("Classification failed, reporting as unknown",
				zap.String("dir", dir),
				zap.Error(err))
			status = domain.StatusUnknown
		}
		unit := domain.SimulationUnit{Dir: dir}
		rows = append(rows, domain.NewReportRow(dir, status, acct, unit.ErrorLine()))
	}

	if err := r.write(rows); err != nil {
		return err
	}

	if r.history != nil {
		if err := r.history.SaveRows(ctx, rows); err != nil {
			r.log.Warn("Failed to archive report rows", zap.Error(err))
		}
	}

	r.log.Info("Report regenerated", zap.Int("units", len(rows)))
	return nil
}

func (r *reportService) write(rows []domain.ReportRow) error {
	f, err := os.Create(filepath.Join(r.root, domain.ReportFileName))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(domain.ReportHeader()); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row.Fields()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
