package postgres

import (
	"context"

	postgres "github.com/sahmed73/Simulation-Automation/config/storage/postgresql"
	"github.com/sahmed73/Simulation-Automation/internal/core/domain"
	"github.com/sahmed73/Simulation-Automation/internal/core/port"
	"go.uber.org/zap"
)

type historyRepository struct {
	db  *postgres.DB
	log *zap.Logger
}

// NewHistoryRepository creates the job-history archive. Each report pass
// upserts one row per simulation directory so terminal outcomes survive the
// accounting database's retention window.
func NewHistoryRepository(db *postgres.DB, log *zap.Logger) port.HistoryRepository {
	return &historyRepository{
		db:  db,
		log: log,
	}
}

func (r *historyRepository) SaveRows(ctx context.Context, rows []domain.ReportRow) error {
	for _, row := range rows {
		query, args, err := r.db.QueryBuilder.
			Insert("job_history").
			Columns("directory", "status", "job_id", "job_name", "partition",
				"submit_time", "start_time", "end_time", "elapsed", "alloc_cpus",
				"node_list", "max_rss", "req_mem", "error_text").
			Values(row.Directory, string(row.Status), row.JobID, row.JobName, row.Partition,
				row.Submit, row.Start, row.End, row.Elapsed, row.AllocCPUS,
				row.NodeList, row.MaxRSS, row.ReqMem, row.Error).
			Suffix(`ON CONFLICT (directory) DO UPDATE SET
				status = EXCLUDED.status,
				job_id = EXCLUDED.job_id,
				job_name = EXCLUDED.job_name,
				partition = EXCLUDED.partition,
				submit_time = EXCLUDED.submit_time,
				start_time = EXCLUDED.start_time,
				end_time = EXCLUDED.end_time,
				elapsed = EXCLUDED.elapsed,
				alloc_cpus = EXCLUDED.alloc_cpus,
				node_list = EXCLUDED.node_list,
				max_rss = EXCLUDED.max_rss,
				req_mem = EXCLUDED.req_mem,
				error_text = EXCLUDED.error_text,
				recorded_at = NOW()`).
			ToSql()
		if err != nil {
			return err
		}

		if _, err := r.db.Exec(ctx, query, args...); err != nil {
			r.log.Error("Failed to archive report row",
				zap.String("directory", row.Directory),
				zap.Error(err))
			return err
		}
	}
	return nil
}
