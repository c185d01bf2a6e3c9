// Command report regenerates the status report once, without running the
// submission loop. Handy for checking on a batch while the manager is down.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sahmed73/Simulation-Automation/config/logger"
	postgresdb "github.com/sahmed73/Simulation-Automation/config/storage/postgresql"
	config "github.com/sahmed73/Simulation-Automation/config/utils"
	"github.com/sahmed73/Simulation-Automation/internal/adapter/scheduler/slurm"
	postgresadapter "github.com/sahmed73/Simulation-Automation/internal/adapter/storage/postgres"
	"github.com/sahmed73/Simulation-Automation/internal/core/port"
	"github.com/sahmed73/Simulation-Automation/internal/core/service"
	"go.uber.org/zap"
)

func main() {
	rootCtx, rootCtxCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCtxCancel()

	appConfig := config.New()
	baseLogger := logger.Build(appConfig.Logger)

	var history port.HistoryRepository
	if appConfig.DB != nil && appConfig.DB.Enabled {
		dbLogger := baseLogger.Named("DB")
		dbService, err := postgresdb.New(rootCtx, appConfig.DB, dbLogger)
		if err != nil {
			zap.L().Error("Error initializing database connection", zap.Error(err))
			os.Exit(1)
		}
		defer dbService.Close()

		if err := dbService.Migrate(); err != nil {
			zap.L().Error("Error migrating database", zap.Error(err))
			os.Exit(1)
		}
		history = postgresadapter.NewHistoryRepository(dbService, dbLogger)
	}

	scheduler := slurm.NewClient(baseLogger.Named("Slurm"))
	classifier := service.NewClassifierService(
		scheduler,
		appConfig.Scheduler.SecondaryCluster,
		baseLogger.Named("Classifier"))
	reporter := service.NewReportService(
		appConfig.Manager.Root,
		classifier,
		history,
		baseLogger.Named("Report"))

	if err := reporter.Generate(rootCtx); err != nil {
		zap.L().Error("Report generation failed", zap.Error(err))
		os.Exit(1)
	}
}
