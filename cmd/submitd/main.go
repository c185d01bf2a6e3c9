package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sahmed73/Simulation-Automation/config/logger"
	postgresdb "github.com/sahmed73/Simulation-Automation/config/storage/postgresql"
	redisdb "github.com/sahmed73/Simulation-Automation/config/storage/redis"
	config "github.com/sahmed73/Simulation-Automation/config/utils"
	"github.com/sahmed73/Simulation-Automation/internal/adapter/oracle"
	"github.com/sahmed73/Simulation-Automation/internal/adapter/queue/rabbitmq"
	"github.com/sahmed73/Simulation-Automation/internal/adapter/scheduler/slurm"
	postgresadapter "github.com/sahmed73/Simulation-Automation/internal/adapter/storage/postgres"
	redisadapter "github.com/sahmed73/Simulation-Automation/internal/adapter/storage/redis"
	"github.com/sahmed73/Simulation-Automation/internal/core/domain"
	"github.com/sahmed73/Simulation-Automation/internal/core/port"
	"github.com/sahmed73/Simulation-Automation/internal/core/service"
	"go.uber.org/zap"
)

func main() {
	rootCtx, rootCtxCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCtxCancel()

	// Init config
	appConfig := config.New()
	baseLogger := logger.Build(appConfig.Logger)
	zap.L().Info("Starting the submission manager",
		zap.String("app", appConfig.App.Name),
		zap.String("env", appConfig.App.Env),
		zap.String("root", appConfig.Manager.Root))

	// Init job-history database (optional)
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
		zap.L().Info("Job-history database ready")
		history = postgresadapter.NewHistoryRepository(dbService, dbLogger)
	}

	// Init manager lease (optional); guards against a second manager on the
	// same root directory.
	if appConfig.Redis != nil && appConfig.Redis.Enabled {
		cache, err := redisdb.New(rootCtx, appConfig.Redis)
		if err != nil {
			zap.L().Error("Error initializing cache connection", zap.Error(err))
			os.Exit(1)
		}
		lock := redisadapter.NewManagerLock(cache, baseLogger.Named("Lease"))
		if err := lock.Acquire(rootCtx, appConfig.Manager.Root); err != nil {
			zap.L().Error("Could not acquire manager lease", zap.Error(err))
			os.Exit(1)
		}
		defer lock.Release(context.Background(), appConfig.Manager.Root)
	}

	// Init lifecycle event publisher (optional)
	var events port.EventPublisher
	if appConfig.AMQP != nil && appConfig.AMQP.Enabled {
		publisher, err := rabbitmq.NewEventPublisher(appConfig.AMQP.URL, baseLogger.Named("AMQP"))
		if err != nil {
			zap.L().Error("Error connecting to the event broker", zap.Error(err))
			os.Exit(1)
		}
		if closer, ok := publisher.(interface{ Close() }); ok {
			defer closer.Close()
		}
		events = publisher
	}

	// Wire the scheduler client, oracle and services
	scheduler := slurm.NewClient(baseLogger.Named("Slurm"))
	depOracle, err := oracle.NewExecOracle(
		appConfig.Manager.OracleCommand,
		appConfig.Manager.DependencyTimeout,
		baseLogger.Named("Oracle"))
	if err != nil {
		zap.L().Error("Error building dependency oracle", zap.Error(err))
		os.Exit(1)
	}

	classifier := service.NewClassifierService(
		scheduler,
		appConfig.Scheduler.SecondaryCluster,
		baseLogger.Named("Classifier"))
	placer := service.NewPlacementService(
		scheduler,
		queueDescriptors(appConfig.Queues),
		appConfig.Scheduler.User,
		baseLogger.Named("Placement"))
	reporter := service.NewReportService(
		appConfig.Manager.Root,
		classifier,
		history,
		baseLogger.Named("Report"))
	manager := service.NewManagerService(
		service.ManagerConfig{
			Root:         appConfig.Manager.Root,
			MaxAttempts:  appConfig.Manager.MaxAttempts,
			PassInterval: appConfig.Manager.PassInterval,
			SubmitPause:  appConfig.Manager.SubmitPause,
		},
		classifier, placer, reporter, depOracle, events,
		baseLogger.Named("Manager"))

	if err := manager.Run(rootCtx); err != nil && rootCtx.Err() == nil {
		zap.L().Error("Manager loop failed", zap.Error(err))
		os.Exit(1)
	}

	zap.L().Info("Submission manager finished")
}

// queueDescriptors maps config queue entries onto the domain type, preserving
// the priority order of the config file.
func queueDescriptors(queues []config.Queue) []domain.QueueDescriptor {
	out := make([]domain.QueueDescriptor, 0, len(queues))
	for _, q := range queues {
		out = append(out, domain.QueueDescriptor{
			Name:     q.Name,
			Limit:    q.Limit,
			Cores:    q.Cores,
			Walltime: q.Walltime,
			Cluster:  q.Cluster,
		})
	}
	return out
}
