package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/mars-sim/mars-sim-sub055/internal/adapters/metrics"
	"github.com/mars-sim/mars-sim-sub055/internal/adapters/persistence"
	"github.com/mars-sim/mars-sim-sub055/internal/adapters/scenario"
	"github.com/mars-sim/mars-sim-sub055/internal/application/activity"
	"github.com/mars-sim/mars-sim-sub055/internal/application/common"
	"github.com/mars-sim/mars-sim-sub055/internal/application/mediator"
	"github.com/mars-sim/mars-sim-sub055/internal/application/scheduling"
	"github.com/mars-sim/mars-sim-sub055/internal/application/scheduling/commands"
	"github.com/mars-sim/mars-sim-sub055/internal/application/scheduling/queries"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/shared"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/sim"
	"github.com/mars-sim/mars-sim-sub055/internal/infrastructure/config"
	"github.com/mars-sim/mars-sim-sub055/internal/infrastructure/database"
)

// application holds everything a command needs, wired from the config
type application struct {
	cfg          *config.Config
	db           *gorm.DB
	clock        *shared.MasterClock
	runner       *scheduling.Runner
	mediator     mediator.Mediator
	logger       common.ActivityLogger
	logRepo      *persistence.GormActivityLogRepository
	scheduleRepo *persistence.GormTaskScheduleRepository

	metricsServer    *metrics.Server
	schedulerMetrics *metrics.SchedulerMetricsCollector
}

type appOptions struct {
	// loadScenario builds the configured settlements
	loadScenario bool
	// serveMetrics starts the Prometheus endpoint when enabled in config
	serveMetrics bool
}

// loadConfig applies the global flags on top of the loaded configuration
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func newApplication(cfg *config.Config, opts appOptions) (*application, error) {
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	a := &application{
		cfg:          cfg,
		db:           db,
		clock:        shared.NewMasterClock(shared.MarsTime(cfg.Simulation.StartTime)),
		logger:       common.NewStdLogger("", cfg.Logging.Level),
		scheduleRepo: persistence.NewGormTaskScheduleRepository(db),
	}
	a.logRepo = persistence.NewGormActivityLogRepository(db, a.clock)
	a.logRepo.SetDedupWindow(cfg.Logging.DedupWindow)

	env := sim.NewEnv(a.clock, nil, shared.NewRand(cfg.Simulation.Seed), cfg.Simulation.Tuning)
	broker := scheduling.NewTaskBroker(env, activity.DefaultMetas(env)...)
	a.runner = scheduling.NewRunner(a.clock, env, broker, a.scheduleRepo, scheduling.RunnerConfig{
		Pulse:         cfg.Simulation.Pulse,
		MaxIterations: cfg.Simulation.MaxIterations,
		Logger:        a.settlementLogger,
	})

	// Metrics must exist before the mediator picks up its middleware
	var commandMetrics *metrics.CommandMetricsCollector
	if opts.serveMetrics && cfg.Metrics.Enabled {
		if commandMetrics, err = a.startMetrics(); err != nil {
			a.Close()
			return nil, err
		}
	}

	if opts.loadScenario {
		if err := a.loadScenario(); err != nil {
			a.Close()
			return nil, err
		}
	}

	a.mediator = mediator.NewMediator()
	if commandMetrics != nil {
		a.mediator.Use(metrics.PrometheusMiddleware(commandMetrics))
	}
	if err := a.registerHandlers(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *application) settlementLogger(settlementID string) common.ActivityLogger {
	if !a.cfg.Logging.Persist {
		return a.logger
	}
	return common.MultiLogger{a.logger, persistence.NewSettlementLogger(a.logRepo, settlementID)}
}

func (a *application) loadScenario() error {
	path := a.cfg.Simulation.Scenario
	if path == "" {
		return fmt.Errorf("no scenario configured: set simulation.scenario or pass --scenario")
	}
	f, err := scenario.LoadFile(path)
	if err != nil {
		return err
	}
	settlements, err := f.Build(a.clock)
	if err != nil {
		return fmt.Errorf("failed to build scenario %s: %w", path, err)
	}
	for _, s := range settlements {
		a.runner.AddSettlement(s)
	}
	return nil
}

func (a *application) startMetrics() (*metrics.CommandMetricsCollector, error) {
	metrics.InitRegistry()

	commandMetrics := metrics.NewCommandMetricsCollector()
	if err := commandMetrics.Register(); err != nil {
		return nil, fmt.Errorf("failed to register command metrics: %w", err)
	}
	facilityMetrics := metrics.NewFacilityMetricsCollector()
	if err := facilityMetrics.Register(); err != nil {
		return nil, fmt.Errorf("failed to register facility metrics: %w", err)
	}
	metrics.SetGlobalFacilityCollector(facilityMetrics)

	a.schedulerMetrics = metrics.NewSchedulerMetricsCollector(a.runner.Snapshots, 5*time.Second)
	if err := a.schedulerMetrics.Register(); err != nil {
		return nil, fmt.Errorf("failed to register scheduler metrics: %w", err)
	}
	metrics.SetGlobalCollector(a.schedulerMetrics)
	a.schedulerMetrics.Start(context.Background())

	server, err := metrics.NewServer(a.cfg.Metrics.Address(), a.cfg.Metrics.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}
	server.Start()
	a.metricsServer = server
	log.Printf("Metrics available at %s", a.cfg.Metrics.Endpoint())
	return commandMetrics, nil
}

func (a *application) registerHandlers() error {
	if err := mediator.RegisterHandler[*commands.RunSimulationCommand](a.mediator, commands.NewRunSimulationHandler(a.runner)); err != nil {
		return fmt.Errorf("failed to register RunSimulation handler: %w", err)
	}
	if err := mediator.RegisterHandler[*queries.ListCandidatesQuery](a.mediator, queries.NewListCandidatesHandler(a.runner)); err != nil {
		return fmt.Errorf("failed to register ListCandidates handler: %w", err)
	}
	if err := mediator.RegisterHandler[*queries.GetScheduleQuery](a.mediator, queries.NewGetScheduleHandler(a.scheduleRepo)); err != nil {
		return fmt.Errorf("failed to register GetSchedule handler: %w", err)
	}
	if err := mediator.RegisterHandler[*queries.GetLogsQuery](a.mediator, queries.NewGetLogsHandler(logReader{a.logRepo})); err != nil {
		return fmt.Errorf("failed to register GetLogs handler: %w", err)
	}
	return nil
}

// context carries the console logger for handlers running outside a pulse
func (a *application) context(ctx context.Context) context.Context {
	return common.WithLogger(ctx, a.logger)
}

// Close stops metrics and releases the database
func (a *application) Close() {
	if a.schedulerMetrics != nil {
		a.schedulerMetrics.Stop()
	}
	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			log.Printf("Warning: metrics server shutdown: %v", err)
		}
	}
	if err := database.Close(a.db); err != nil {
		log.Printf("Warning: failed to close database: %v", err)
	}
}

// logReader adapts the activity log repository to the logs query
type logReader struct {
	repo persistence.ActivityLogRepository
}

func (r logReader) ReadLogs(ctx context.Context, settlementID, workerID string, limit int, level *string, since *shared.MarsTime) ([]queries.LogEntry, error) {
	logs, err := r.repo.GetLogs(ctx, settlementID, workerID, limit, level, since)
	if err != nil {
		return nil, err
	}
	out := make([]queries.LogEntry, len(logs))
	for i, l := range logs {
		out[i] = queries.LogEntry{WorkerID: l.WorkerID, MarsTime: l.MarsTime, Level: l.Level, Message: l.Message}
	}
	return out, nil
}
