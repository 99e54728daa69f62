// Package main - ponto de entrada do servidor do Attendance Hub.
//
// O servidor reúne tudo em um único processo:
// - API REST (fechamento do dia, relatórios, cadastro, transporte)
// - Jobs agendados (digest noturno de ausências, varredura de faltas consecutivas)
// - Cache de relatórios no Redis com invalidação por eventos
//
// A secretaria fecha a chamada do dia pela API; os relatórios saem da mesma
// base, sempre no fuso da escola.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/presenca-hub/attendance-hub/config"
	"github.com/presenca-hub/attendance-hub/internal/application/command"
	"github.com/presenca-hub/attendance-hub/internal/application/eventhandler"
	"github.com/presenca-hub/attendance-hub/internal/application/query"
	"github.com/presenca-hub/attendance-hub/internal/domain/attendance"
	"github.com/presenca-hub/attendance-hub/internal/domain/report"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/internal/domain/transport"
	"github.com/presenca-hub/attendance-hub/internal/infrastructure/messaging"
	"github.com/presenca-hub/attendance-hub/internal/infrastructure/persistence/postgres"
	"github.com/presenca-hub/attendance-hub/internal/infrastructure/persistence/redis"
	"github.com/presenca-hub/attendance-hub/internal/infrastructure/scheduler"
	"github.com/presenca-hub/attendance-hub/internal/infrastructure/scheduler/jobs"
	"github.com/presenca-hub/attendance-hub/internal/infrastructure/service"
	httpapi "github.com/presenca-hub/attendance-hub/internal/interface/http"
	"github.com/presenca-hub/attendance-hub/internal/interface/http/handlers"
	"github.com/presenca-hub/attendance-hub/pkg/circuitbreaker"
	"github.com/presenca-hub/attendance-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURAÇÃO
	// ─────────────────────────────────────────────────────────────────────────
	// .env é opcional; em produção tudo vem do ambiente.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting attendance hub",
		"env", string(cfg.App.Environment),
		"version", cfg.App.Version,
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. POSTGRESQL
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// Migrações na subida: o schema precisa estar em dia antes de aceitar
	// qualquer fechamento de chamada.
	log.Info("checking database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database schema is up to date")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS (opcional - cache de relatórios)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var reportCache *redis.ReportCache

	cacheEnabled := !cfg.Redis.Disabled && cfg.Features.IsEnabled(config.FeatureReportCache)
	if cacheEnabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			// Sem Redis os relatórios saem direto do Postgres.
			log.Warn("failed to connect to Redis, report cache disabled", "error", err)
		} else {
			defer redisCache.Close()
			breaker := circuitbreaker.CacheBreaker(func(name string, from, to circuitbreaker.State) {
				log.Warn("circuit breaker state change",
					"breaker", name, "from", from.String(), "to", to.String())
			})
			reportCache = redis.NewReportCacheWithBreaker(redisCache, breaker)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REPOSITÓRIOS E DOMÍNIO
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	rosterRepo := postgres.NewRosterRepository(dbConn)
	ledgerRepo := postgres.NewLedgerRepository(dbConn)
	transportRepo := postgres.NewTransportRepository(dbConn)

	ledger := attendance.NewLedger(ledgerRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	eventBusConfig := messaging.DefaultInMemoryEventBusConfig()
	eventBusConfig.Logger = log
	eventBus := messaging.NewInMemoryEventBus(eventBusConfig)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	// A invalidação do cache anda atrás dos eventos de escrita.
	if reportCache != nil {
		onDayCommitted := eventhandler.NewOnDayCommittedHandler(reportCache, log)
		if err := eventBus.Subscribe(shared.EventDayCommitted, onDayCommitted.Handle); err != nil {
			return fmt.Errorf("failed to subscribe day committed handler: %w", err)
		}

		onPhoneCorrected := eventhandler.NewOnPhoneCorrectedHandler(reportCache, log)
		if err := eventBus.Subscribe(shared.EventPhoneCorrected, onPhoneCorrected.Handle); err != nil {
			return fmt.Errorf("failed to subscribe phone corrected handler: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. APPLICATION HANDLERS (CQRS)
	// ─────────────────────────────────────────────────────────────────────────
	commitDay := command.NewCommitDayHandler(rosterRepo, ledger, eventBus)
	manageStudent := command.NewManageStudentHandler(rosterRepo, eventBus)

	// Superfícies opcionais: com a flag desligada o handler fica nulo e a
	// rota correspondente nem é registrada.
	var backfillPhone *command.BackfillPhoneHandler
	if cfg.Features.IsEnabled(config.FeatureRosterBackfill) {
		backfillPhone = command.NewBackfillPhoneHandler(rosterRepo, ledger, transportRepo, eventBus)
	}
	var saveTransport *command.SaveTransportHandler
	var transportRecords transport.Repository
	if cfg.Features.IsEnabled(config.FeatureRosterTransport) {
		saveTransport = command.NewSaveTransportHandler(rosterRepo, transportRepo, eventBus)
		transportRecords = transportRepo
	}

	dailyReports := query.NewDailyReportHandler(ledgerRepo, cacheOrNil(reportCache))
	monthlyReports := query.NewMonthlyReportHandler(rosterRepo, ledgerRepo, cacheOrNil(reportCache))
	customReports := query.NewCustomReportHandler(ledgerRepo)
	individualReports := query.NewIndividualReportHandler(rosterRepo, ledgerRepo)
	listStudents := query.NewListStudentsHandler(rosterRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. SCHEDULER (digest noturno + varredura de consecutivas)
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Scheduler.Enabled {
		log.Info("initializing scheduler...")
		sched := scheduler.NewScheduler(scheduler.SchedulerConfig{
			Logger:   log,
			Timezone: cfg.App.Location,
		})

		// O digest materializa em CSV; as duas flags precisam estar ligadas.
		if cfg.Features.IsEnabled(config.FeatureSchedulerDigest) && cfg.Features.IsEnabled(config.FeatureReportExport) {
			exporter, err := service.NewCSVExporter(cfg.Export.Dir, log)
			if err != nil {
				return fmt.Errorf("failed to create exporter: %w", err)
			}

			digestJob := jobs.NewDailyDigestJob(dailyReports, exporter, eventBus, log, jobs.DailyDigestConfig{
				Timezone: cfg.App.Location,
				Timeout:  cfg.Scheduler.JobTimeout,
			})
			// Dias letivos apenas (seg-sex).
			digestCron := fmt.Sprintf("%d %d * * 1-5",
				cfg.Scheduler.DailyDigestMinute, cfg.Scheduler.DailyDigestHour)
			if err := sched.Register(digestJob, scheduler.MustParseCronExpression(digestCron)); err != nil {
				return fmt.Errorf("failed to register digest job: %w", err)
			}
		}

		if cfg.Features.IsEnabled(config.FeatureSchedulerSweep) {
			sweepJob := jobs.NewConsecutiveSweepJob(ledgerRepo, log, jobs.ConsecutiveSweepConfig{
				Timezone: cfg.App.Location,
				Timeout:  cfg.Scheduler.JobTimeout,
			})
			sweepCron := fmt.Sprintf("%d %d * * 1-5",
				cfg.Scheduler.SweepMinute, cfg.Scheduler.SweepHour)
			if err := sched.Register(sweepJob, scheduler.MustParseCronExpression(sweepCron)); err != nil {
				return fmt.Errorf("failed to register sweep job: %w", err)
			}
		}

		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer func() {
			log.Info("stopping scheduler...")
			_ = sched.Stop()
		}()
		log.Info("scheduler started")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	healthChecker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	healthChecker.AddCheck("database", handlers.NewDatabaseCheck(dbConn))
	if redisCache != nil {
		healthChecker.AddCheck("cache", handlers.NewCacheCheck(redisCache))
	}

	serverCfg := httpapi.DefaultConfig()
	serverCfg.Host = cfg.Server.Host
	serverCfg.Port = cfg.Server.Port
	serverCfg.ReadTimeout = cfg.Server.ReadTimeout
	serverCfg.WriteTimeout = cfg.Server.WriteTimeout
	serverCfg.IdleTimeout = cfg.Server.IdleTimeout
	serverCfg.EnableCORS = cfg.Server.EnableCORS
	serverCfg.AllowedOrigins = cfg.Server.AllowedOrigins
	serverCfg.RateLimitPerMinute = cfg.Server.RateLimitPerMinute
	serverCfg.APIKeyHeader = cfg.Server.APIKeyHeader
	serverCfg.APIKeys = cfg.Server.APIKeys
	serverCfg.EnableMetrics = cfg.Observability.MetricsEnabled

	httpLogger := logger.New(logger.Options{
		Output: os.Stdout,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
	})

	server := httpapi.NewServer(serverCfg, httpapi.Dependencies{
		DailyReportHandler:      dailyReports,
		MonthlyReportHandler:    monthlyReports,
		CustomReportHandler:     customReports,
		IndividualReportHandler: individualReports,
		ListStudentsHandler:     listStudents,
		CommitDayHandler:        commitDay,
		BackfillPhoneHandler:    backfillPhone,
		ManageStudentHandler:    manageStudent,
		SaveTransportHandler:    saveTransport,
		TransportRecords:        transportRecords,
		Logger:                  httpLogger,
		HealthChecker:           healthChecker,
	})

	errCh := server.StartAsync()
	log.Info("attendance hub is running", "address", server.Address())

	// ─────────────────────────────────────────────────────────────────────────
	// 10. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", "error", err)
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// cacheOrNil evita guardar um ponteiro nulo dentro da interface report.Cache.
func cacheOrNil(rc *redis.ReportCache) report.Cache {
	if rc == nil {
		return nil
	}
	return rc
}

// setupLogger configura o logging estruturado do processo.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "json" || cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}
