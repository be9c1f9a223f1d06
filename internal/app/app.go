package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bagaspr/matchday/internal/config"
	"github.com/bagaspr/matchday/internal/domain/contract"
	"github.com/bagaspr/matchday/internal/domain/job"
	"github.com/bagaspr/matchday/internal/domain/match"
	"github.com/bagaspr/matchday/internal/domain/matchevent"
	"github.com/bagaspr/matchday/internal/domain/playerstat"
	"github.com/bagaspr/matchday/internal/domain/standing"
	"github.com/bagaspr/matchday/internal/infrastructure/account/veritas"
	"github.com/bagaspr/matchday/internal/infrastructure/jobqueue"
	cacherepo "github.com/bagaspr/matchday/internal/infrastructure/repository/cache"
	"github.com/bagaspr/matchday/internal/infrastructure/repository/memory"
	"github.com/bagaspr/matchday/internal/infrastructure/repository/postgres"
	"github.com/bagaspr/matchday/internal/interfaces/httpapi"
	basecache "github.com/bagaspr/matchday/internal/platform/cache"
	"github.com/bagaspr/matchday/internal/platform/logging"
	"github.com/bagaspr/matchday/internal/platform/resilience"
	"github.com/bagaspr/matchday/internal/scheduler"
	"github.com/bagaspr/matchday/internal/usecase"
)

// App bundles the wired components. The caller owns the lifecycles: the
// HTTP server, the scheduler runners and the job worker are all started by
// cmd/api, never here.
type App struct {
	Config  config.Config
	Logger  *logging.Logger
	Server  *http.Server
	Worker  *jobqueue.Worker
	Runners []*scheduler.Runner

	db *sqlx.DB
}

type repositories struct {
	matches   match.Repository
	events    matchevent.Repository
	contracts contract.Repository
	standings standing.Repository
	stats     playerstat.Repository
	jobs      job.Repository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	app := &App{Config: cfg, Logger: logger}

	repos, err := app.buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.CacheEnabled {
		repos.contracts = cacherepo.NewContractRepository(repos.contracts, basecache.NewStore(cfg.CacheTTL))
	}

	var standingsCache *basecache.Store
	if cfg.CacheEnabled {
		standingsCache = basecache.NewStore(cfg.CacheTTL)
	}

	standingsSvc := usecase.NewStandingsService(repos.matches, repos.standings, standingsCache, logger)
	playerStatsSvc := usecase.NewPlayerStatsService(
		repos.matches,
		repos.events,
		repos.contracts,
		repos.stats,
		usecase.PlayerStatsConfig{Cumulative: cfg.PlayerStatsCumulative},
		logger,
	)
	recomputeSvc := usecase.NewRecomputeService(repos.jobs, standingsSvc, playerStatsSvc, nil, cfg.JobMaxAttempts, logger)
	matchSvc := usecase.NewMatchService(repos.matches, repos.events, recomputeSvc, nil, logger)
	lockSvc := usecase.NewMatchLockService(repos.matches)
	clockSvc := usecase.NewMatchClockService(repos.matches, logger)
	autoStartSvc := usecase.NewMatchAutoStartService(repos.matches, logger)

	verifier := veritas.NewClient(nil, veritas.Config{
		BaseURL:        cfg.VeritasBaseURL,
		IntrospectPath: cfg.VeritasIntrospectPath,
		AdminKey:       cfg.VeritasAdminKey,
		Timeout:        cfg.VeritasTimeout,
		CacheTTL:       cfg.VeritasCacheTTL,
	}, logger)

	handler := httpapi.NewHandler(matchSvc, standingsSvc, playerStatsSvc, recomputeSvc, logger)
	router := httpapi.NewRouter(handler, verifier, lockSvc, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if app.Server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	app.Worker = jobqueue.NewWorker(repos.jobs, recomputeSvc, jobqueue.WorkerConfig{
		PollInterval: cfg.JobPollInterval,
		BatchSize:    cfg.JobBatchSize,
		Concurrency:  cfg.JobConcurrency,
		BaseBackoff:  cfg.JobBaseBackoff,
		MaxBackoff:   cfg.JobMaxBackoff,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.JobCircuitEnabled,
			FailureThreshold: cfg.JobCircuitFailureCount,
			OpenTimeout:      cfg.JobCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.JobCircuitHalfOpenMaxReq,
		},
	}, logger)

	app.Runners = []*scheduler.Runner{
		scheduler.NewRunner("match-clock", cfg.ClockTickInterval, func(ctx context.Context) error {
			report, err := clockSvc.Tick(ctx)
			if err != nil {
				return err
			}
			if len(report.Failures) > 0 {
				logger.WarnContext(ctx, "clock tick had failures",
					"advanced", report.Advanced,
					"failed", len(report.Failures),
				)
			}
			return nil
		}, logger),
		scheduler.NewRunner("match-autostart", cfg.AutoStartInterval, func(ctx context.Context) error {
			report, err := autoStartSvc.StartDue(ctx)
			if err != nil {
				return err
			}
			if len(report.Failures) > 0 {
				logger.WarnContext(ctx, "auto-start had failures",
					"started", report.Started,
					"failed", len(report.Failures),
				)
			}
			return nil
		}, logger),
	}

	return app, nil
}

func (a *App) buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Info("no DB_URL configured, using seeded in-memory repositories")
		now := time.Now()
		return repositories{
			matches:   memory.NewMatchRepository(memory.SeedMatches(now)),
			events:    memory.NewMatchEventRepository(nil),
			contracts: memory.NewContractRepository(memory.SeedContracts(now)),
			standings: memory.NewStandingRepository(),
			stats:     memory.NewPlayerStatRepository(),
			jobs:      memory.NewJobRepository(),
		}, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return repositories{}, err
	}
	a.db = db
	logger.Info("connected to postgres", "database", dbNameFromURL(cfg.DBURL))

	return repositories{
		matches:   postgres.NewMatchRepository(db),
		events:    postgres.NewMatchEventRepository(db),
		contracts: postgres.NewContractRepository(db),
		standings: postgres.NewStandingRepository(db),
		stats:     postgres.NewPlayerStatRepository(db),
		jobs:      postgres.NewJobRepository(db),
	}, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
