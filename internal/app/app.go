package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/panjf2000/ants/v2"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/turfbook/live-scoring/internal/config"
	"github.com/turfbook/live-scoring/internal/domain/clock"
	"github.com/turfbook/live-scoring/internal/domain/match"
	"github.com/turfbook/live-scoring/internal/domain/matchevent"
	"github.com/turfbook/live-scoring/internal/infrastructure/repository/memory"
	"github.com/turfbook/live-scoring/internal/infrastructure/repository/postgres"
	"github.com/turfbook/live-scoring/internal/infrastructure/standings"
	"github.com/turfbook/live-scoring/internal/interfaces/httpapi"
	"github.com/turfbook/live-scoring/internal/interfaces/ws"
	"github.com/turfbook/live-scoring/internal/platform/cache"
	idgen "github.com/turfbook/live-scoring/internal/platform/id"
	"github.com/turfbook/live-scoring/internal/platform/logging"
	"github.com/turfbook/live-scoring/internal/platform/resilience"
	"github.com/turfbook/live-scoring/internal/usecase"
)

// App holds the wired service graph and the resources that need explicit
// shutdown: the HTTP server, the websocket hub and the broadcast pool.
type App struct {
	Server *http.Server
	Hub    *ws.Hub

	db   *sqlx.DB
	pool *ants.Pool
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	clk := clock.New(clock.FixedOffset(cfg.ClockOffset))

	var (
		matchRepo match.Repository
		eventRepo matchevent.Repository
		timerRepo clock.Repository
		db        *sqlx.DB
	)
	switch cfg.StorageDriver {
	case config.StorageMemory:
		events := memory.NewEventRepository()
		matchRepo = memory.NewMatchRepository(events)
		eventRepo = events
		timerRepo = memory.NewTimerRepository()
		logger.Info("storage driver selected", "driver", config.StorageMemory)
	default:
		var err error
		db, err = openDB(cfg)
		if err != nil {
			return nil, err
		}
		matchRepo = postgres.NewMatchRepository(db)
		eventRepo = postgres.NewEventRepository(db)
		timerRepo = postgres.NewTimerRepository(db)
		logger.Info("storage driver selected", "driver", config.StoragePostgres, "db", dbNameFromURL(cfg.DBURL))
	}

	var views *cache.Store
	if cfg.CacheEnabled {
		views = cache.NewStore(cfg.CacheTTL)
	}

	pool, err := ants.NewPool(cfg.BroadcastWorkers, ants.WithNonblocking(true))
	if err != nil {
		closeDB(db, logger)
		return nil, fmt.Errorf("create broadcast pool: %w", err)
	}

	matchSvc := usecase.NewMatchService(
		matchRepo,
		eventRepo,
		timerRepo,
		clk,
		idgen.NewRandomGenerator(),
		views,
		logger,
	)
	timerSvc := usecase.NewTimerService(timerRepo, clk, logger)
	cricketSvc := usecase.NewCricketService(matchSvc, logger)
	footballSvc := usecase.NewFootballService(matchSvc, timerSvc, logger)

	hub := ws.NewHub(pool, logger)
	matchSvc.SetBroadcaster(httpapi.NewViewBroadcaster(hub))

	if cfg.StandingsEnabled {
		publisher := standings.NewPublisher(standings.PublisherConfig{
			WebhookURL: cfg.StandingsWebhookURL,
			Token:      cfg.StandingsToken,
			Timeout:    cfg.StandingsTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.StandingsCircuitEnabled,
				FailureThreshold: cfg.StandingsCircuitFailureCount,
				OpenTimeout:      cfg.StandingsCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.StandingsCircuitHalfOpenMaxReq,
			},
		}, logger)
		matchSvc.SetCompletionNotifier(publisher, pool)
	}

	liveFeed := ws.NewHandler(hub, func(ctx context.Context, matchID string) error {
		_, err := matchSvc.Get(ctx, matchID)
		return err
	}, cfg.CORSAllowedOrigins)

	handler := httpapi.NewHandler(matchSvc, cricketSvc, footballSvc, timerSvc, logger)
	router := httpapi.NewRouter(handler, liveFeed, logger, cfg.ScorerToken, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		pool.Release()
		closeDB(db, logger)
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server: server,
		Hub:    hub,
		db:     db,
		pool:   pool,
	}, nil
}

// Close releases the broadcast pool and the database handle. Call after the
// HTTP server and the hub have stopped.
func (a *App) Close() error {
	if a.pool != nil {
		a.pool.Release()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return db, nil
}

func closeDB(db *sqlx.DB, logger *logging.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Warn("close db", "error", err)
	}
}
