package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/extreme-startup/internal/auth"
	"github.com/gokatarajesh/extreme-startup/internal/auth/jwt"
	"github.com/gokatarajesh/extreme-startup/internal/config"
	"github.com/gokatarajesh/extreme-startup/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/extreme-startup/internal/db/sqlc"
	"github.com/gokatarajesh/extreme-startup/internal/game"
	"github.com/gokatarajesh/extreme-startup/internal/logging"
	"github.com/gokatarajesh/extreme-startup/internal/metrics"
	"github.com/gokatarajesh/extreme-startup/internal/question"
	"github.com/gokatarajesh/extreme-startup/internal/question/external"
	"github.com/gokatarajesh/extreme-startup/internal/scoreboard"
	"github.com/gokatarajesh/extreme-startup/internal/server"
	ws "github.com/gokatarajesh/extreme-startup/pkg/http/ws"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server) and the game master.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool   *pgxpool.Pool
	redis  *redis.Client
	http   *http.Server
	master *game.Master
	hub    *ws.Hub

	broadcaster    *scoreboard.Broadcaster
	snapshotWorker *scoreboard.SnapshotWorker
	bgCancels      []context.CancelFunc
}

// New bootstraps configs, logger, Postgres, Redis, the game master and HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	queries := sqlcgen.New(pool)
	playerRepo := repository.NewPlayerRepository(queries)
	answerRepo := repository.NewAnswerRepository(queries)

	banks, err := question.LoadBanks(cfg.Game.BanksFile)
	if err != nil {
		return nil, fmt.Errorf("load question banks: %w", err)
	}
	if extra := fetchTrivia(ctx, triviaSources(cfg, redisClient), cfg.Trivia, logger); len(extra) > 0 {
		banks = banks.WithTrivia(extra)
		logger.Info().Int("extra", len(extra)).Int("total", len(banks.Trivia)).Msg("trivia bank extended")
	}

	rng := question.NewRandomRand()
	if cfg.Game.RNGSeed != 0 {
		rng = question.NewRand(cfg.Game.RNGSeed)
		logger.Info().Uint64("seed", cfg.Game.RNGSeed).Msg("using seeded question generator")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	scoreboardSvc := scoreboard.NewService(redisClient, logger, scoreboard.ServiceOptions{
		TopN:          cfg.Scoreboard.TopN,
		PubSubChannel: cfg.Scoreboard.PubSubChannel,
		KeyPrefix:     cfg.Scoreboard.KeyPrefix,
	})
	wsHub := ws.NewHub(logger)
	broadcaster := scoreboard.NewBroadcaster(redisClient, wsHub, scoreboardSvc.Channel(), logger)

	var snapshotWorker *scoreboard.SnapshotWorker
	if interval := cfg.Scoreboard.SnapshotInterval; interval > 0 {
		snapshotWorker = scoreboard.NewSnapshotWorker(scoreboardSvc, queries, interval, cfg.Scoreboard.TopN, logger)
	}

	master := game.NewMaster(
		func() question.Source { return question.NewFactory(banks, rng) },
		external.NewPlayerClient(cfg.Game.QuestionTimeout, nil),
		game.Options{
			QuestionTimeout: cfg.Game.QuestionTimeout,
			DelayUnit:       cfg.Game.DelayUnit,
			Recorders:       []game.Recorder{scoreboardSvc, answerRepo},
			Players:         playerRepo,
			Metrics:         collector,
		},
		logger,
	)

	players, err := playerRepo.ListPlayers(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("could not restore players; starting with an empty registry")
	} else if len(players) > 0 {
		master.Restore(players)
		logger.Info().Int("players", len(players)).Msg("players restored")
	}

	if cfg.Game.AutoStart {
		if err := master.Start(); err != nil {
			return nil, fmt.Errorf("auto start game: %w", err)
		}
	}

	authSvc, err := auth.NewService(auth.ServiceOptions{
		AdminPassword:     cfg.Security.AdminPassword,
		AdminPasswordHash: cfg.Security.AdminPasswordHash,
		TokenConfig: jwt.TokenConfig{
			Secret: []byte(cfg.Security.JWTSecret),
			TTL:    cfg.Security.TokenTTL,
			Issuer: cfg.Name,
		},
		Revoker: auth.NewRedisRevoker(redisClient, ""),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build auth service: %w", err)
	}

	apiServer := server.NewHTTPServer(cfg, logger, server.Dependencies{
		Pool:       pool,
		Redis:      redisClient,
		Gatherer:   registry,
		Game:       game.NewHTTPHandler(master, answerRepo, logger),
		Scoreboard: scoreboard.NewHTTPHandler(scoreboardSvc, queries, wsHub, server.WSUpgrader, cfg.Scoreboard.TopN, logger),
		Auth:       auth.NewHTTPHandlers(authSvc, logger),
		AuthSvc:    authSvc,
	})

	return &Application{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redis:          redisClient,
		http:           apiServer,
		master:         master,
		hub:            wsHub,
		broadcaster:    broadcaster,
		snapshotWorker: snapshotWorker,
		bgCancels:      make([]context.CancelFunc, 0, 2),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.master.Shutdown()
	for _, cancel := range a.bgCancels {
		cancel()
	}
	a.hub.CloseAll()

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return runErr
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.broadcaster != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.broadcaster.Run(bgCtx); err != nil && err != context.Canceled {
				a.logger.Warn().Err(err).Msg("scoreboard broadcaster stopped")
			}
		}()
	}

	if a.snapshotWorker != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.snapshotWorker.Run(bgCtx); err != nil && err != context.Canceled {
				a.logger.Warn().Err(err).Msg("scoreboard snapshot worker stopped")
			}
		}()
	}
}
