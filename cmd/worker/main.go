package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	redis "github.com/redis/go-redis/v9"

	"github.com/rentkart/backend-rentkart/internal/app"
	"github.com/rentkart/backend-rentkart/internal/config"
	dbgen "github.com/rentkart/backend-rentkart/internal/db/gen"
	"github.com/rentkart/backend-rentkart/internal/events"
	"github.com/rentkart/backend-rentkart/internal/jobs"
	"github.com/rentkart/backend-rentkart/internal/lock"
	"github.com/rentkart/backend-rentkart/internal/notify"
	"github.com/rentkart/backend-rentkart/internal/obs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	initCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := app.NewPGXPool(initCtx, cfg.DatabaseURL, "rentkart-worker")
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise database")
	}
	defer pool.Close()
	queries := dbgen.New(pool)

	redisClient, err := app.NewRedisClient(initCtx, cfg.RedisURL, false)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise redis")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	locker := lock.Locker{R: redisClient}

	redisAddr := asynqAddr(cfg.RedisURL)
	taskClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer func() {
		if err := taskClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close task client")
		}
	}()

	dispatcher := &notify.Dispatcher{
		Store:              notify.NewStore(queries),
		Enqueuer:           &jobs.Enqueuer{Client: taskClient},
		Client:             notify.HttpClient(int(cfg.WebhookTimeout/time.Millisecond), false),
		DefaultMaxAttempts: cfg.WebhookMaxAttempts,
		Enabled:            cfg.WebhookDeliveryEnabled,
		Replay:             notify.RedisReplayProtector{Client: redisClient},
		ReplayTTL:          cfg.WebhookReplayTTL,
	}
	bus := &events.Bus{Store: queries, Scheduler: dispatcher}

	webhookHandler := jobs.WebhookHandler{
		Worker: notify.DeliveryWorker{
			Dispatcher: dispatcher,
			Locker:     locker,
			LockTTL:    cfg.LockTTL,
		},
		Log: logger,
	}
	sweeper := jobs.Sweeper{
		Q:       queries,
		Bus:     bus,
		Locker:  locker,
		LockTTL: cfg.LockTTL,
		Log:     logger,
	}

	server := jobs.NewServer(redisAddr, cfg.WorkerConcurrency, logger)
	mux := jobs.NewServeMux(webhookHandler, sweeper)

	scheduler, err := jobs.NewScheduler(redisAddr, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise scheduler")
	}
	if err := scheduler.Start(); err != nil {
		logger.Fatal().Err(err).Msg("start scheduler")
	}
	defer scheduler.Shutdown()

	if err := server.Start(mux); err != nil {
		logger.Fatal().Err(err).Msg("start task server")
	}

	logger.Info().Int("concurrency", cfg.WorkerConcurrency).Msg("worker started")
	<-ctx.Done()

	logger.Info().Msg("worker shutting down")
	server.Shutdown()
	logger.Info().Msg("worker shutdown complete")
}

func asynqAddr(redisURL string) string {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return "127.0.0.1:6379"
	}
	return opts.Addr
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
