package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/bazaar/internal/bot"
	"github.com/UnknownOlympus/bazaar/internal/config"
	"github.com/UnknownOlympus/bazaar/internal/game"
	"github.com/UnknownOlympus/bazaar/internal/i18n"
	"github.com/UnknownOlympus/bazaar/internal/metrics"
	"github.com/UnknownOlympus/bazaar/internal/notify"
	"github.com/UnknownOlympus/bazaar/internal/repository"
	"github.com/UnknownOlympus/bazaar/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// Constants for different environment types.
const (
	envLocal    = "local"
	envDev      = "development"
	envProd     = "production"
	dialTimeout = 5 * time.Second
)

func main() {
	// Canceled on SIGINT/SIGTERM for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	dtb, err := repository.NewDatabase(
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
	)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dtb.Close()

	if err = repository.Migrate(ctx, dtb); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	repo := repository.NewRepository(dtb)

	var (
		directory   game.EmployeeDirectory = repo
		cachePinger server.CachePinger
	)
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:        cfg.Redis.Addr,
			DialTimeout: dialTimeout,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		if err = redisClient.Ping(pingCtx).Err(); err != nil {
			logger.WarnContext(ctx, "Redis is unreachable, employee cache will degrade", "error", err)
		}
		cancel()

		directory = repository.NewCachedDirectory(logger, repo, redisClient, appMetrics, cfg.Redis.TTL)
		cachePinger = redisClient
	}

	localizer, err := i18n.NewLocalizer()
	if err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}

	api, err := bot.NewAPI(cfg.Token, cfg.PollerTimeout)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	notifier := notify.NewMulti(logger, appMetrics).Add("telegram", notify.NewTelegram(api))
	if cfg.AMQP.URL != "" {
		notifier.Add("amqp", notify.NewAMQP(cfg.AMQP.URL, cfg.AMQP.Queue, notify.DialAMQP))
	}

	engine := game.NewEngine(logger, repo, notifier, appMetrics,
		game.WithNotifyTimeout(cfg.NotifyTimeout),
		game.WithDecisionFormatter(localizer.DecisionFormatter(cfg.Language)),
	)

	shopBot := bot.NewBot(logger, api, engine, directory, localizer, appMetrics)

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.", "notifiers", notifier.Len())

	go shopBot.Start()
	go server.StartMonitoringServer(ctx, logger, reg, dtb, cachePinger, cfg.MonitoringPort)

	<-ctx.Done()

	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")
	shopBot.Stop()
	engine.Wait()
	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	dropTime := func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	}

	switch env {
	case envLocal:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug, AddSource: true}))
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn, ReplaceAttr: dropTime}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError, ReplaceAttr: dropTime}))
		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
