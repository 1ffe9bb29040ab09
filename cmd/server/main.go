package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/warp/studio-engine/api"
	"github.com/warp/studio-engine/booking"
	"github.com/warp/studio-engine/config"
	"github.com/warp/studio-engine/store/sqlite"
	"github.com/warp/studio-engine/studio"
)

func main() {
	cmd := &cli.Command{
		Name:   "studio-engine",
		Usage:  "Appointment scheduling and financial reconciliation for tattoo studios",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (defaults apply when missing)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("STUDIO_CONFIG_FILE"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewDefaultConfig()
	if err := config.LoadOptional(cmd.String("config"), cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("timezone", cfg.App.Timezone),
		slog.String("lock_driver", cfg.Lock.Driver),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize database
	store, err := sqlite.New(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer store.Close()

	locker, closeLocker, err := newLocker(ctx, cfg.Lock, logger)
	if err != nil {
		return err
	}
	defer closeLocker()

	engine := booking.NewEngine(store,
		booking.WithLocker(locker),
		booking.WithLocation(cfg.App.Location()),
		booking.WithLogger(logger),
		booking.WithCompletionHook(func(_ context.Context, appt studio.Appointment, summary studio.FinancialSummary) {
			logger.Debug("completion reconciled",
				slog.String("appointment_id", appt.ID),
				slog.Int("completed_this_month", summary.CompletedCount))
		}),
	)

	handler := api.NewHandler(engine, store, logger)
	var alerts *api.ContractAlertScheduler
	if cfg.Scheduler.Enabled {
		alerts = api.NewContractAlertScheduler(engine, store, cfg.Scheduler.Interval, logger)
		handler.Alerts = alerts
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           api.NewRouter(handler, cfg.App.HTTP.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if alerts != nil {
		g.Go(func() error { return alerts.Run(gCtx) })
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		// Stops the alert scheduler.
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

var errShutdown = errors.New("shutdown")

// newLocker builds the per-resource write lock selected by cfg.
func newLocker(ctx context.Context, cfg config.LockConfig, logger *slog.Logger) (booking.Locker, func(), error) {
	if cfg.Driver != config.LockDriverRedis {
		return booking.NewKeyedMutex(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
	}

	logger.Info("Redis lock enabled", slog.String("addr", cfg.Redis.Addr), slog.String("prefix", cfg.Prefix))
	return booking.NewRedisLocker(rdb, cfg.TTL, cfg.Retry, cfg.Prefix, logger), func() { rdb.Close() }, nil
}
