package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"finguide/internal/amqp"
	"finguide/internal/bot"
	"finguide/internal/config"
	apphttp "finguide/internal/http"
	applog "finguide/internal/log"
	"finguide/internal/services"
	"finguide/internal/snapshot"
	"finguide/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentApp})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	st := store.New()
	if err := restoreState(st, cfg, logger); err != nil {
		logger.Error("Failed to restore state", applog.FieldError, err, applog.FieldSnapshot, cfg.SnapshotPath)
		os.Exit(1)
	}

	// AMQP is optional: without a broker the ledger still works, it
	// just publishes no audit events.
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without event publishing", applog.FieldError, err)
		} else {
			defer client.Close()
			publisher = client
		}
	}

	svc := services.NewLedger(st, publisher, logger)

	srv := apphttp.NewServer(":"+cfg.Port, svc, cfg, logger.WithComponent(applog.ComponentHTTP))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting finguide server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.BotEnabled() {
		b, err := bot.New(cfg.BotToken, cfg.WebAppURL, cfg.Currency, svc, logger.WithComponent(applog.ComponentBot))
		if err != nil {
			logger.Error("Failed to initialize Telegram bot", applog.FieldError, err)
			os.Exit(1)
		}
		g.Go(func() error {
			return b.Run(gctx)
		})
	} else {
		logger.Info("Telegram bot disabled - no BOT_TOKEN provided")
	}

	if cfg.SnapshotInterval > 0 {
		g.Go(func() error {
			autosave(gctx, st, cfg, logger)
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}

	// Final snapshot so a clean shutdown loses nothing.
	if err := snapshot.SaveFile(cfg.SnapshotPath, st.Export(), time.Now()); err != nil {
		logger.Error("Final snapshot failed", applog.FieldError, err, applog.FieldSnapshot, cfg.SnapshotPath)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// restoreState loads the snapshot if one exists, otherwise seeds demo
// data when configured to.
func restoreState(st *store.Store, cfg *config.Config, logger *applog.Logger) error {
	state, err := snapshot.LoadFile(cfg.SnapshotPath)
	switch {
	case err == nil:
		st.Replace(state)
		logger.Info("State restored from snapshot",
			applog.FieldSnapshot, cfg.SnapshotPath,
			"users", st.UserCount())
		return nil
	case errors.Is(err, os.ErrNotExist):
		if cfg.SeedDemoData {
			st.SeedDemo(time.Now())
			logger.Info("No snapshot found, seeded demo data", "users", st.UserCount())
		} else {
			logger.Info("No snapshot found, starting empty")
		}
		return nil
	case errors.Is(err, snapshot.ErrMalformedSnapshot):
		// A corrupt snapshot must not silently wipe the ledger.
		return err
	default:
		return err
	}
}

func autosave(ctx context.Context, st *store.Store, cfg *config.Config, logger *applog.Logger) {
	ticker := time.NewTicker(cfg.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := snapshot.SaveFile(cfg.SnapshotPath, st.Export(), time.Now()); err != nil {
				logger.Error("Autosave failed", applog.FieldError, err, applog.FieldSnapshot, cfg.SnapshotPath)
				continue
			}
			logger.Debug("Autosave complete", applog.FieldSnapshot, cfg.SnapshotPath, "users", st.UserCount())
		}
	}
}
