package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"finguide/internal/amqp"
	"finguide/internal/config"
	applog "finguide/internal/log"
	"finguide/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting finguide-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("Worker requires AMQP_URL to consume ledger events")
		os.Exit(1)
	}

	repo, err := storage.NewAuditRepository(cfg.AuditDBPath)
	if err != nil {
		logger.Error("Failed to initialize audit repository", applog.FieldError, err, "path", cfg.AuditDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if count, err := repo.CountEvents(ctx); err == nil {
		logger.Info("Audit archive opened", "path", cfg.AuditDBPath, "events", count)
	}

	handler := func(msg *amqp.LedgerEventMessage) error {
		return repo.RecordEvent(ctx, storage.AuditEvent{
			UserID:     msg.UserID,
			Entity:     msg.Entity,
			Op:         msg.Op,
			ItemID:     msg.ItemID,
			OccurredAt: msg.Timestamp,
		})
	}

	if err := client.ConsumeLedgerEvents(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}
