// Package storage archives ledger-mutation events into SQLite. Only
// the audit worker uses it; the ledger itself is in-memory with
// snapshot persistence.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// AuditEvent is one archived ledger mutation.
type AuditEvent struct {
	ID         int64
	UserID     int64
	Entity     string
	Op         string
	ItemID     string
	OccurredAt time.Time
	ReceivedAt time.Time
}

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(dbPath string) (*AuditRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &AuditRepository{db: db}, nil
}

// runMigrations brings the audit schema up to date. It opens its own
// connection so migration locking never touches the repository handle.
func runMigrations(dbPath string) error {
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply audit migrations: %w", err)
	}
	return nil
}

func (r *AuditRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// RecordEvent appends one event to the archive.
func (r *AuditRepository) RecordEvent(ctx context.Context, ev AuditEvent) error {
	received := ev.ReceivedAt
	if received.IsZero() {
		received = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_events (user_id, entity, op, item_id, occurred_at, received_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ev.UserID, ev.Entity, ev.Op, ev.ItemID, ev.OccurredAt, received)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}

	slog.InfoContext(ctx, "Audit event recorded",
		"user_id", ev.UserID,
		"entity", ev.Entity,
		"op", ev.Op,
		"item_id", ev.ItemID)
	return nil
}

// CountEvents reports the archive size.
func (r *AuditRepository) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count audit events: %w", err)
	}
	return count, nil
}

// RecentEvents returns the newest events, most recent first.
func (r *AuditRepository) RecentEvents(ctx context.Context, limit int) ([]AuditEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, entity, op, item_id, occurred_at, received_at
		 FROM audit_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []AuditEvent
	for rows.Next() {
		var ev AuditEvent
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.Entity, &ev.Op, &ev.ItemID, &ev.OccurredAt, &ev.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
