package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestRepo(t *testing.T) *AuditRepository {
	t.Helper()
	repo, err := NewAuditRepository(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRecordAndCountEvents(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	count, err := repo.CountEvents(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("fresh archive not empty: %d", count)
	}

	events := []AuditEvent{
		{UserID: 1, Entity: "transaction", Op: "create", ItemID: "t1", OccurredAt: time.Now().Add(-time.Minute)},
		{UserID: 1, Entity: "goal", Op: "update", ItemID: "g1", OccurredAt: time.Now()},
		{UserID: 2, Entity: "user", Op: "reset", OccurredAt: time.Now()},
	}
	for _, ev := range events {
		if err := repo.RecordEvent(ctx, ev); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	count, err = repo.CountEvents(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 events, got %d", count)
	}
}

func TestRecentEventsOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, item := range []string{"a", "b", "c"} {
		ev := AuditEvent{UserID: 1, Entity: "transaction", Op: "create", ItemID: item, OccurredAt: time.Now()}
		if err := repo.RecordEvent(ctx, ev); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	recent, err := repo.RecentEvents(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 events, got %d", len(recent))
	}
	// Newest first.
	if recent[0].ItemID != "c" || recent[1].ItemID != "b" {
		t.Fatalf("order wrong: %+v", recent)
	}
	if recent[0].ReceivedAt.IsZero() {
		t.Fatalf("received timestamp not stamped")
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	repo, err := NewAuditRepository(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := repo.RecordEvent(context.Background(), AuditEvent{UserID: 1, Entity: "user", Op: "create", OccurredAt: time.Now()}); err != nil {
		t.Fatalf("record: %v", err)
	}
	repo.Close()

	// Reopening re-runs migrations against the same file and keeps data.
	repo, err = NewAuditRepository(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer repo.Close()

	count, err := repo.CountEvents(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("data lost across reopen: %d", count)
	}
}
