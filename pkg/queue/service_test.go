package queue

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	applog "github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/logger"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/documents"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	applog.Init()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("queue_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&documents.EdiMessage{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedMessage(t *testing.T, db *gorm.DB, id string, status models.MessageStatus, createdAt time.Time) {
	t.Helper()
	msg := documents.EdiMessage{
		ID:              id,
		TenantID:        "t1",
		PartnerID:       "p1",
		MessageID:       "OUT-" + id,
		TransactionType: models.Transaction204,
		Direction:       models.DirectionOutbound,
		Status:          status,
		RawContent:      "ISA*...~",
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
	if err := db.Create(&msg).Error; err != nil {
		t.Fatalf("seed message %s: %v", id, err)
	}
}

func TestList_ReturnsBacklogOldestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(NewRepository(db), nil, 0, 0)
	t0 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	seedMessage(t, db, "m1", models.StatusQueued, t0.Add(2*time.Minute))
	seedMessage(t, db, "m2", models.StatusQueued, t0)
	seedMessage(t, db, "m3", models.StatusSent, t0)
	seedMessage(t, db, "m4", models.StatusError, t0.Add(time.Minute))

	list, err := svc.List(context.Background(), "t1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 backlog messages, got %d", len(list))
	}
	for _, msg := range list {
		if msg.Status == models.StatusSent {
			t.Fatalf("SENT message must not appear in backlog: %+v", msg)
		}
	}
	// within a status group, oldest first
	var queued []documents.EdiMessage
	for _, msg := range list {
		if msg.Status == models.StatusQueued {
			queued = append(queued, msg)
		}
	}
	if len(queued) != 2 || queued[0].ID != "m2" || queued[1].ID != "m1" {
		t.Fatalf("expected m2 before m1 in queued group, got %+v", queued)
	}
}

func TestRetry_BumpsCountAndRequeues(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(NewRepository(db), nil, 0, 0)
	ctx := context.Background()

	seedMessage(t, db, "m1", models.StatusError, time.Now().UTC())
	if err := svc.Retry(ctx, "t1", "m1"); err != nil {
		t.Fatalf("retry: %v", err)
	}

	var msg documents.EdiMessage
	if err := db.First(&msg, "id = ?", "m1").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if msg.Status != models.StatusQueued {
		t.Fatalf("expected QUEUED, got %s", msg.Status)
	}
	if msg.RetryCount != 1 {
		t.Fatalf("expected retry count 1, got %d", msg.RetryCount)
	}
	if msg.LastRetryAt == nil {
		t.Fatal("expected last_retry_at to be set")
	}
}

func TestCancelThenProcess_NeverSendsCancelled(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(NewRepository(db), nil, 0, 0)
	ctx := context.Background()

	seedMessage(t, db, "m1", models.StatusQueued, time.Now().UTC())
	seedMessage(t, db, "m2", models.StatusQueued, time.Now().UTC())

	if err := svc.Cancel(ctx, "t1", "m1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	processed, err := svc.Process(ctx, "t1")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if processed != 1 {
		t.Fatalf("expected 1 processed, got %d", processed)
	}

	var cancelled documents.EdiMessage
	if err := db.First(&cancelled, "id = ?", "m1").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cancelled.Status != models.StatusRejected {
		t.Fatalf("cancelled message must stay REJECTED, got %s", cancelled.Status)
	}
	if cancelled.ProcessedAt == nil {
		t.Fatal("cancel should stamp processed_at")
	}
}

func TestProcess_BatchSizeAndOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(NewRepository(db), nil, 0, 2)
	ctx := context.Background()
	t0 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	seedMessage(t, db, "m1", models.StatusQueued, t0.Add(2*time.Minute))
	seedMessage(t, db, "m2", models.StatusPending, t0)
	seedMessage(t, db, "m3", models.StatusQueued, t0.Add(time.Minute))

	processed, err := svc.Process(ctx, "t1")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if processed != 2 {
		t.Fatalf("expected batch of 2, got %d", processed)
	}

	// the two oldest moved to SENT, the newest is still queued
	var left documents.EdiMessage
	if err := db.First(&left, "id = ?", "m1").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if left.Status != models.StatusQueued {
		t.Fatalf("newest message should remain QUEUED, got %s", left.Status)
	}

	processed, err = svc.Process(ctx, "t1")
	if err != nil {
		t.Fatalf("second process: %v", err)
	}
	if processed != 1 {
		t.Fatalf("expected remaining 1, got %d", processed)
	}

	processed, err = svc.Process(ctx, "t1")
	if err != nil {
		t.Fatalf("empty process: %v", err)
	}
	if processed != 0 {
		t.Fatalf("expected empty batch, got %d", processed)
	}
}

func TestStats_CountsPerStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(NewRepository(db), nil, 0, 0)
	t0 := time.Now().UTC()

	seedMessage(t, db, "m1", models.StatusQueued, t0)
	seedMessage(t, db, "m2", models.StatusQueued, t0)
	seedMessage(t, db, "m3", models.StatusSent, t0)
	seedMessage(t, db, "m4", models.StatusError, t0)

	stats, err := svc.Stats(context.Background(), "t1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Counts[models.StatusQueued] != 2 {
		t.Fatalf("expected 2 queued, got %d", stats.Counts[models.StatusQueued])
	}
	if stats.Counts[models.StatusSent] != 1 || stats.Counts[models.StatusError] != 1 {
		t.Fatalf("unexpected counts: %+v", stats.Counts)
	}
}

func TestRetryAndCancel_UnknownMessage(t *testing.T) {
	svc := NewService(NewRepository(newTestDB(t)), nil, 0, 0)
	ctx := context.Background()

	if err := svc.Retry(ctx, "t1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("retry: expected ErrNotFound, got %v", err)
	}
	if err := svc.Cancel(ctx, "t1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cancel: expected ErrNotFound, got %v", err)
	}
}
