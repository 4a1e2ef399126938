package controlnum

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("controlnum_%d.db", time.Now().UnixNano()))
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
	// single connection so concurrent allocations exercise the CAS, not
	// sqlite's file locking
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&Counter{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testKey() Key {
	return Key{
		TenantID:        "t1",
		ControlType:     models.ControlISA,
		PartnerID:       "p1",
		TransactionType: models.Transaction204,
	}
}

func TestNext_SequentialRunStartsAtOne(t *testing.T) {
	repo := NewRepository(newTestDB(t), 0, 0)
	ctx := context.Background()

	for want := int64(1); want <= 5; want++ {
		counter, err := repo.Next(ctx, testKey())
		if err != nil {
			t.Fatalf("allocation %d: %v", want, err)
		}
		if counter.CurrentNumber != want {
			t.Fatalf("expected %d, got %d", want, counter.CurrentNumber)
		}
	}
}

func TestNext_IndependentKeys(t *testing.T) {
	repo := NewRepository(newTestDB(t), 0, 0)
	ctx := context.Background()

	isa, err := repo.Next(ctx, testKey())
	if err != nil {
		t.Fatalf("isa allocation: %v", err)
	}

	gsKey := testKey()
	gsKey.ControlType = models.ControlGS
	gs, err := repo.Next(ctx, gsKey)
	if err != nil {
		t.Fatalf("gs allocation: %v", err)
	}

	if isa.CurrentNumber != 1 || gs.CurrentNumber != 1 {
		t.Fatalf("independent keys should both start at 1, got isa=%d gs=%d", isa.CurrentNumber, gs.CurrentNumber)
	}
}

func TestNext_ConcurrentAllocationsAreDistinct(t *testing.T) {
	repo := NewRepository(newTestDB(t), 0, 0)
	ctx := context.Background()

	const workers = 8
	const perWorker = 5

	var mu sync.Mutex
	seen := make(map[int64]bool)
	var wg sync.WaitGroup
	errCh := make(chan error, workers*perWorker)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				counter, err := repo.Next(ctx, testKey())
				if err != nil {
					errCh <- err
					return
				}
				mu.Lock()
				if seen[counter.CurrentNumber] {
					errCh <- fmt.Errorf("duplicate number %d", counter.CurrentNumber)
				}
				seen[counter.CurrentNumber] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatal(err)
	}

	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d distinct numbers, got %d", workers*perWorker, len(seen))
	}
	// a contiguous increasing run starting at 1
	for n := int64(1); n <= int64(workers*perWorker); n++ {
		if !seen[n] {
			t.Fatalf("missing number %d in run", n)
		}
	}
}

func TestNext_RangeExceeded(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db, 0, 0)
	ctx := context.Background()

	if _, err := repo.Next(ctx, testKey()); err != nil {
		t.Fatalf("seed allocation: %v", err)
	}
	if err := db.Model(&Counter{}).Where("tenant_id = ?", "t1").
		Update("current_number", int64(999999999)).Error; err != nil {
		t.Fatalf("seed max: %v", err)
	}

	_, err := repo.Next(ctx, testKey())
	if !errors.Is(err, ErrRangeExceeded) {
		t.Fatalf("expected ErrRangeExceeded, got %v", err)
	}

	// the over-limit increment is persisted before the failure
	var counter Counter
	if err := db.Where("tenant_id = ?", "t1").First(&counter).Error; err != nil {
		t.Fatalf("reload counter: %v", err)
	}
	if counter.CurrentNumber != 1000000000 {
		t.Fatalf("expected persisted over-limit value, got %d", counter.CurrentNumber)
	}
}
