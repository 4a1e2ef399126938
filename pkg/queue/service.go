package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/logger"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/documents"
	"github.com/redis/go-redis/v9"
)

const DefaultBatchSize = 20

type Service struct {
	repo      *Repository
	cache     *redis.Client
	cacheTTL  time.Duration
	batchSize int
}

// NewService builds the queue manager. cache may be nil; stats then go
// straight to the database.
func NewService(repo *Repository, cache *redis.Client, cacheTTL time.Duration, batchSize int) *Service {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL, batchSize: batchSize}
}

func (s *Service) List(ctx context.Context, tenantID string) ([]documents.EdiMessage, error) {
	return s.repo.List(ctx, tenantID)
}

func (s *Service) Retry(ctx context.Context, tenantID, id string) error {
	if err := s.repo.Retry(ctx, tenantID, id); err != nil {
		return err
	}
	s.invalidateStats(ctx, tenantID)
	return nil
}

func (s *Service) Cancel(ctx context.Context, tenantID, id string) error {
	if err := s.repo.Cancel(ctx, tenantID, id); err != nil {
		return err
	}
	s.invalidateStats(ctx, tenantID)
	return nil
}

func (s *Service) Process(ctx context.Context, tenantID string) (int, error) {
	processed, err := s.repo.ProcessBatch(ctx, tenantID, s.batchSize)
	if err != nil {
		return 0, err
	}
	if processed > 0 {
		s.invalidateStats(ctx, tenantID)
		logger.ForTenant(tenantID).WithField("processed", processed).Info("queue batch processed")
	}
	return processed, nil
}

func (s *Service) Stats(ctx context.Context, tenantID string) (models.QueueStats, error) {
	if cached, ok := s.cachedStats(ctx, tenantID); ok {
		return cached, nil
	}

	counts, err := s.repo.Stats(ctx, tenantID)
	if err != nil {
		return models.QueueStats{}, err
	}
	stats := models.QueueStats{TenantID: tenantID, Counts: counts}
	s.storeStats(ctx, stats)
	return stats, nil
}

func statsKey(tenantID string) string {
	return "edi:queue:stats:" + tenantID
}

func (s *Service) cachedStats(ctx context.Context, tenantID string) (models.QueueStats, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return models.QueueStats{}, false
	}
	raw, err := s.cache.Get(ctx, statsKey(tenantID)).Bytes()
	if err != nil {
		return models.QueueStats{}, false
	}
	var stats models.QueueStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return models.QueueStats{}, false
	}
	return stats, true
}

func (s *Service) storeStats(ctx context.Context, stats models.QueueStats) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, statsKey(stats.TenantID), raw, s.cacheTTL).Err(); err != nil {
		logger.Log.WithError(err).Debug("failed to cache queue stats")
	}
}

func (s *Service) invalidateStats(ctx context.Context, tenantID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsKey(tenantID)).Err(); err != nil {
		logger.Log.WithError(err).Debug("failed to invalidate queue stats cache")
	}
}
