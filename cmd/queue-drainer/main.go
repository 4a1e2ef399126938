package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/config"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/database"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/logger"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/queue"
)

// The engine owns no scheduler; this binary is the external process that
// drains the outbound queue on an interval for the configured tenants.
func main() {
	logger.Init()
	cfg := config.Load()

	if len(cfg.DrainTenants) == 0 {
		logger.Log.Fatal("DRAIN_TENANTS is required")
	}

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	queueSvc := queue.NewService(queue.NewRepository(db), database.GetRedis(), cfg.QueueStatsCacheTTL, cfg.QueueBatchSize)

	ticker := time.NewTicker(cfg.DrainInterval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	logger.Log.WithField("interval", cfg.DrainInterval.String()).Info("queue drainer started")
	for {
		select {
		case <-ticker.C:
			drain(queueSvc, cfg.DrainTenants)
		case <-quit:
			logger.Log.Info("queue drainer stopped")
			return
		}
	}
}

func drain(svc *queue.Service, tenants []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, tenant := range tenants {
		processed, err := svc.Process(ctx, tenant)
		if err != nil {
			logger.ForTenant(tenant).WithError(err).Error("queue drain failed")
			continue
		}
		if processed > 0 {
			logger.ForTenant(tenant).WithField("processed", processed).Info("queue drained")
		}
	}
}
