package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/config"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/database"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/kafka"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/logger"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/controlnum"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/documents"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/mappings"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/outbound"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/parser"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/partners"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/queue"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/transport"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	counterRepo := controlnum.NewRepository(db, cfg.ControlNumberMin, cfg.ControlNumberMax)
	docRepo := documents.NewRepository(db)
	partnerRepo := partners.NewRepository(db)
	mappingRepo := mappings.NewRepository(db)
	commLogRepo := transport.NewLogRepository(db)
	queueRepo := queue.NewRepository(db)

	for name, migrate := range map[string]func() error{
		"control counters":   counterRepo.AutoMigrate,
		"edi messages":       docRepo.AutoMigrate,
		"trading partners":   partnerRepo.AutoMigrate,
		"mappings":           mappingRepo.AutoMigrate,
		"communication logs": commLogRepo.AutoMigrate,
	} {
		if err := migrate(); err != nil {
			logger.Log.WithError(err).WithField("tables", name).Fatal("failed to migrate")
		}
	}

	if rules, err := mappings.LoadRules(cfg.MappingRulesPath); err != nil {
		logger.Log.WithError(err).Warn("mapping rules file unreadable, using defaults")
	} else {
		logger.Log.WithField("rule_sets", len(rules.RuleSets)).Info("mapping rule sets loaded")
	}

	producer := kafka.NewProducer(cfg.KafkaEDITopic)
	defer producer.Close()

	transports := transport.NewRegistry()
	numberSvc := controlnum.NewService(counterRepo)
	docSvc := documents.NewService(docRepo, numberSvc, parser.Default(), producer)
	partnerSvc := partners.NewService(partnerRepo, transports, commLogRepo, producer)
	outboundSvc := outbound.NewService(docRepo, numberSvc, outbound.NewRegistry(), partnerRepo, transports, commLogRepo, producer)
	queueSvc := queue.NewService(queueRepo, database.GetRedis(), cfg.QueueStatsCacheTTL, cfg.QueueBatchSize)

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1/edi").Subrouter()
	documents.NewHandler(docSvc).Register(api)
	partners.NewHandler(partnerSvc).Register(api)
	outbound.NewHandler(outboundSvc).Register(api)
	queue.NewHandler(queueSvc).Register(api)
	mappings.NewHandler(mappingRepo).Register(api)

	address := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithField("addr", address).Info("EDI service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start edi service")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down EDI service...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("EDI service forced to shutdown")
	}
	logger.Log.Info("EDI service stopped")
}
