package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lithium-edu/exam-rooms-api/internal/handler"
	"github.com/lithium-edu/exam-rooms-api/internal/repository"
	"github.com/lithium-edu/exam-rooms-api/internal/service"
	"github.com/lithium-edu/exam-rooms-api/internal/upload"
	"github.com/lithium-edu/exam-rooms-api/migrations"
	"github.com/lithium-edu/exam-rooms-api/pkg/cache"
	"github.com/lithium-edu/exam-rooms-api/pkg/config"
	"github.com/lithium-edu/exam-rooms-api/pkg/database"
	"github.com/lithium-edu/exam-rooms-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		zlog.Fatal("connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, migrations.FS); err != nil {
		zlog.Fatal("apply migrations", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			zlog.Warn("redis unavailable, caching disabled", zap.Error(err))
			redisClient = nil
		}
	}
	cacheStore := cache.NewStore(redisClient, "examrooms", cfg.Cache.TTL)

	bundle := repository.NewBundle(db)
	txRunner := repository.NewTxRunner(db)
	transactor := service.TransactorFunc(func(ctx context.Context, fn func(service.Store) error) error {
		return txRunner.WithinTx(ctx, func(b *repository.Bundle) error { return fn(b) })
	})

	metrics := service.NewMetrics(prometheus.DefaultRegisterer)
	authService := service.NewAuthService(repository.NewUserRepository(db), cfg.JWT)
	examService := service.NewExamService(bundle.Exams, bundle.ExamVenues, cacheStore)
	venueService := service.NewVenueService(bundle.Venues, bundle.ExamVenues, transactor, cacheStore, zlog)
	ingestService := service.NewIngestService(transactor, cfg, cacheStore, metrics, zlog)
	exportService := service.NewExportService(examService)

	router := handler.NewRouter(cfg, zlog, handler.Deps{
		Auth:    authService,
		Metrics: metrics,
		Health:  handler.NewHealthHandler(db),
		Login:   handler.NewAuthHandler(authService),
		Uploads: handler.NewUploadHandler(upload.NewReader(cfg), ingestService, bundle.UploadLogs, cfg.Upload.MaxFileSizeBytes),
		Exams:   handler.NewExamHandler(examService),
		Venues:  handler.NewVenueHandler(venueService),
		Exports: handler.NewExportHandler(exportService),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server listening", zap.Int("port", cfg.Port), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
