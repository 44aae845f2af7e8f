package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/symdx/internal/config"
	"github.com/kailas-cloud/symdx/internal/db"
	dbRedis "github.com/kailas-cloud/symdx/internal/db/redis"
	"github.com/kailas-cloud/symdx/internal/domain"
	"github.com/kailas-cloud/symdx/internal/domain/knowledge"
	logpkg "github.com/kailas-cloud/symdx/internal/logger"
	"github.com/kailas-cloud/symdx/internal/metrics"
	"github.com/kailas-cloud/symdx/internal/repository/diagcache"
	"github.com/kailas-cloud/symdx/internal/repository/filehistory"
	historyrepo "github.com/kailas-cloud/symdx/internal/repository/history"
	chiTransport "github.com/kailas-cloud/symdx/internal/transport/chi"
	diagnoseuc "github.com/kailas-cloud/symdx/internal/usecase/diagnose"
	healthuc "github.com/kailas-cloud/symdx/internal/usecase/health"
	historyuc "github.com/kailas-cloud/symdx/internal/usecase/history"
	"github.com/kailas-cloud/symdx/internal/usecase/match"
	"github.com/kailas-cloud/symdx/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting symdx API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	kb, err := loadKnowledge(cfg.Knowledge.Path)
	if err != nil {
		logger.Fatal("Failed to load knowledge base", zap.Error(err))
	}
	logger.Info("Knowledge base loaded",
		zap.String("path", cfg.Knowledge.Path),
		zap.Int("conditions", len(kb.Conditions())),
		zap.Int("vocabulary", len(kb.Vocabulary())),
	)

	matchCfg := match.Config{
		Threshold:    cfg.Matcher.Threshold,
		TopPerPhrase: cfg.Matcher.TopPerPhrase,
		MinGram:      cfg.Matcher.MinGram,
		MaxGram:      cfg.Matcher.MaxGram,
	}
	pipeline, err := diagnoseuc.NewPipeline(kb, matchCfg, cfg.Diagnosis.TopN)
	if err != nil {
		logger.Fatal("Failed to build diagnosis pipeline", zap.Error(err))
	}

	metrics.RegisterDiagnosisMetrics()

	ctx := context.Background()
	store, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	if store != nil {
		defer store.Close()
	}

	historyRepo, err := buildHistoryRepo(cfg, store)
	if err != nil {
		logger.Fatal("Failed to create history repository", zap.Error(err))
	}

	// Diagnoser chain: pipeline -> cache (redis/valkey only)
	var diagnoser domain.Diagnoser = pipeline
	if store != nil && cfg.Cache.Enabled {
		scope := fmt.Sprintf("%s|%+v|%d", kb.Fingerprint(), matchCfg, cfg.Diagnosis.TopN)
		diagnoser = diagcache.New(pipeline, store, time.Duration(cfg.Cache.TTLSec)*time.Second,
			scope, metrics.DiagnosisCacheTotal, logger)
		logger.Info("Diagnosis cache enabled", zap.Int("ttl_sec", cfg.Cache.TTLSec))
	}

	historySvc := historyuc.New(historyRepo, cfg.History.DefaultLimit, cfg.History.MaxLimit)
	diagnoseSvc := diagnoseuc.New(diagnoser, historySvc, logger)

	healthSvc := healthuc.New(kb, store)

	server := chiTransport.NewServer(diagnoseSvc, historySvc, healthSvc, kb, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.CORSMiddleware(cfg.HTTP.AllowedOrigins))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func loadKnowledge(path string) (*knowledge.Base, error) {
	if path == "" {
		return knowledge.Default()
	}
	return knowledge.LoadFile(path)
}

// openStore connects to Redis or Valkey. It returns nil for the none and file drivers.
func openStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverRedis, config.DriverValkey:
	default:
		return nil, nil
	}

	// Valkey speaks the Redis protocol; both go through rueidis.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("%s not ready: %w", cfg.Driver, err)
	}
	logger.Info("Connected to database", zap.String("driver", cfg.Driver), zap.Strings("addrs", cfg.Addrs))
	return store, nil
}

func buildHistoryRepo(cfg config.Config, store db.Store) (historyuc.Repository, error) {
	switch cfg.Database.Driver {
	case config.DriverFile:
		return filehistory.New(cfg.History.FilePath, cfg.History.MaxRecords)
	case config.DriverRedis, config.DriverValkey:
		return historyrepo.New(store, cfg.History.MaxRecords), nil
	default:
		return historyrepo.NopRepo{}, nil
	}
}
