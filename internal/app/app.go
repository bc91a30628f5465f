package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pb "github.com/godilite/feedback-dashboard/api/v1"
	"github.com/godilite/feedback-dashboard/internal/config"
	"github.com/godilite/feedback-dashboard/internal/dashboard"
	handler "github.com/godilite/feedback-dashboard/internal/grpc"
	"github.com/godilite/feedback-dashboard/internal/repository"
	"github.com/godilite/feedback-dashboard/internal/sentiment"
	"github.com/godilite/feedback-dashboard/internal/service"
	"github.com/godilite/feedback-dashboard/pkg/cache"
	dbbuilder "github.com/godilite/feedback-dashboard/pkg/database"
	grpcsrv "github.com/godilite/feedback-dashboard/pkg/grpc/server"
	"github.com/godilite/feedback-dashboard/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// maxUploadSize bounds a single Analyze request.
const maxUploadSize = 32 << 20

type App struct {
	logger        *zap.Logger
	dbPool        *sql.DB
	cache         handler.Cacher
	grpcServer    *grpcsrv.Server
	metricsServer *http.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	dbOpts := []dbbuilder.Option{
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
		dbbuilder.WithInitStatements("PRAGMA foreign_keys = ON"),
	}
	if cfg.InMemoryDB() {
		dbOpts = append(dbOpts, dbbuilder.InMemory())
	}
	dbPool, err := dbbuilder.New(ctx, dbOpts...)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	store := repository.NewAnalysisRepository(dbPool)
	if err := store.Migrate(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	cacheClient := newCache(ctx, cfg, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	lexicon, err := sentiment.LoadLexicon(cfg.SentimentLexiconPath)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("sentiment lexicon: %w", err)
	}
	processor := service.NewFeedbackProcessor(lexicon, logger, service.WithMetrics(m))
	logger.Info("Sentiment model loaded", zap.String("version", lexicon.ModelVersion()))

	grpcHandlers := handler.NewGRPCHandlers(processor, store, dashboard.New(cfg.WordCloudMaxWords), cacheClient, logger, handler.HandlerOptions{
		CacheTTL:       cfg.CacheTTL,
		DefaultDataset: cfg.DefaultDatasetPath,
		Metrics:        m,
	})

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithLogging(true),
		grpcsrv.WithRecovery(true),
		grpcsrv.WithMaxRecvMsgSize(maxUploadSize),
		grpcsrv.WithUnaryInterceptors(m.UnaryServerInterceptor()),
	)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	grpcServer.RegisterServiceWithHealth(pb.ServiceName, func(s *grpc.Server) {
		pb.RegisterFeedbackDashboardServer(s, grpcHandlers)
	})

	var metricsServer *http.Server
	if cfg.MetricsPort > 0 {
		metricsServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
			Handler:           metrics.Handler(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return &App{
		logger:        logger,
		dbPool:        dbPool,
		cache:         cacheClient,
		grpcServer:    grpcServer,
		metricsServer: metricsServer,
	}, nil
}

// newCache connects to Redis. An unreachable Redis only disables memoization.
func newCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) handler.Cacher {
	if !cfg.CacheEnabled {
		logger.Info("Analysis cache disabled")
		return cache.Nop{}
	}
	c, err := cache.New(ctx, cache.WithAddress(cfg.RedisAddr))
	if err != nil {
		logger.Warn("Cache unavailable, continuing without memoization", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		return cache.Nop{}
	}
	logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
	return c
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting")

	a.grpcServer.Start()

	if a.metricsServer != nil {
		go func() {
			a.logger.Info("metrics server starting", zap.String("addr", a.metricsServer.Addr))
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("application shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return a.Shutdown(ctx)
}

// Shutdown stops the servers and releases the cache and database.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error

	if err := a.grpcServer.Shutdown(ctx); err != nil {
		a.logger.Error("gRPC shutdown error", zap.Error(err))
		errs = append(errs, err)
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			a.logger.Error("metrics shutdown error", zap.Error(err))
			errs = append(errs, err)
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("cache shutdown error", zap.Error(err))
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		a.logger.Info("graceful shutdown completed successfully")
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}
