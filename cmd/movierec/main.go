package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/config"
	dbRedis "github.com/kailas-cloud/movierec/internal/db/redis"
	logpkg "github.com/kailas-cloud/movierec/internal/logger"
	"github.com/kailas-cloud/movierec/internal/metrics"
	"github.com/kailas-cloud/movierec/internal/repository/dataset"
	chiTransport "github.com/kailas-cloud/movierec/internal/transport/chi"
	cataloguc "github.com/kailas-cloud/movierec/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/movierec/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/movierec/internal/usecase/recommend"
	searchuc "github.com/kailas-cloud/movierec/internal/usecase/search"
	"github.com/kailas-cloud/movierec/internal/version"
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

	logger.Info("Starting movierec API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("dataset_source", cfg.Dataset.Source),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Dataset source. Only the redis source needs a database connection.
	var (
		source cataloguc.Source
		pinger healthuc.DBPinger
	)
	switch cfg.Dataset.Source {
	case config.SourceRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database",
			zap.String("db_driver", cfg.Database.Driver),
			zap.Strings("db_addrs", cfg.Database.Addrs),
		)

		source = dataset.NewRedisSource(store, dataset.NewLayout(cfg.Dataset.KeyPrefix)).
			WithPageSize(cfg.Dataset.PageSize)
		pinger = store
	default:
		source = dataset.NewCSVSource(cfg.Dataset.ItemsPath, cfg.Dataset.RatingsPath)
	}

	// Register recommendation metrics explicitly (no init())
	metrics.RegisterRecommendMetrics()
	recorder := metrics.NewRecorder()

	// Catalog snapshot: the first load must succeed before serving.
	pre := cataloguc.NewPreprocessor(logger).WithThreshold(cfg.Recommend.QualityThreshold)
	holder := cataloguc.NewHolder(source, pre, logger).WithObserver(recorder)
	if _, err := holder.Reload(ctx); err != nil {
		logger.Fatal("Initial catalog load failed", zap.Error(err))
	}

	if cfg.Dataset.ReloadIntervalSec > 0 {
		interval := time.Duration(cfg.Dataset.ReloadIntervalSec) * time.Second
		go holder.ReloadEvery(ctx, interval)
		logger.Info("Periodic catalog reload enabled", zap.Duration("interval", interval))
	}

	// Create use case services
	scorer := recommenduc.NewScorer().
		WithFanThreshold(cfg.Recommend.FanThreshold).
		WithMinSimilarFraction(cfg.Recommend.MinSimilarFraction).
		WithLimit(cfg.Recommend.Limit)
	recSvc := recommenduc.New(holder, scorer).WithObserver(recorder)
	searchSvc := searchuc.New(holder)
	healthSvc := healthuc.New(holder, pinger)

	// Create chi server
	server := chiTransport.NewServer(recSvc, searchSvc, holder, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown; SIGHUP reloads the catalog in place.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				logger.Info("Received SIGHUP, reloading catalog")
				if _, err := holder.Reload(ctx); err != nil {
					logger.Error("Catalog reload failed", zap.Error(err))
				}
			}
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorResponseCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx, annotated := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line: one per request, plus whatever handlers annotated
			fields := append([]zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			}, annotated()...)
			reqLogger.Info("http_request", fields...)
		})
	}
}
