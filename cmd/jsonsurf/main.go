package main

import (
	"context"
	"encoding/json"
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

	"github.com/sgrust01/json-surf/internal/config"
	blevestore "github.com/sgrust01/json-surf/internal/db/bleve"
	domcol "github.com/sgrust01/json-surf/internal/domain/collection"
	logpkg "github.com/sgrust01/json-surf/internal/logger"
	"github.com/sgrust01/json-surf/internal/metrics"
	collectionrepo "github.com/sgrust01/json-surf/internal/repository/collection"
	chiTransport "github.com/sgrust01/json-surf/internal/transport/chi"
	batchuc "github.com/sgrust01/json-surf/internal/usecase/batch"
	collectionuc "github.com/sgrust01/json-surf/internal/usecase/collection"
	documentuc "github.com/sgrust01/json-surf/internal/usecase/document"
	healthuc "github.com/sgrust01/json-surf/internal/usecase/health"
	searchuc "github.com/sgrust01/json-surf/internal/usecase/search"
	"github.com/sgrust01/json-surf/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg := config.MustLoad(env)

	logger, err := logpkg.NewLogger(env, logpkg.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	build := version.Get()
	logger.Info("Starting json-surf API server",
		zap.String("version", build.Version),
		zap.String("commit", build.Commit),
		zap.String("go", build.GoVersion),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("home", cfg.Storage.Home),
		zap.Int("collections", len(cfg.Collections)),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterStorageMetrics()

	reg, err := buildRegistry(cfg)
	if err != nil {
		logger.Fatal("Invalid collection configuration", zap.Error(err))
	}
	logger.Debug("Collections registered", zap.String("registry", reg.String()))

	ctx := context.Background()
	store := blevestore.NewStore(blevestore.Config{
		LockTimeout: time.Duration(cfg.Storage.LockTimeoutSec) * time.Second,
	})
	manager, err := collectionrepo.Open(ctx, reg, store, collectionrepo.Config{
		WriterMemoryBudget: cfg.Storage.WriterMemoryBudget,
		OpenConcurrency:    cfg.Storage.OpenConcurrency,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to open collections", zap.Error(err))
	}
	defer func() {
		if err := manager.Close(); err != nil {
			logger.Error("Error closing collections", zap.Error(err))
		}
	}()
	for name, ferr := range manager.Failures() {
		logger.Error("Collection unavailable", zap.String("collection", name), zap.Error(ferr))
	}
	logger.Info("Collections opened", zap.Strings("names", manager.Names()))

	// Create use case services
	collSvc := collectionuc.New(manager)
	docSvc := documentuc.New(manager)
	searchSvc := searchuc.New(manager, cfg.QueryDefaults())
	batchSvc := batchuc.New(manager, manager, manager).
		WithMaxBatchSize(cfg.HTTP.MaxBatchSize)
	healthSvc := healthuc.New(manager)

	// Create chi server
	server := chiTransport.NewServer(collSvc, docSvc, searchSvc, batchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware(manager.Names()))
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

// buildRegistry infers one schema per configured collection.
func buildRegistry(cfg config.Config) (*domcol.Registry, error) {
	reg := domcol.NewRegistry()
	if err := reg.SetHome(cfg.Storage.Home); err != nil {
		return nil, err
	}
	for i := range cfg.Collections {
		cc := &cfg.Collections[i]
		s, err := cc.Schema()
		if err != nil {
			return nil, fmt.Errorf("collection %s: %w", cc.Name, err)
		}
		if err := reg.Register(cc.Name, s); err != nil {
			return nil, fmt.Errorf("collection %s: %w", cc.Name, err)
		}
	}
	return reg, nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits one log line per request and propagates X-Request-ID.
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
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("collection", chi.URLParam(r, "collection")),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
