package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aryan0dhankhar/projectmatch/internal/featureflags"
	"github.com/aryan0dhankhar/projectmatch/internal/handler"
	"github.com/aryan0dhankhar/projectmatch/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/projectmatch/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/projectmatch/internal/observability/metrics"
	"github.com/aryan0dhankhar/projectmatch/internal/observability/tracing"
	"github.com/aryan0dhankhar/projectmatch/internal/reliability/circuitbreaker"
	"github.com/aryan0dhankhar/projectmatch/internal/reliability/retry"
	"github.com/aryan0dhankhar/projectmatch/internal/repository"
	"github.com/aryan0dhankhar/projectmatch/internal/security/audit"
	"github.com/aryan0dhankhar/projectmatch/internal/security/auth"
	"github.com/aryan0dhankhar/projectmatch/internal/security/middleware"
	"github.com/aryan0dhankhar/projectmatch/internal/security/ratelimit"
	"github.com/aryan0dhankhar/projectmatch/internal/service"
	"github.com/aryan0dhankhar/projectmatch/internal/worker"
	"github.com/aryan0dhankhar/projectmatch/pkg/config"
	"github.com/aryan0dhankhar/projectmatch/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	slog.SetDefault(log)
	log.Info("starting projectmatch server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Tracing (no-op without an OTLP endpoint)
	shutdownTracing, err := tracing.Init(ctx, log, cfg.OTLPEndpoint, cfg.ServiceName, cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Postgres, retried while the database comes up
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.DBConnectTries
	pool, err := retry.Do(ctx, retryCfg, log, "connect postgres", func(ctx context.Context) (*database.ConnectionPool, error) {
		return database.NewConnectionPool(ctx, &cfg.Database, log)
	})
	if err != nil {
		log.Error("failed to connect to Postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool.GetDB(), log); err != nil {
		log.Error("failed to apply schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. Login rate limiter, shared through Redis when configured
	var (
		limiter     middleware.Limiter
		redisPinger handler.RedisPinger
	)
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(cfg.RedisURL, log)
		if err != nil {
			log.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
		redisLimiter := ratelimit.NewRedisLimiter(redisClient, "ratelimit:login", cfg.LoginRateLimit, cfg.LoginRateWindow)
		redisLimiter.OnBreakerStateChange(func(from, to circuitbreaker.State) {
			log.Warn("redis circuit state changed",
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			metrics.SetBreakerState("redis", int(to))
		})
		limiter = redisLimiter
		redisPinger = redisClient
	} else {
		memLimiter := ratelimit.NewLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
		defer memLimiter.Stop()
		limiter = memLimiter
	}

	// 6. Repositories and services
	store := repository.NewPostgresStore(pool, log)
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
	authService := service.NewAuthService(store, tokenManager, log)

	// 7. Handlers
	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authService, log),
		Projects:    handler.NewProjectHandler(service.NewProjectService(store, log), log),
		Tags:        handler.NewTagHandler(service.NewTagService(store, log), log),
		TagTypes:    handler.NewTagTypeHandler(service.NewTagTypeService(store, log), log),
		TagValues:   handler.NewTagValueHandler(service.NewTagValueService(store, log), log),
		Validations: handler.NewValidationHandler(service.NewValidationService(store, log), log),
		Health:      handler.NewHealthHandler(pool, redisPinger, log),
	}

	// 8. Middleware: request ID -> CORS -> JWT -> login rate limit -> audit -> content type -> metrics -> mux
	auditLogger := audit.NewLogger(log)
	requireAuth := featureflags.Enabled(featureflags.RequireAuth)
	rootHandler := middleware.Chain(
		metrics.HTTPMetricsMiddleware(handlers.Routes()),
		middleware.RequestID(log),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.JWTMiddleware(authService, requireAuth, auditLogger, log),
		middleware.RateLimitMiddleware(limiter, []string{"/api/login"}, log),
		middleware.AuditMiddleware(auditLogger),
		middleware.ValidateJSONContentType(log),
	)

	// 9. Housekeeping in background
	cleanupWorker := worker.NewCleanupWorker(log, cfg.CleanupInterval,
		worker.Task{Name: "identity_cache", Run: func(context.Context) error {
			if n := authService.SweepIdentities(); n > 0 {
				log.Debug("evicted cached identities", slog.Int("count", n))
			}
			return nil
		}},
		worker.Task{Name: "db_pool_stats", Run: func(context.Context) error {
			metrics.ObserveDBPool(pool.GetDB().Stats())
			return nil
		}},
	)
	go cleanupWorker.Start(ctx)

	// 10. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      otelhttp.NewHandler(rootHandler, cfg.ServiceName),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.Bool("require_auth", requireAuth),
		slog.Bool("redis", cfg.RedisURL != ""),
		slog.Int("login_rate_limit", cfg.LoginRateLimit),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
			sigChan <- syscall.SIGTERM
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}
	cancel() // Stop cleanup worker
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}
