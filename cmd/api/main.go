// @title        Microtask Marketplace API
// @version      1.0
// @description  Admins publish microtasks, workers submit evidence, admins review submissions.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/99minutos/microtasks/internal/api"
	"github.com/99minutos/microtasks/internal/api/handler"
	"github.com/99minutos/microtasks/internal/api/middleware"
	"github.com/99minutos/microtasks/internal/core/ports"
	"github.com/99minutos/microtasks/internal/core/service"
	"github.com/99minutos/microtasks/internal/infrastructure/config"
	"github.com/99minutos/microtasks/internal/infrastructure/db/mongo"
	"github.com/99minutos/microtasks/internal/infrastructure/db/postgres"
	"github.com/99minutos/microtasks/internal/infrastructure/db/redis"
	"github.com/99minutos/microtasks/internal/infrastructure/queue"
	"github.com/99minutos/microtasks/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Pretty: true})
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "microtasks",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- PostgreSQL (required) ---
	db, err := postgres.Connect(ctx, postgres.Config{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return err
	}

	checks := map[string]handler.CheckFunc{
		"postgres": func(ctx context.Context) error { return db.PingContext(ctx) },
	}

	// --- Redis (optional) ---
	var (
		rdb          *goredis.Client
		idempotency  ports.IdempotencyStore
		loginLimiter middleware.RateLimiter
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		idempotency = redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		loginLimiter = redis.NewFixedWindowLimiter(rdb)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		log.Warn().Msg("REDIS_ADDR not set: login throttling and idempotency keys disabled")
	}

	// --- MongoDB audit trail (optional) ---
	var recorder ports.ReviewRecorder = queue.NopRecorder{}
	if cfg.Mongo.URI != "" {
		client, mdb, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer disconnectMongo(client, log)

		dispatcher := queue.NewDispatcher(cfg.AuditWorkers, mongo.NewReviewAuditRepository(mdb), log)
		dispatcher.Start(ctx)
		defer dispatcher.Stop()

		recorder = dispatcher
		checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
	} else {
		log.Warn().Msg("MONGO_URI not set: review audit trail disabled")
	}

	// --- Services ---
	userRepo := postgres.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	taskService := service.NewTaskService(postgres.NewTaskRepository(db), log)
	submissionService := service.NewSubmissionService(postgres.NewSubmissionRepository(db), idempotency, recorder, log)

	if err := seedAdmin(ctx, authService, cfg.Seed, log); err != nil {
		return err
	}

	e := api.NewRouter(api.Dependencies{
		Log:               log,
		JWTSecret:         cfg.JWTSecret,
		CORSOrigins:       cfg.CORSOrigins,
		BodyLimit:         cfg.BodyLimit,
		AuthService:       authService,
		TaskService:       taskService,
		SubmissionService: submissionService,
		LoginLimiter:      loginLimiter,
		LoginLimit: middleware.FixedWindowConfig{
			RouteKey: "login",
			Limit:    cfg.Redis.LoginLimit,
			Window:   cfg.Redis.LoginWindow,
		},
		HealthChecks: checks,
	})

	return serve(ctx, e, ":"+cfg.Port, log)
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully within shutdownTimeout.
func serve(ctx context.Context, h http.Handler, addr string, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func seedAdmin(ctx context.Context, auth *service.AuthService, seed config.SeedConfig, log zerolog.Logger) error {
	if seed.AdminEmail == "" || seed.AdminPassword == "" {
		return nil
	}
	created, err := auth.EnsureAdmin(ctx, seed.AdminName, seed.AdminEmail, seed.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		log.Info().Str("email", seed.AdminEmail).Msg("admin user seeded")
	}
	return nil
}

func disconnectMongo(client *mongodriver.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}
}
