package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/actuallystonmai/catalog-recommender/internal/auth"
	"github.com/actuallystonmai/catalog-recommender/internal/cache"
	"github.com/actuallystonmai/catalog-recommender/internal/config"
	"github.com/actuallystonmai/catalog-recommender/internal/handler"
	"github.com/actuallystonmai/catalog-recommender/internal/logging"
	"github.com/actuallystonmai/catalog-recommender/internal/recommend"
	"github.com/actuallystonmai/catalog-recommender/internal/repository"
	"github.com/actuallystonmai/catalog-recommender/internal/router"
	"github.com/actuallystonmai/catalog-recommender/internal/service"
	"github.com/actuallystonmai/catalog-recommender/seeds"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Caller: cfg.LogCaller})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ------------ PostgreSQL ---------------
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to parse database config")
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := waitForDB(ctx, pool); err != nil {
		logging.Fatal().Err(err).Msg("database not ready")
	}
	logging.Info().Msg("connected to PostgreSQL")

	// ------------ Run Migrations ---------------
	// for migrate-down using CLI command
	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		if err := migrate(ctx, pool, cfg.MigrationsDir, "down"); err != nil {
			logging.Fatal().Err(err).Msg("failed to migrate down")
		}
		return
	}

	if err := migrate(ctx, pool, cfg.MigrationsDir, "up"); err != nil {
		logging.Fatal().Err(err).Msg("failed to migrate up")
	}

	// ------------ Setup Seed Data ---------------
	if cfg.Seed {
		if err := checkSeed(ctx, pool); err != nil {
			logging.Fatal().Err(err).Msg("failed to check seed")
		}
	}

	// ------------ Redis ---------------
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to parse redis url")
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logging.Warn().Err(err).Msg("redis unavailable, recommendations will not be cached until it recovers")
	}

	// ------------ Wiring ---------------
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create token manager")
	}

	engineOpts := []recommend.Option{recommend.WithQuota(cfg.GenreQuota)}
	if cfg.ReuseIndex {
		engineOpts = append(engineOpts, recommend.WithIndexCache(recommend.NewIndexCache()))
	}

	svc := service.NewService(
		repository.New(pool),
		cache.NewCache(rdb, cfg.CacheTTL),
		recommend.NewEngine(engineOpts...),
		tokens,
	)
	h := handler.NewHandler(svc)

	// ---------------- Server --------------------
	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.Setup(h, tokens, router.Options{
			CORSOrigins:       cfg.CORSOrigins,
			RateLimitRequests: cfg.RateLimitRequests,
			RateLimitWindow:   cfg.RateLimitWindow,
			RequestTimeout:    cfg.RequestTimeout,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logging.Fatal().Err(err).Msg("server failed")
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		logging.Info().Int("attempt", i+1).Msg("waiting for database")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("database connection timeout after 30s")
}

// migrate executes migrations/create_tables.<direction>.sql.
func migrate(ctx context.Context, pool *pgxpool.Pool, dir, direction string) error {
	path := filepath.Join(dir, "create_tables."+direction+".sql")
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	logging.Info().Str("direction", direction).Str("file", path).Msg("migrations applied")
	return nil
}

func checkSeed(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("check users count: %w", err)
	}
	if count > 0 {
		logging.Info().Int("users", count).Msg("database already seeded, skipping")
		return nil
	}
	return seeds.Setup(ctx, pool)
}
