package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AthrunAshy/flasky/internal/api"
	"github.com/AthrunAshy/flasky/internal/core/service"
	"github.com/AthrunAshy/flasky/internal/infrastructure/config"
	"github.com/AthrunAshy/flasky/internal/infrastructure/db/gormdb"
	redisdb "github.com/AthrunAshy/flasky/internal/infrastructure/db/redis"
	"github.com/AthrunAshy/flasky/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	db, err := gormdb.Open(cfg.DB.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init failed")
	}

	// Redis is optional: without it the service runs unthrottled.
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, login throttling disabled")
			rdb = nil
		}
	}

	// Converge the role table before serving; safe on every startup.
	roleSvc := service.NewRoleService(gormdb.NewRoleRepository(db), log)
	if err := roleSvc.SeedRoles(ctx); err != nil {
		log.Fatal().Err(err).Msg("role seeding failed")
	}

	e := api.NewRouter(cfg, db, rdb, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server stopped")
}
