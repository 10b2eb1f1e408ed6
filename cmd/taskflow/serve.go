package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"taskflow/internal/cache"
	"taskflow/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), ctx)
		},
	}
}

func runServe(parent context.Context, ctx *commandContext) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	pool, err := ctx.openDatabase()
	if err != nil {
		return err
	}
	defer pool.Close()

	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache = cache.NewRedisCache(&cache.CacheConfig{
			Addr:         cfg.GetRedisAddr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			KeyPrefix:    "taskflow:",
		})
		pingCtx, cancel := context.WithTimeout(parent, cfg.Redis.DialTimeout)
		if err := redisCache.Health(pingCtx); err != nil {
			log.Printf("redis unavailable at %s, serving from memory: %v", cfg.GetRedisAddr(), err)
		}
		cancel()
	}
	store := cache.NewMultiLevelCache(redisCache)
	defer store.Close()

	srv, err := server.New(server.Dependencies{Config: cfg, Pool: pool, Cache: store})
	if err != nil {
		return err
	}
	httpServer := srv.HTTPServer()

	runCtx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("taskflow listening on %s (%s, %s)", httpServer.Addr, cfg.Server.Environment, pool.Driver())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-runCtx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
