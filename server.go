package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/valyala/fasthttp"

	"tax-engine/internal/cache"
	"tax-engine/internal/config"
	"tax-engine/internal/engine"
	"tax-engine/internal/handler"
	"tax-engine/internal/tax"
)

func newCache(cfg config.CacheConfig) (cache.Cache, func()) {
	if cfg.Disabled {
		return cache.Nop{}, func() {}
	}
	if cfg.RedisAddr == "" {
		return cache.NewMemory(), func() {}
	}

	r := cache.NewRedis(cfg.RedisAddr, cfg.TTL)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Ping(ctx); err != nil {
		log.Warnf("redis %s unavailable, caching in process: %v", cfg.RedisAddr, err)
		r.Close()
		return cache.NewMemory(), func() {}
	}
	log.Infof("Caching breakdowns in redis at %s", cfg.RedisAddr)
	return r, func() { r.Close() }
}

func runServer(cfg config.Config, calc *tax.Calculator) error {
	c, closeCache := newCache(cfg.Cache)
	defer closeCache()

	h := handler.New(engine.New(calc, c))
	server := &fasthttp.Server{
		Handler:      h.Handle,
		Name:         "tax-engine",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Tax engine starting on port %s", cfg.Server.Port)
		serverErr <- server.ListenAndServe(":" + cfg.Server.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
		log.Info("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.ShutdownWithContext(ctx); err != nil {
		return err
	}
	log.Info("Server exited")
	return nil
}
