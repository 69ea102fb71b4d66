package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"drycleaning/internal/config"
	"drycleaning/internal/database"
	"drycleaning/internal/domain/notification"
	"drycleaning/internal/pkg/logger"
	"drycleaning/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("api terminated", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(db, server.Models()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	storage, err := server.NewStorage(ctx, cfg.S3)
	if err != nil {
		return fmt.Errorf("photo storage: %w", err)
	}
	if !cfg.S3.Enabled() {
		lg.Warn("S3_BUCKET is not set, item photos are kept in memory")
	}

	app, err := server.New(cfg, db, storage, lg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	app.Cleanup.Schedule(ctx, notification.DefaultCleanupConfig())

	g.Go(func() error {
		app.Sessions.RunSweeper(ctx, time.Minute)
		return nil
	})

	g.Go(func() error {
		lg.Info("api listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("env", cfg.AppEnv),
			zap.String("branch", cfg.Branch.Code),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		lg.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
