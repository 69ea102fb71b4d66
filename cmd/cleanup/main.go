package main

import (
	"context"
	"flag"
	"log"

	"drycleaning/internal/config"
	"drycleaning/internal/database"
	"drycleaning/internal/domain/notification"
	"drycleaning/internal/pkg/logger"
)

// One-off purge of old client notifications, for cron setups that run the API without the scheduler.
func main() {
	days := flag.Int("retention-days", notification.DefaultCleanupConfig().RetentionDays, "keep notifications younger than this")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lg, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	deleted, err := notification.NewCleanupService(notification.NewRepository(db), lg).CleanupOld(context.Background(), *days)
	if err != nil {
		log.Fatalf("notification cleanup failed: %v", err)
	}
	log.Printf("notification cleanup completed: deleted=%d", deleted)
}
