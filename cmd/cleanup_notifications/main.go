package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"notifhub-be/internal/config"
	"notifhub-be/internal/repository/unitofwork"
	"notifhub-be/pkg/database"

	"github.com/joho/godotenv"
)

// Removes stale notification rows. Meant to run from cron; the admin API
// exposes the same cleanup on demand.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}

	ctx := context.Background()
	repo := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx).NotificationRepository()

	expiredOnly := os.Getenv("CLEANUP_EXPIRED_ONLY") == "true"

	if expiredOnly {
		log.Println("Deleting expired notifications...")
		deleted, err := repo.DeleteExpired(ctx, time.Now())
		if err != nil {
			log.Fatalf("Failed to delete expired notifications: %v", err)
		}
		log.Printf("Deleted %d rows.", deleted)
		return
	}

	days := 90
	if raw := os.Getenv("CLEANUP_OLDER_THAN_DAYS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			log.Fatalf("Invalid CLEANUP_OLDER_THAN_DAYS: %q", raw)
		}
		days = parsed
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	log.Printf("Deleting notifications created before %s...", cutoff.Format("2006-01-02"))

	deleted, err := repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Fatalf("Failed to delete old notifications: %v", err)
	}
	log.Printf("Deleted %d rows.", deleted)
}
