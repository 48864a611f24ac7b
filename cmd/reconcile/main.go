package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"tourbook/internal/database"
	"tourbook/internal/modules/stats"
	"tourbook/internal/repository"
)

// Recomputes every target's rating statistics from the active review set
// and overwrites the snapshot rows. Run periodically (cron) so the stored
// aggregates can never drift from the reviews for long.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	reviewRepo := repository.NewReviewRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)
	svc := stats.NewService(reviewRepo, statsRepo)

	n, err := svc.ReconcileAll(context.Background())
	if err != nil {
		log.Fatalf("reconcile failed after %d targets: %v", n, err)
	}

	log.Printf("reconcile completed: %d targets recomputed", n)
}
