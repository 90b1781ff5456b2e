package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"coffee-proximity-service/internal/adapters/repositories"
	"coffee-proximity-service/internal/config"
	"coffee-proximity-service/internal/csvfeed"
	"coffee-proximity-service/internal/platform/db"
	"coffee-proximity-service/internal/services"

	"github.com/joho/godotenv"
)

// synctool initializes the schema, optionally seeds from a local CSV file,
// and runs one ingestion pass when a feed URL is configured. Intended for
// cron jobs and first-time setup.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, pool); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if seedPath := os.Getenv("SEED_PATH"); strings.TrimSpace(seedPath) != "" {
		log.Printf("Seeding from %s...", seedPath)
		written, err := repositories.SeedFromCSV(ctx, pool, seedPath, log.Default())
		if err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		log.Printf("Seeding complete. rows=%d", written)
	}

	feedURL := os.Getenv("CSV_FEED_URL")
	if strings.TrimSpace(feedURL) == "" {
		return
	}

	batchSize := config.GetInt("SYNC_BATCH_SIZE", services.DefaultBatchSize)
	httpTimeout := config.GetDuration("HTTP_TIMEOUT", 10*time.Second)

	repo := repositories.NewPostgresShopRepository(pool)
	sync := services.NewSynchronizer(
		services.SyncConfig{FeedURL: feedURL, BatchSize: batchSize},
		csvfeed.NewFetcher(httpTimeout), nil, repo, nil,
	)

	summary := sync.Run(ctx)
	if summary.StoreErr != nil {
		log.Fatalf("sync failed after %d rows: %v", summary.Upserted, summary.StoreErr)
	}
	log.Printf("Sync complete. fetched=%t parsed=%d upserted=%d",
		summary.Fetched, summary.Parsed, summary.Upserted)
}
