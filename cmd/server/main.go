package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"coffee-proximity-service/internal/adapters/repositories"
	"coffee-proximity-service/internal/api"
	"coffee-proximity-service/internal/config"
	"coffee-proximity-service/internal/csvfeed"
	"coffee-proximity-service/internal/platform/db"
	"coffee-proximity-service/internal/services"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires the Postgres repository and CSV fetcher behind ports and starts
// the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	feedURL := os.Getenv("CSV_FEED_URL")
	if strings.TrimSpace(feedURL) == "" {
		log.Fatal("CSV_FEED_URL is required")
	}

	port := config.Get("PORT", "8080")
	batchSize := config.GetInt("SYNC_BATCH_SIZE", services.DefaultBatchSize)
	httpTimeout := config.GetDuration("HTTP_TIMEOUT", 10*time.Second)

	ctx := context.Background()
	pool, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	// Ensure the schema on startup for local runs.
	if err := repositories.InitSchema(ctx, pool); err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewPostgresShopRepository(pool)
	fetcher := csvfeed.NewFetcher(httpTimeout)
	sync := services.NewSynchronizer(
		services.SyncConfig{FeedURL: feedURL, BatchSize: batchSize},
		fetcher, nil, repo, nil,
	)

	router := api.NewRouter(repo, sync)

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// A sync triggered over HTTP waits on the upstream feed.
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
