package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"coffee-proximity-service/internal/csvfeed"
	"coffee-proximity-service/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Initialize the coffee_shops schema. Safe to run repeatedly; concurrent
// migrations are not supported.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return errors.New("init schema: pool is nil")
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	createShopsQuery := `
	CREATE TABLE IF NOT EXISTS coffee_shops (
		id          BIGSERIAL PRIMARY KEY,
		name        VARCHAR(255) NOT NULL,
		latitude    NUMERIC(10,6) NOT NULL,
		longitude   NUMERIC(10,6) NOT NULL,
		address     VARCHAR(500),
		schedule    VARCHAR(255),
		external_id TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	);
	`

	createExternalIDIndexQuery := `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_coffee_shops_external_id
	ON coffee_shops (external_id);
	`

	createCoordinatesIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_coffee_shops_latitude_longitude
	ON coffee_shops (latitude, longitude);
	`

	statements := []string{
		createShopsQuery,
		createExternalIDIndexQuery,
		createCoordinatesIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the database from a local CSV file in feed format
// (name, latitude, longitude per line). Invalid lines are skipped the same
// way they are during a live sync, and re-seeding is idempotent.
func SeedFromCSV(ctx context.Context, pool *pgxpool.Pool, csvPath string, logger *log.Logger) (int64, error) {
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		return 0, fmt.Errorf("seed shops: read %q: %w", csvPath, err)
	}

	rows := csvfeed.NewParser(logger).Parse(string(raw))
	if len(rows) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	records := make([]*domain.CoffeeShop, 0, len(rows))
	for _, row := range rows {
		records = append(records, &domain.CoffeeShop{
			Name:       row.Name,
			Latitude:   row.Latitude,
			Longitude:  row.Longitude,
			ExternalID: domain.GenerateExternalID(row.Name, row.Latitude, row.Longitude),
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	repo := NewPostgresShopRepository(pool)
	written, err := repo.UpsertByExternalID(ctx, records, 0)
	if err != nil {
		return written, fmt.Errorf("seed shops: %w", err)
	}

	return written, nil
}
