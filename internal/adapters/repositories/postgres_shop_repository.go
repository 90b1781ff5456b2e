package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coffee-proximity-service/internal/domain"
	"coffee-proximity-service/internal/platform/obs"
	"coffee-proximity-service/internal/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const uniqueViolationCode = "23505"

// Postgres-backed implementation of the ShopRepository port.
type PostgresShopRepository struct{ Pool *pgxpool.Pool }

func NewPostgresShopRepository(pool *pgxpool.Pool) *PostgresShopRepository {
	return &PostgresShopRepository{Pool: pool}
}

const upsertQuery = `
INSERT INTO coffee_shops
	(name, latitude, longitude, address, schedule, external_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (external_id) DO UPDATE SET
	name       = EXCLUDED.name,
	latitude   = EXCLUDED.latitude,
	longitude  = EXCLUDED.longitude,
	address    = EXCLUDED.address,
	schedule   = EXCLUDED.schedule,
	updated_at = EXCLUDED.updated_at;
`

// Insert or update records keyed by external_id, in chunks of batchSize.
// created_at is preserved on conflict; every other mutable column is
// rewritten from the incoming record.
func (r *PostgresShopRepository) UpsertByExternalID(
	ctx context.Context,
	records []*domain.CoffeeShop,
	batchSize int,
) (_ int64, err error) {
	defer obs.Time(ctx, "shops.upsert")(&err)

	if r.Pool == nil {
		return 0, errors.New("postgres shop repository: pool is nil")
	}
	if len(records) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 1000
	}

	var total int64
	for i := 0; i < len(records); i += batchSize {
		j := i + batchSize
		if j > len(records) {
			j = len(records)
		}

		b := &pgx.Batch{}
		for _, rec := range records[i:j] {
			b.Queue(upsertQuery,
				rec.Name,
				rec.Latitude.String(),
				rec.Longitude.String(),
				nullable(rec.Address),
				nullable(rec.Schedule),
				rec.ExternalID,
				rec.CreatedAt,
				rec.UpdatedAt,
			)
		}

		br := r.Pool.SendBatch(ctx, b)
		for k := i; k < j; k++ {
			tag, execErr := br.Exec()
			if execErr != nil {
				_ = br.Close()
				return total, fmt.Errorf("upsert shops: batch exec: %w", execErr)
			}
			total += tag.RowsAffected()
		}
		if closeErr := br.Close(); closeErr != nil {
			return total, fmt.Errorf("upsert shops: close batch: %w", closeErr)
		}
	}

	return total, nil
}

// List returns every shop in scope. Coordinates travel as text and are
// re-parsed into decimals to keep the numeric(10,6) values exact.
func (r *PostgresShopRepository) List(
	ctx context.Context,
	scope ports.ShopScope,
) (_ []*domain.CoffeeShop, err error) {
	defer obs.Time(ctx, "shops.list")(&err)

	if r.Pool == nil {
		return nil, errors.New("postgres shop repository: pool is nil")
	}

	query := `
	SELECT
		id,
		name,
		latitude::text,
		longitude::text,
		COALESCE(address, ''),
		COALESCE(schedule, ''),
		external_id,
		created_at,
		updated_at
	FROM coffee_shops`

	args := []any{}
	if sub := strings.TrimSpace(scope.NameContains); sub != "" {
		query += `
	WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, sub)
	}
	query += `
	ORDER BY id;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shops: query coffee_shops table: %w", err)
	}
	defer rows.Close()

	shops := make([]*domain.CoffeeShop, 0, 64)
	for rows.Next() {
		var (
			shop   domain.CoffeeShop
			latStr string
			lngStr string
		)
		if err := rows.Scan(
			&shop.ID, &shop.Name, &latStr, &lngStr,
			&shop.Address, &shop.Schedule, &shop.ExternalID,
			&shop.CreatedAt, &shop.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("list shops: scan row: %w", err)
		}

		if shop.Latitude, err = decimal.NewFromString(latStr); err != nil {
			return nil, fmt.Errorf("list shops: latitude of id=%d: %w", shop.ID, err)
		}
		if shop.Longitude, err = decimal.NewFromString(lngStr); err != nil {
			return nil, fmt.Errorf("list shops: longitude of id=%d: %w", shop.ID, err)
		}

		shops = append(shops, &shop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shops: row iteration: %w", err)
	}

	return shops, nil
}

// Create inserts a single shop, filling its id and timestamps. Losing the
// unique-index race on external_id means a concurrent run just created the
// same shop; the winning row is updated instead. One retry only; a second
// failure surfaces.
func (r *PostgresShopRepository) Create(ctx context.Context, shop *domain.CoffeeShop) (err error) {
	defer obs.Time(ctx, "shops.create")(&err)

	if r.Pool == nil {
		return errors.New("postgres shop repository: pool is nil")
	}

	if shop.ExternalID == "" {
		shop.ExternalID = domain.GenerateExternalID(shop.Name, shop.Latitude, shop.Longitude)
	}
	now := time.Now().UTC()
	shop.CreatedAt = now
	shop.UpdatedAt = now

	const insert = `
	INSERT INTO coffee_shops
		(name, latitude, longitude, address, schedule, external_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id;
	`
	err = r.Pool.QueryRow(ctx, insert,
		shop.Name,
		shop.Latitude.String(),
		shop.Longitude.String(),
		nullable(shop.Address),
		nullable(shop.Schedule),
		shop.ExternalID,
		shop.CreatedAt,
		shop.UpdatedAt,
	).Scan(&shop.ID)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return fmt.Errorf("create shop: insert: %w", err)
	}

	const update = `
	UPDATE coffee_shops
	SET name = $1, latitude = $2, longitude = $3, address = $4, schedule = $5, updated_at = $6
	WHERE external_id = $7
	RETURNING id, created_at;
	`
	if err := r.Pool.QueryRow(ctx, update,
		shop.Name,
		shop.Latitude.String(),
		shop.Longitude.String(),
		nullable(shop.Address),
		nullable(shop.Schedule),
		shop.UpdatedAt,
		shop.ExternalID,
	).Scan(&shop.ID, &shop.CreatedAt); err != nil {
		return fmt.Errorf("create shop: resolve unique conflict external_id=%s: %w", shop.ExternalID, err)
	}

	return nil
}

// MaxUpdatedAt reports the newest updated_at, used as the "last synced at"
// indicator. Nil means the table is empty.
func (r *PostgresShopRepository) MaxUpdatedAt(ctx context.Context) (*time.Time, error) {
	if r.Pool == nil {
		return nil, errors.New("postgres shop repository: pool is nil")
	}

	var ts *time.Time
	if err := r.Pool.QueryRow(ctx, `SELECT MAX(updated_at) FROM coffee_shops;`).Scan(&ts); err != nil {
		return nil, fmt.Errorf("max updated at: %w", err)
	}
	return ts, nil
}

// Optional text columns store NULL instead of the empty string.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
