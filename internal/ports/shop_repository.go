package ports

import (
	"context"
	"time"

	"coffee-proximity-service/internal/domain"
)

// ShopScope pre-filters the shop dataset before ranking or listing.
// The zero value selects every shop.
type ShopScope struct {
	// NameContains keeps only shops whose name contains the substring,
	// case-insensitively. The value is passed as data, never as SQL.
	NameContains string
}

// Port: a boundary for storing and scanning CoffeeShop entities.
type ShopRepository interface {
	// Insert or update records keyed by their unique external_id, in chunks
	// of batchSize. Returns the number of rows written. Record-level business
	// validation is not applied here; rows are gated before they arrive.
	UpsertByExternalID(ctx context.Context, records []*domain.CoffeeShop, batchSize int) (int64, error)

	// List returns every shop in scope with coordinates, in store iteration
	// order. The order is implementation-defined.
	List(ctx context.Context, scope ShopScope) ([]*domain.CoffeeShop, error)

	// Create persists a single shop, filling its id and timestamps. Losing a
	// unique-index race on external_id means someone else just created the
	// same shop; the implementation resolves that by updating the winning row.
	Create(ctx context.Context, shop *domain.CoffeeShop) error

	// MaxUpdatedAt reports the newest updated_at, or nil for an empty table.
	MaxUpdatedAt(ctx context.Context) (*time.Time, error)
}
