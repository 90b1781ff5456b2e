package repositories

import (
	"context"
	"strings"
	"sync"
	"time"

	"coffee-proximity-service/internal/domain"
	"coffee-proximity-service/internal/ports"
)

// MemoryShopRepository is an in-memory ShopRepository used by tests.
// Iteration order is insertion order, which stands in for the store's
// implementation-defined scan order.
type MemoryShopRepository struct {
	mu     sync.Mutex
	shops  []*domain.CoffeeShop
	byExt  map[string]*domain.CoffeeShop
	nextID int64
}

func NewMemoryShopRepository() *MemoryShopRepository {
	return &MemoryShopRepository{byExt: make(map[string]*domain.CoffeeShop)}
}

func (m *MemoryShopRepository) UpsertByExternalID(
	ctx context.Context,
	records []*domain.CoffeeShop,
	batchSize int,
) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total int64
	for _, rec := range records {
		m.upsertLocked(rec)
		total++
	}
	return total, nil
}

func (m *MemoryShopRepository) List(
	ctx context.Context,
	scope ports.ShopScope,
) ([]*domain.CoffeeShop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := strings.ToLower(strings.TrimSpace(scope.NameContains))

	out := make([]*domain.CoffeeShop, 0, len(m.shops))
	for _, s := range m.shops {
		if sub != "" && !strings.Contains(strings.ToLower(s.Name), sub) {
			continue
		}
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

func (m *MemoryShopRepository) Create(ctx context.Context, shop *domain.CoffeeShop) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if shop.ExternalID == "" {
		shop.ExternalID = domain.GenerateExternalID(shop.Name, shop.Latitude, shop.Longitude)
	}
	now := time.Now().UTC()
	shop.CreatedAt = now
	shop.UpdatedAt = now

	stored := m.upsertLocked(shop)
	shop.ID = stored.ID
	shop.CreatedAt = stored.CreatedAt
	return nil
}

func (m *MemoryShopRepository) MaxUpdatedAt(ctx context.Context) (*time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var max *time.Time
	for _, s := range m.shops {
		if max == nil || s.UpdatedAt.After(*max) {
			t := s.UpdatedAt
			max = &t
		}
	}
	return max, nil
}

// Count reports the number of stored rows; test helper.
func (m *MemoryShopRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.shops)
}

func (m *MemoryShopRepository) upsertLocked(rec *domain.CoffeeShop) *domain.CoffeeShop {
	if existing, ok := m.byExt[rec.ExternalID]; ok {
		existing.Name = rec.Name
		existing.Latitude = rec.Latitude
		existing.Longitude = rec.Longitude
		existing.Address = rec.Address
		existing.Schedule = rec.Schedule
		existing.UpdatedAt = rec.UpdatedAt
		return existing
	}

	m.nextID++
	copied := *rec
	copied.ID = m.nextID
	m.shops = append(m.shops, &copied)
	m.byExt[copied.ExternalID] = &copied
	return &copied
}
