package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"coffee-proximity-service/internal/domain"
	"coffee-proximity-service/internal/ports"

	"github.com/shopspring/decimal"
)

// One degree of latitude or longitude is treated as 111.12 km and distance
// is Euclidean in degree-space, not great-circle. At city scale the error
// is negligible, and existing expectations are pinned to this formula, so
// it stays as-is rather than being replaced with haversine.
const kmPerDegree = 111.12

const DefaultSearchLimit = 3

// SearchResult pairs a shop with its distance from the search origin in km,
// rounded to 4 decimal places. Results are owned by the caller and never
// stored.
type SearchResult struct {
	Shop     *domain.CoffeeShop
	Distance decimal.Decimal
}

// FindNearby returns the limit closest shops in scope, ascending by
// distance. The whole scope is scanned and ranked; no spatial index is
// involved. Ties keep store iteration order. A limit beyond the dataset
// size returns the whole sorted dataset, and an empty scope returns an
// empty slice, never an error.
func FindNearby(
	ctx context.Context,
	repo ports.ShopRepository,
	originLat decimal.Decimal,
	originLng decimal.Decimal,
	limit int,
	scope ports.ShopScope,
) ([]SearchResult, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	shops, err := repo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("find nearby: list shops: %w", err)
	}

	results := make([]SearchResult, 0, len(shops))
	for _, shop := range shops {
		results = append(results, SearchResult{
			Shop:     shop,
			Distance: distanceKm(originLat, originLng, shop.Latitude, shop.Longitude),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance.Cmp(results[j].Distance) < 0
	})

	if limit < len(results) {
		results = results[:limit]
	}

	return results, nil
}

func distanceKm(originLat, originLng, lat, lng decimal.Decimal) decimal.Decimal {
	latDiff := lat.Sub(originLat).InexactFloat64()
	lngDiff := lng.Sub(originLng).InexactFloat64()

	degrees := math.Sqrt(latDiff*latDiff + lngDiff*lngDiff)
	return decimal.NewFromFloat(degrees * kmPerDegree).Round(4)
}
