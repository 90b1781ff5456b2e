package dto

import "time"

type CoffeeShopResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	Address   string `json:"address,omitempty"`
	Schedule  string `json:"schedule,omitempty"`
}

type SearchResultResponse struct {
	CoffeeShop CoffeeShopResponse `json:"coffee_shop"`
	DistanceKm string             `json:"distance_km"`
}

type SearchOrigin struct {
	X string `json:"x"`
	Y string `json:"y"`
}

type SearchResponse struct {
	Origin  SearchOrigin           `json:"origin"`
	Results []SearchResultResponse `json:"results"`
}

type ErrorsResponse struct {
	Errors []string `json:"errors"`
}

// Latitude and longitude are pointers so a missing field is distinguishable
// from an explicit 0.
type CreateCoffeeShopRequest struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   string   `json:"address"`
	Schedule  string   `json:"schedule"`
}

// Validation failures come back as messages in Errors with a null shop,
// not as a transport-level error.
type CreateCoffeeShopResponse struct {
	CoffeeShop *CoffeeShopResponse `json:"coffee_shop"`
	Errors     []string            `json:"errors"`
}

type SyncResponse struct {
	Fetched  bool  `json:"fetched"`
	Parsed   int   `json:"parsed"`
	Upserted int64 `json:"upserted"`
}

type SyncStatusResponse struct {
	LastSyncedAt *time.Time `json:"last_synced_at"`
}
