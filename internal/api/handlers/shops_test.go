package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"coffee-proximity-service/internal/adapters/repositories"
	"coffee-proximity-service/internal/api/dto"
	"coffee-proximity-service/internal/domain"

	"github.com/shopspring/decimal"
)

func seededHandler(t *testing.T) *ShopHandler {
	t.Helper()

	repo := repositories.NewMemoryShopRepository()
	now := time.Now().UTC()

	shops := []struct {
		name     string
		lat, lng string
	}{
		{"Starbucks Seattle", "47.5809", "-122.3160"},
		{"Starbucks Seattle 2", "47.5869", "-122.3368"},
		{"Starbucks SF", "37.5209", "-122.3340"},
	}
	for _, s := range shops {
		lat := decimal.RequireFromString(s.lat)
		lng := decimal.RequireFromString(s.lng)
		_, err := repo.UpsertByExternalID(context.Background(), []*domain.CoffeeShop{{
			Name:       s.name,
			Latitude:   lat,
			Longitude:  lng,
			ExternalID: domain.GenerateExternalID(s.name, lat, lng),
			CreatedAt:  now,
			UpdatedAt:  now,
		}}, 0)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	return &ShopHandler{Repo: repo}
}

func TestNearbyReturnsClosestShops(t *testing.T) {
	h := seededHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/coffee-shops?x=47.6&y=-122.4", nil)
	rec := httptest.NewRecorder()
	h.Shops(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var res dto.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(res.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(res.Results))
	}
	if !strings.Contains(res.Results[0].CoffeeShop.Name, "Seattle") {
		t.Errorf("closest shop = %q, want a Seattle shop", res.Results[0].CoffeeShop.Name)
	}
	if res.Results[2].CoffeeShop.Name != "Starbucks SF" {
		t.Errorf("furthest shop = %q, want Starbucks SF", res.Results[2].CoffeeShop.Name)
	}
}

func TestNearbyRejectsInvalidCoordinates(t *testing.T) {
	h := seededHandler(t)

	for _, query := range []string{"x=abc&y=-122.4", "x=95&y=-122.4", "x=47.6&y=181", "x=&y="} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/coffee-shops?"+query, nil)
		rec := httptest.NewRecorder()
		h.Shops(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("query %q: status = %d, want 422", query, rec.Code)
		}
	}
}

func TestNearbyHonorsLimitAndScope(t *testing.T) {
	h := seededHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/coffee-shops?x=47.6&y=-122.4&limit=1&name=SF", nil)
	rec := httptest.NewRecorder()
	h.Shops(rec, req)

	var res dto.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Results) != 1 || res.Results[0].CoffeeShop.Name != "Starbucks SF" {
		t.Fatalf("unexpected results: %+v", res.Results)
	}
}

func TestCreateShop(t *testing.T) {
	h := seededHandler(t)

	body := `{"name":"Blue Bottle","latitude":37.77,"longitude":-122.42,"address":"1 Ferry Building"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/coffee-shops", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Shops(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}

	var res dto.CreateCoffeeShopResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.CoffeeShop == nil || res.CoffeeShop.Name != "Blue Bottle" {
		t.Fatalf("unexpected shop: %+v", res.CoffeeShop)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if res.CoffeeShop.ID == 0 {
		t.Fatal("created shop has no id")
	}
}

func TestCreateShopValidationErrorsAsData(t *testing.T) {
	h := seededHandler(t)

	body := `{"name":"","latitude":95,"longitude":-122.42}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/coffee-shops", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Shops(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var res dto.CreateCoffeeShopResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.CoffeeShop != nil {
		t.Fatal("expected no shop on validation failure")
	}
	if len(res.Errors) != 2 {
		t.Fatalf("errors = %v, want name and latitude messages", res.Errors)
	}
}

func TestCreateShopMissingCoordinates(t *testing.T) {
	h := seededHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/coffee-shops", strings.NewReader(`{"name":"No Coords"}`))
	rec := httptest.NewRecorder()
	h.Shops(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestShopsMethodNotAllowed(t *testing.T) {
	h := seededHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/coffee-shops", nil)
	rec := httptest.NewRecorder()
	h.Shops(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
