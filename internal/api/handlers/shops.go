package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"coffee-proximity-service/internal/api/dto"
	"coffee-proximity-service/internal/domain"
	"coffee-proximity-service/internal/ports"
	"coffee-proximity-service/internal/services"
	"coffee-proximity-service/internal/validate"

	"github.com/shopspring/decimal"
)

// ShopHandler exposes the proximity search and the administrative create
// path over one resource route.
type ShopHandler struct {
	Repo ports.ShopRepository
}

func (h *ShopHandler) Shops(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.nearby(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// nearby validates the origin before the finder is ever invoked; the finder
// itself assumes clean coordinates.
func (h *ShopHandler) nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x := strings.TrimSpace(q.Get("x"))
	y := strings.TrimSpace(q.Get("y"))

	if !validate.Valid(x, y) {
		writeJSON(w, r, http.StatusUnprocessableEntity, dto.ErrorsResponse{
			Errors: []string{"x must be a latitude in [-90, 90] and y a longitude in [-180, 180]"},
		})
		return
	}
	originLat, _ := validate.ToDecimal(x)
	originLng, _ := validate.ToDecimal(y)

	limit := services.DefaultSearchLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	scope := ports.ShopScope{NameContains: strings.TrimSpace(q.Get("name"))}

	results, err := services.FindNearby(r.Context(), h.Repo, originLat, originLng, limit, scope)
	if err != nil {
		log.Printf("find nearby failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.SearchResponse{
		Origin:  dto.SearchOrigin{X: x, Y: y},
		Results: make([]dto.SearchResultResponse, 0, len(results)),
	}
	for _, result := range results {
		res.Results = append(res.Results, dto.SearchResultResponse{
			CoffeeShop: shopResponse(result.Shop),
			DistanceKm: result.Distance.String(),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ShopHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCoffeeShopRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	var messages []string
	if req.Latitude == nil {
		messages = append(messages, "latitude can't be blank")
	}
	if req.Longitude == nil {
		messages = append(messages, "longitude can't be blank")
	}
	if len(messages) > 0 {
		writeJSON(w, r, http.StatusUnprocessableEntity, dto.CreateCoffeeShopResponse{Errors: messages})
		return
	}

	shop := &domain.CoffeeShop{
		Name:      strings.TrimSpace(req.Name),
		Latitude:  decimal.NewFromFloat(*req.Latitude),
		Longitude: decimal.NewFromFloat(*req.Longitude),
		Address:   strings.TrimSpace(req.Address),
		Schedule:  strings.TrimSpace(req.Schedule),
	}

	if fieldErrs := shop.Validate(); len(fieldErrs) > 0 {
		for _, fe := range fieldErrs {
			messages = append(messages, fe.String())
		}
		writeJSON(w, r, http.StatusUnprocessableEntity, dto.CreateCoffeeShopResponse{Errors: messages})
		return
	}

	if err := h.Repo.Create(r.Context(), shop); err != nil {
		log.Printf("create shop failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := shopResponse(shop)
	writeJSON(w, r, http.StatusCreated, dto.CreateCoffeeShopResponse{
		CoffeeShop: &resp,
		Errors:     []string{},
	})
}

func shopResponse(s *domain.CoffeeShop) dto.CoffeeShopResponse {
	return dto.CoffeeShopResponse{
		ID:        s.ID,
		Name:      s.Name,
		Latitude:  s.Latitude.String(),
		Longitude: s.Longitude.String(),
		Address:   s.Address,
		Schedule:  s.Schedule,
	}
}
