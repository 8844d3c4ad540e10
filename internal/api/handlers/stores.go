package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"store-locator/internal/api/dto"
	"store-locator/internal/domain"
	"store-locator/internal/platform/obs"
	"store-locator/internal/ports"
	"strconv"
	"strings"
)

// StoreHandler serves stores visible in a map viewport.
type StoreHandler struct {
	Repo       ports.StoreRepository
	MaxResults int
}

// List answers GET /address?lat=&lng=&latRange=&lngRange= with a JSON
// array of the stores inside the viewport bounds. Missing ranges fall
// back to the default span.
func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	vp, err := parseViewport(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	limit := h.MaxResults
	if limit < 1 {
		limit = 200
	}

	stores, err := h.Repo.StoresInBounds(r.Context(), vp.Bounds(), limit)
	if err != nil {
		obs.Logger().Errorw("list stores failed",
			"req_id", obs.RequestID(r.Context()), "viewport", vp.String(), "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := make([]dto.StoreResponse, 0, len(stores))
	for _, s := range stores {
		res = append(res, dto.NewStoreResponse(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func parseViewport(q url.Values) (domain.Viewport, error) {
	lat, err := requiredFloat(q, "lat")
	if err != nil {
		return domain.Viewport{}, err
	}
	lng, err := requiredFloat(q, "lng")
	if err != nil {
		return domain.Viewport{}, err
	}
	latRange, err := optionalFloat(q, "latRange", domain.DefaultSpan.Latitude)
	if err != nil {
		return domain.Viewport{}, err
	}
	lngRange, err := optionalFloat(q, "lngRange", domain.DefaultSpan.Longitude)
	if err != nil {
		return domain.Viewport{}, err
	}

	vp := domain.Viewport{Latitude: lat, Longitude: lng, LatitudeSpan: latRange, LongitudeSpan: lngRange}
	if err := vp.Validate(); err != nil {
		return domain.Viewport{}, err
	}
	return vp, nil
}

func requiredFloat(q url.Values, key string) (float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	return parseFloat(key, raw)
}

func optionalFloat(q url.Values, key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return fallback, nil
	}
	return parseFloat(key, raw)
}

func parseFloat(key, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return v, nil
}
