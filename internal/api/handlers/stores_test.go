package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"store-locator/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	stores []domain.Store
	err    error

	bounds domain.Bounds
	limit  int
	calls  int
}

func (f *fakeRepo) StoresInBounds(ctx context.Context, bounds domain.Bounds, limit int) ([]domain.Store, error) {
	f.calls++
	f.bounds = bounds
	f.limit = limit
	return f.stores, f.err
}

func TestListStoresReturnsWireArray(t *testing.T) {
	suite := "Suite 4"
	flat := 2.5
	repo := &fakeRepo{stores: []domain.Store{
		{ID: "s1", Name: "Corner Store", Address1: "1 Main St", Address2: &suite, Lat: 40.001, Lng: -75.001, FlatFee: &flat},
	}}
	h := &StoreHandler{Repo: repo, MaxResults: 50}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/address?lat=40&lng=-75&latRange=0.01&lngRange=0.002", nil)
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	assert.Equal(t, 50, repo.limit)
	assert.InDelta(t, 39.995, repo.bounds.MinLat, 1e-9)
	assert.InDelta(t, 40.005, repo.bounds.MaxLat, 1e-9)
	assert.InDelta(t, -75.001, repo.bounds.MinLng, 1e-9)
	assert.InDelta(t, -74.999, repo.bounds.MaxLng, 1e-9)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "s1", body[0]["_id"])
	assert.Equal(t, "Corner Store", body[0]["storeName"])
	assert.Equal(t, "Suite 4", body[0]["address2"])
	assert.Equal(t, 2.5, body[0]["chargeFlat"])
	assert.NotContains(t, body[0], "minimumPurchase")
	assert.NotContains(t, body[0], "chargePercent")
}

func TestListStoresEmptyIsArray(t *testing.T) {
	h := &StoreHandler{Repo: &fakeRepo{}}

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/address?lat=1&lng=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListStoresDefaultsRangesAndLimit(t *testing.T) {
	repo := &fakeRepo{}
	h := &StoreHandler{Repo: repo}

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/address?lat=40&lng=-75", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 200, repo.limit)
	assert.Equal(t, domain.NewViewport(domain.Coordinates{Lat: 40, Lon: -75}, domain.DefaultSpan).Bounds(), repo.bounds)
}

func TestListStoresRejectsBadQueries(t *testing.T) {
	cases := map[string]string{
		"missing lat":       "/address?lng=1",
		"missing lng":       "/address?lat=1",
		"non numeric":       "/address?lat=abc&lng=1",
		"latitude range":    "/address?lat=95&lng=1",
		"zero span":         "/address?lat=1&lng=1&latRange=0",
		"negative lngRange": "/address?lat=1&lng=1&lngRange=-1",
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &fakeRepo{}
			h := &StoreHandler{Repo: repo}

			rec := httptest.NewRecorder()
			h.List(rec, httptest.NewRequest(http.MethodGet, target, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, repo.calls)
		})
	}
}

func TestListStoresRepositoryFailure(t *testing.T) {
	h := &StoreHandler{Repo: &fakeRepo{err: errors.New("db down")}}

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/address?lat=1&lng=1", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	h := &StoreHandler{Repo: &fakeRepo{}}

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodPost, "/address?lat=1&lng=1", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))

	rec = httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodDelete, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
