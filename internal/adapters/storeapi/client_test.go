package storeapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"store-locator/internal/domain"
	"store-locator/internal/ports"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientListStoresSendsViewportAndDecodes(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{
			"lat":      q.Get("lat"),
			"lng":      q.Get("lng"),
			"latRange": q.Get("latRange"),
			"lngRange": q.Get("lngRange"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"_id":"s1","storeName":"Corner Store","address1":"1 Main St","lat":40.001,"lng":-75.001},
			{"_id":42,"storeName":"Market","address1":"2 Elm St","address2":"Unit B","lat":40.002,"lng":-75.002,"chargeFlat":2.5}
		]`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL+"/address", time.Second)
	require.NoError(t, err)

	vp := domain.Viewport{Latitude: 40.5, Longitude: -75.5, LatitudeSpan: 0.01, LongitudeSpan: 0.0009}
	stores, err := c.ListStores(context.Background(), domain.NewFetchQuery(vp))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"lat":      "40.5",
		"lng":      "-75.5",
		"latRange": "0.01",
		"lngRange": "0.0009",
	}, got)

	require.Len(t, stores, 2)
	assert.Equal(t, "s1", stores[0].ID)
	assert.Equal(t, "Corner Store", stores[0].Name)
	assert.Nil(t, stores[0].FlatFee)
	assert.Equal(t, "42", stores[1].ID)
	assert.Equal(t, "2 Elm St, Unit B", stores[1].AddressLine())
	require.NotNil(t, stores[1].FlatFee)
	assert.Equal(t, 2.5, *stores[1].FlatFee)
}

func TestClientListStoresAcceptsPlainStoreKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"s1","name":"Corner Store","address1":"1 Main","lat":40.001,"lng":-75.001,"flatFee":2},
			{"id":7,"name":"Market","address1":"2 Elm","lat":40.002,"lng":-75.002,"percentFee":5},
			{"_id":"s3","id":"ignored","storeName":"Deli","name":"ignored","address1":"3 Oak","lat":40.003,"lng":-75.003,"chargeFlat":1,"flatFee":9}
		]`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	vp := domain.Viewport{Latitude: 40, Longitude: -75, LatitudeSpan: 0.01, LongitudeSpan: 0.0009}
	stores, err := c.ListStores(context.Background(), domain.NewFetchQuery(vp))
	require.NoError(t, err)
	require.Len(t, stores, 3)

	assert.Equal(t, "s1", stores[0].ID)
	assert.Equal(t, "Corner Store", stores[0].Name)
	assert.Equal(t, "Flat fee: $2", stores[0].FeeSummary())

	assert.Equal(t, "7", stores[1].ID)
	assert.Equal(t, "Percentage fee: 5%", stores[1].FeeSummary())

	assert.Equal(t, "s3", stores[2].ID)
	assert.Equal(t, "Deli", stores[2].Name)
	assert.Equal(t, "Flat fee: $1", stores[2].FeeSummary())
}

func TestClientListStoresServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = c.ListStores(context.Background(), domain.NewFetchQuery(domain.Viewport{Latitude: 1, Longitude: 1, LatitudeSpan: 1, LongitudeSpan: 1}))

	var se *ports.StatusError
	require.True(t, errors.As(err, &se), "want StatusError, got %v", err)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Equal(t, "boom", se.Body)
}

func TestClientListStoresMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = c.ListStores(context.Background(), domain.NewFetchQuery(domain.Viewport{Latitude: 1, Longitude: 1, LatitudeSpan: 1, LongitudeSpan: 1}))

	assert.True(t, errors.Is(err, ports.ErrMalformedResponse), "got %v", err)
}

func TestClientListStoresRejectsMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"storeName":"Nameless","lat":1,"lng":1}]`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = c.ListStores(context.Background(), domain.NewFetchQuery(domain.Viewport{Latitude: 1, Longitude: 1, LatitudeSpan: 1, LongitudeSpan: 1}))

	assert.ErrorIs(t, err, ports.ErrMalformedResponse)
}

func TestNewClientValidatesURL(t *testing.T) {
	_, err := NewClient("", time.Second)
	assert.Error(t, err)

	_, err = NewClient("ftp://example.com/address", time.Second)
	assert.Error(t, err)
}
