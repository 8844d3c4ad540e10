package storeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"store-locator/internal/domain"
	"store-locator/internal/platform/obs"
	"store-locator/internal/ports"
	"strconv"
	"time"
)

var _ ports.StoreLister = (*Client)(nil)

// Client implements StoreLister against the remote listing endpoint.
//
// Requests are single-shot: there is no retry, a failed fetch is only
// repeated when the user confirms again. The client is safe for
// concurrent use.
type Client struct {
	session *http.Client
	baseURL *url.URL
}

// NewClient builds a client for the listing endpoint. timeout bounds each
// request end to end; zero disables the client-side limit.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("store api base url is empty")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse store api url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("store api url %q must be http or https", baseURL)
	}

	return &Client{
		session: &http.Client{Timeout: timeout},
		baseURL: u,
	}, nil
}

// ListStores issues GET <base>?lat=&lng=&latRange=&lngRange= and decodes
// the JSON array response.
func (c *Client) ListStores(ctx context.Context, query domain.FetchQuery) (_ []domain.Store, err error) {
	defer obs.Time(ctx, "storeapi.ListStores")(&err)

	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint(query))
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("list stores request: %w", err)
	}
	defer resp.Body.Close()

	var records []storeRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode store list: %v: %w", err, ports.ErrMalformedResponse)
	}

	stores := make([]domain.Store, 0, len(records))
	for i, r := range records {
		store := r.toDomain()
		if store.ID == "" {
			return nil, fmt.Errorf("store at index %d has no id: %w", i, ports.ErrMalformedResponse)
		}
		stores = append(stores, store)
	}

	return stores, nil
}

func (c *Client) endpoint(query domain.FetchQuery) string {
	vp := query.Viewport()

	u := *c.baseURL
	q := u.Query()
	q.Set("lat", formatFloat(vp.Latitude))
	q.Set("lng", formatFloat(vp.Longitude))
	q.Set("latRange", formatFloat(vp.LatitudeSpan))
	q.Set("lngRange", formatFloat(vp.LongitudeSpan))
	u.RawQuery = q.Encode()

	return u.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
