package ports

import (
	"context"
	"errors"
	"fmt"
	"store-locator/internal/domain"
)

// Contract for the remote store-listing service.
type StoreLister interface {
	// Return stores visible in the queried viewport.
	ListStores(ctx context.Context, query domain.FetchQuery) ([]domain.Store, error)
}

// ErrMalformedResponse marks a listing response that is not a store list.
var ErrMalformedResponse = errors.New("malformed store list response")

// StatusError is returned for non-2xx responses from the listing service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}
