package ports

import (
	"context"
	"store-locator/internal/domain"
)

// Port: a boundary for reading Store records from a data source.
type StoreRepository interface {
	// Retrieve stores located inside the bounds, at most limit records.
	StoresInBounds(ctx context.Context, bounds domain.Bounds, limit int) ([]domain.Store, error)
}
