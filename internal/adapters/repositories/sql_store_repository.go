package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"store-locator/internal/domain"
	"store-locator/internal/platform/obs"
)

// SQL-backed implementation of the StoreRepository port, for SQLite or
// Postgres depending on Dialect.
type SQLStoreRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLStoreRepository(db *sql.DB, d Dialect) *SQLStoreRepository {
	return &SQLStoreRepository{DB: db, Dialect: d}
}

// Return stores inside bounds ordered by id, at most limit rows.
func (s *SQLStoreRepository) StoresInBounds(
	ctx context.Context,
	bounds domain.Bounds,
	limit int,
) (_ []domain.Store, err error) {
	defer obs.Time(ctx, "stores."+s.Dialect.String()+".StoresInBounds")(&err)

	if s.DB == nil {
		return nil, errors.New("sql store repository: DB is nil")
	}
	if limit < 1 {
		return nil, fmt.Errorf("stores in bounds: invalid limit %d", limit)
	}

	d := s.Dialect
	query := fmt.Sprintf(`
	SELECT
		store_id,
		store_name,
		address1,
		address2,
		lat,
		lng,
		minimum_purchase,
		charge_flat,
		charge_percent
	FROM stores
	WHERE lat BETWEEN %s AND %s
		AND lng BETWEEN %s AND %s
	ORDER BY store_id
	LIMIT %s;
	`, d.bind(1), d.bind(2), d.bind(3), d.bind(4), d.bind(5))

	rows, err := s.DB.QueryContext(ctx, query, bounds.MinLat, bounds.MaxLat, bounds.MinLng, bounds.MaxLng, limit)
	if err != nil {
		return nil, fmt.Errorf("stores in bounds: query stores table: %w", err)
	}
	defer rows.Close()

	stores := make([]domain.Store, 0, 64)
	for rows.Next() {
		var st domain.Store
		var addr2 sql.NullString
		var minPurchase, flat, percent sql.NullFloat64
		err := rows.Scan(
			&st.ID, &st.Name, &st.Address1, &addr2, &st.Lat, &st.Lng,
			&minPurchase, &flat, &percent,
		)
		if err != nil {
			return nil, fmt.Errorf("stores in bounds: scan row: %w", err)
		}
		if addr2.Valid {
			st.Address2 = &addr2.String
		}
		st.MinimumPurchase = nullableFloat(minPurchase)
		st.FlatFee = nullableFloat(flat)
		st.PercentFee = nullableFloat(percent)
		stores = append(stores, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stores in bounds: row iteration: %w", err)
	}

	return stores, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
