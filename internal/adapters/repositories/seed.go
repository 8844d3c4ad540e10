package repositories

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"store-locator/internal/domain"
	"strings"
)

// StoreSeed is one entry of a seed file. Keys match the listing API.
type StoreSeed struct {
	ID              json.RawMessage `json:"_id"`
	StoreName       string          `json:"storeName"`
	Address1        string          `json:"address1"`
	Address2        *string         `json:"address2"`
	Lat             float64         `json:"lat"`
	Lng             float64         `json:"lng"`
	MinimumPurchase *float64        `json:"minimumPurchase"`
	ChargeFlat      *float64        `json:"chargeFlat"`
	ChargePercent   *float64        `json:"chargePercent"`
}

// LoadSeed reads and validates stores from a JSON seed file.
func LoadSeed(jsonPath string) ([]domain.Store, error) {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load seed: read %q: %w", jsonPath, err)
	}
	return parseSeed(raw)
}

func parseSeed(raw []byte) ([]domain.Store, error) {
	var data []StoreSeed
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("load seed: parse json: %w", err)
	}

	stores := make([]domain.Store, 0, len(data))
	for i, item := range data {
		id := seedID(item.ID)
		if id == "" {
			return nil, fmt.Errorf("load seed: item at index %d: _id is required", i+1)
		}

		name := strings.TrimSpace(item.StoreName)
		if name == "" {
			return nil, fmt.Errorf("load seed: item %q: storeName cannot be empty", id)
		}

		c := domain.Coordinates{Lat: item.Lat, Lon: item.Lng}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("load seed: item %q: %w", id, err)
		}

		stores = append(stores, domain.Store{
			ID:              id,
			Name:            name,
			Address1:        strings.TrimSpace(item.Address1),
			Address2:        item.Address2,
			Lat:             item.Lat,
			Lng:             item.Lng,
			MinimumPurchase: item.MinimumPurchase,
			FlatFee:         item.ChargeFlat,
			PercentFee:      item.ChargePercent,
		})
	}

	return stores, nil
}

// seedID accepts string and numeric ids.
func seedID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return string(raw)
}

// Populate the stores table from a JSON seed file. Existing rows with the
// same id are replaced. Returns the number of stores written.
func SeedFromJSON(db *sql.DB, d Dialect, jsonPath string) (int, error) {
	stores, err := LoadSeed(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed stores: %w", err)
	}
	if err := UpsertStores(db, d, stores); err != nil {
		return 0, fmt.Errorf("seed stores: %w", err)
	}
	return len(stores), nil
}

// UpsertStores writes stores in one transaction.
func UpsertStores(db *sql.DB, d Dialect, stores []domain.Store) error {
	if db == nil {
		return fmt.Errorf("upsert stores: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("upsert stores: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`
	INSERT INTO stores (
		store_id,
		store_name,
		address1,
		address2,
		lat,
		lng,
		minimum_purchase,
		charge_flat,
		charge_percent
	)
	VALUES (%s)
	ON CONFLICT (store_id) DO UPDATE
	SET store_name = excluded.store_name,
		address1 = excluded.address1,
		address2 = excluded.address2,
		lat = excluded.lat,
		lng = excluded.lng,
		minimum_purchase = excluded.minimum_purchase,
		charge_flat = excluded.charge_flat,
		charge_percent = excluded.charge_percent;
	`, d.placeholders(1, 9))

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("upsert stores: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range stores {
		_, err := stmt.Exec(
			s.ID, s.Name, s.Address1, s.Address2, s.Lat, s.Lng,
			s.MinimumPurchase, s.FlatFee, s.PercentFee,
		)
		if err != nil {
			return fmt.Errorf("upsert stores: insert store_id=%s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert stores: commit tx: %w", err)
	}

	return nil
}
