package storeapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"store-locator/internal/domain"
)

// storeRecord is the wire shape of one element of the listing response.
// The listing service keys (_id, storeName, chargeFlat, chargePercent) are
// preferred; the plain Store keys (id, name, flatFee, percentFee) are
// accepted when the former are absent.
type storeRecord struct {
	ID              recordID `json:"_id"`
	StoreName       string   `json:"storeName"`
	Address1        string   `json:"address1"`
	Address2        *string  `json:"address2,omitempty"`
	Lat             float64  `json:"lat"`
	Lng             float64  `json:"lng"`
	MinimumPurchase *float64 `json:"minimumPurchase,omitempty"`
	ChargeFlat      *float64 `json:"chargeFlat,omitempty"`
	ChargePercent   *float64 `json:"chargePercent,omitempty"`

	PlainID    recordID `json:"id"`
	Name       string   `json:"name"`
	FlatFee    *float64 `json:"flatFee,omitempty"`
	PercentFee *float64 `json:"percentFee,omitempty"`
}

func (r storeRecord) toDomain() domain.Store {
	return domain.Store{
		ID:              string(firstNonEmpty(r.ID, r.PlainID)),
		Name:            firstNonEmpty(r.StoreName, r.Name),
		Address1:        r.Address1,
		Address2:        r.Address2,
		Lat:             r.Lat,
		Lng:             r.Lng,
		MinimumPurchase: r.MinimumPurchase,
		FlatFee:         firstNonNil(r.ChargeFlat, r.FlatFee),
		PercentFee:      firstNonNil(r.ChargePercent, r.PercentFee),
	}
}

func firstNonEmpty[T ~string](a, b T) T {
	if a != "" {
		return a
	}
	return b
}

func firstNonNil(a, b *float64) *float64 {
	if a != nil {
		return a
	}
	return b
}

// recordID accepts both string and numeric ids.
type recordID string

func (id *recordID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = recordID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("store id must be a string or number: %w", err)
	}
	*id = recordID(n.String())
	return nil
}
