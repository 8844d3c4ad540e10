package dto

import "store-locator/internal/domain"

// StoreResponse is one element of the GET /address response array.
// Fee fields are omitted when the store does not charge them.
type StoreResponse struct {
	ID              string   `json:"_id"`
	StoreName       string   `json:"storeName"`
	Address1        string   `json:"address1"`
	Address2        *string  `json:"address2,omitempty"`
	Lat             float64  `json:"lat"`
	Lng             float64  `json:"lng"`
	MinimumPurchase *float64 `json:"minimumPurchase,omitempty"`
	ChargeFlat      *float64 `json:"chargeFlat,omitempty"`
	ChargePercent   *float64 `json:"chargePercent,omitempty"`
}

func NewStoreResponse(s domain.Store) StoreResponse {
	return StoreResponse{
		ID:              s.ID,
		StoreName:       s.Name,
		Address1:        s.Address1,
		Address2:        s.Address2,
		Lat:             s.Lat,
		Lng:             s.Lng,
		MinimumPurchase: s.MinimumPurchase,
		ChargeFlat:      s.FlatFee,
		ChargePercent:   s.PercentFee,
	}
}
