package domain

import (
	"fmt"
	"strconv"
)

// Store is a record returned by the remote listing service.
// ID is the stable key used when rendering markers. Fee fields are
// independently optional; nil means the store does not charge that fee.
type Store struct {
	ID              string
	Name            string
	Address1        string
	Address2        *string
	Lat             float64
	Lng             float64
	MinimumPurchase *float64
	FlatFee         *float64
	PercentFee      *float64
}

func (s Store) Coordinates() Coordinates {
	return Coordinates{Lat: s.Lat, Lon: s.Lng}
}

// AddressLine joins address1 and, when present, address2.
func (s Store) AddressLine() string {
	if s.Address2 != nil && *s.Address2 != "" {
		return s.Address1 + ", " + *s.Address2
	}
	return s.Address1
}

// FeeSummary picks one fee line by priority: minimum purchase, flat fee,
// percentage fee, otherwise "No fee". A zero amount counts as not charged.
func (s Store) FeeSummary() string {
	switch {
	case charged(s.MinimumPurchase):
		return fmt.Sprintf("Minimum purchase: $%s", formatAmount(*s.MinimumPurchase))
	case charged(s.FlatFee):
		return fmt.Sprintf("Flat fee: $%s", formatAmount(*s.FlatFee))
	case charged(s.PercentFee):
		return fmt.Sprintf("Percentage fee: %s%%", formatAmount(*s.PercentFee))
	default:
		return "No fee"
	}
}

func charged(v *float64) bool {
	return v != nil && *v != 0
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Marker is the render-ready form of a Store: one pin plus its callout.
type Marker struct {
	ID       string
	Position Coordinates
	Title    string
	Address  string
	Fee      string
}

func NewMarker(s Store) Marker {
	return Marker{
		ID:       s.ID,
		Position: s.Coordinates(),
		Title:    s.Name,
		Address:  s.AddressLine(),
		Fee:      s.FeeSummary(),
	}
}

// Markers converts a store collection, preserving order.
func Markers(stores []Store) []Marker {
	out := make([]Marker, 0, len(stores))
	for _, s := range stores {
		out = append(out, NewMarker(s))
	}
	return out
}
