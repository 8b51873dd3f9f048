package models

import "github.com/google/uuid"

// ServiceFilter drives the public catalog search. Empty fields are ignored.
type ServiceFilter struct {
	Category    string
	Subcategory string
	Location    string
	Keyword     string
	SortBy      string // created_at | price | title
	SortDesc    bool
	Page        Page
}

// BookingFilter scopes a booking listing. Nil ids mean "any".
type BookingFilter struct {
	CustomerID *uuid.UUID
	ProviderID *uuid.UUID
	Status     *BookingStatus
	Page       Page
}

type GeoBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

func (b GeoBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}
