package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BookingID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"booking_id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index" json:"provider_id"`
	ServiceID  uuid.UUID `gorm:"type:uuid;index" json:"service_id"`

	Rating  int    `gorm:"not null" json:"rating"` // 1-5
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Customer *User `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

type RatingStats struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int64   `json:"total_reviews"`
}
