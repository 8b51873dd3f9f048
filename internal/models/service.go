package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service is a listing published by a provider.
type Service struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index" json:"provider_id"`

	Title       string  `gorm:"type:varchar(100);not null" json:"title"`
	Category    string  `gorm:"type:varchar(100);not null;index" json:"category"`
	Subcategory string  `gorm:"type:varchar(100);index" json:"subcategory"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`

	Location  string   `gorm:"type:varchar(255)" json:"location"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// jadwal disimpan apa adanya, format ditentukan FE
	Availability datatypes.JSON `json:"availability"`
	Images       datatypes.JSON `json:"images"` // ["https://...", ...]

	IsActive bool `gorm:"not null;index" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Provider *User `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

func (s *Service) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}
