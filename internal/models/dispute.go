package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DisputeStatus string

const (
	DisputeOpen     DisputeStatus = "OPEN"
	DisputeResolved DisputeStatus = "RESOLVED"
	DisputeRejected DisputeStatus = "REJECTED"
)

func (s DisputeStatus) IsTerminal() bool {
	return s == DisputeResolved || s == DisputeRejected
}

type Dispute struct {
	ID          uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BookingID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"booking_id"`
	ReporterID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"reporter_id"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Status      DisputeStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	RefundAmount *float64   `gorm:"type:decimal(12,2)" json:"refund_amount,omitempty"`
	AdminNote    string     `gorm:"type:text" json:"admin_note"`
	ResolvedBy   *uuid.UUID `gorm:"type:uuid" json:"resolved_by,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Booking  *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	Reporter *User    `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
}

func (d *Dispute) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}
