package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCompleted, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch st := BookingStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return st, true
	}
	return "", false
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, st := range bookingTransitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

type Urgency string

const (
	UrgencyLow    Urgency = "LOW"
	UrgencyNormal Urgency = "NORMAL"
	UrgencyHigh   Urgency = "HIGH"
	UrgencyUrgent Urgency = "URGENT"
)

func ParseUrgency(s string) (Urgency, bool) {
	if strings.TrimSpace(s) == "" {
		return UrgencyNormal, true
	}
	switch u := Urgency(strings.ToUpper(strings.TrimSpace(s))); u {
	case UrgencyLow, UrgencyNormal, UrgencyHigh, UrgencyUrgent:
		return u, true
	}
	return "", false
}

type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ServiceID  uuid.UUID `gorm:"type:uuid;not null;index" json:"service_id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	// disalin dari service saat booking dibuat
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index" json:"provider_id"`

	BookingDate  time.Time     `gorm:"type:date;not null" json:"booking_date"`
	TimeSlot     string        `gorm:"type:varchar(50);not null" json:"time_slot"`
	Notes        string        `gorm:"type:text" json:"notes"`
	UrgencyLevel Urgency       `gorm:"type:varchar(20);not null;default:'NORMAL'" json:"urgency_level"`
	Status       BookingStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Service  *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Customer *User    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Provider *User    `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
