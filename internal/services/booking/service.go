// Package booking runs the booking lifecycle between customers and providers.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/metrics"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/utils"
)

type Store interface {
	Create(ctx context.Context, b *models.Booking) error
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, f models.BookingFilter) ([]models.Booking, int64, error)
	// UpdateStatus is a compare-and-set on the current status; it returns
	// models.ErrStaleWrite when the row no longer has status from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.BookingStatus) error
	CountByStatus(ctx context.Context, f models.BookingFilter) (map[models.BookingStatus]int64, error)
	CompletedEarnings(ctx context.Context, providerID uuid.UUID) (float64, error)
}

type ServiceReader interface {
	GetActive(ctx context.Context, id uuid.UUID) (*models.Service, error)
	CountActiveByProvider(ctx context.Context, providerID uuid.UUID) (int64, error)
}

type RatingReader interface {
	RatingStats(ctx context.Context, providerID uuid.UUID) (models.RatingStats, error)
}

// Notifier pushes an event to the given users. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, userIDs []uuid.UUID, event string, payload any)
}

type Service struct {
	store    Store
	services ServiceReader
	ratings  RatingReader
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(store Store, services ServiceReader, ratings RatingReader, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		services: services,
		ratings:  ratings,
		notifier: notifier,
		log:      log.With().Str("component", "booking").Logger(),
		now:      time.Now,
	}
}

const dateLayout = "2006-01-02"

type CreateInput struct {
	ServiceID    uuid.UUID `json:"service_id" validate:"required"`
	BookingDate  string    `json:"booking_date" validate:"required"` // YYYY-MM-DD
	TimeSlot     string    `json:"time_slot" validate:"required,max=50"`
	Notes        string    `json:"notes" validate:"max=1000"`
	UrgencyLevel string    `json:"urgency_level"`
}

func (s *Service) Create(ctx context.Context, p models.Principal, in CreateInput) (*models.Booking, error) {
	if err := models.RequireRole(p, models.RoleCustomer, models.RoleAdmin); err != nil {
		return nil, err
	}
	in.TimeSlot = strings.TrimSpace(in.TimeSlot)
	in.Notes = strings.TrimSpace(in.Notes)
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	if in.ServiceID == uuid.Nil {
		return nil, models.Invalid("service_id", "is required")
	}
	date, err := time.Parse(dateLayout, strings.TrimSpace(in.BookingDate))
	if err != nil {
		return nil, models.Invalid("booking_date", "must be a date in YYYY-MM-DD format")
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	if date.Before(today) {
		return nil, models.Invalid("booking_date", "must be today or later")
	}
	urgency, ok := models.ParseUrgency(in.UrgencyLevel)
	if !ok {
		return nil, models.Invalid("urgency_level", "must be one of LOW, NORMAL, HIGH, URGENT")
	}

	svc, err := s.services.GetActive(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrServiceUnavailable
		}
		return nil, err
	}
	if svc.ProviderID == p.ID {
		return nil, models.ErrSelfBooking
	}

	b := &models.Booking{
		ServiceID:    svc.ID,
		CustomerID:   p.ID,
		ProviderID:   svc.ProviderID,
		BookingDate:  date,
		TimeSlot:     in.TimeSlot,
		Notes:        in.Notes,
		UrgencyLevel: urgency,
		Status:       models.BookingPending,
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, err
	}
	b.Service = svc
	metrics.BookingCreated()
	s.log.Info().Str("booking_id", b.ID.String()).Str("service_id", svc.ID.String()).Msg("booking created")
	s.notifier.Notify(ctx, []uuid.UUID{b.ProviderID}, "booking.created", b)
	return b, nil
}

// scope limits listings and counts to what the principal is a party to.
func scope(p models.Principal) models.BookingFilter {
	var f models.BookingFilter
	switch p.Role {
	case models.RoleCustomer:
		id := p.ID
		f.CustomerID = &id
	case models.RoleProvider:
		id := p.ID
		f.ProviderID = &id
	}
	return f
}

func (s *Service) List(ctx context.Context, p models.Principal, status string, page, size int) (models.PageResult[models.Booking], error) {
	f := scope(p)
	if strings.TrimSpace(status) != "" {
		st, ok := models.ParseBookingStatus(status)
		if !ok {
			return models.PageResult[models.Booking]{}, models.Invalid("status", "unknown booking status")
		}
		f.Status = &st
	}
	f.Page = models.NewPage(page, size)
	items, total, err := s.store.List(ctx, f)
	if err != nil {
		return models.PageResult[models.Booking]{}, err
	}
	return models.NewPageResult(items, f.Page, total), nil
}

func (s *Service) Get(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Booking, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && p.ID != b.CustomerID && p.ID != b.ProviderID {
		return nil, fmt.Errorf("%w: not a party to this booking", models.ErrForbidden)
	}
	return b, nil
}

// UpdateStatus is for the booking's provider (or an admin) and follows the
// booking state machine.
func (s *Service) UpdateStatus(ctx context.Context, p models.Principal, id uuid.UUID, status string) (*models.Booking, error) {
	next, ok := models.ParseBookingStatus(status)
	if !ok {
		return nil, models.Invalid("status", "must be one of PENDING, CONFIRMED, COMPLETED, CANCELLED")
	}
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && p.ID != b.ProviderID {
		return nil, fmt.Errorf("%w: only the provider can update this booking", models.ErrForbidden)
	}
	if !b.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, b.Status, next)
	}
	return s.transition(ctx, b, next)
}

// Cancel is for the booking's customer (or an admin). Cancelling twice is a no-op.
func (s *Service) Cancel(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Booking, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && p.ID != b.CustomerID {
		return nil, fmt.Errorf("%w: only the customer can cancel this booking", models.ErrForbidden)
	}
	switch b.Status {
	case models.BookingCompleted:
		return nil, fmt.Errorf("%w: completed bookings cannot be cancelled", models.ErrInvalidTransition)
	case models.BookingCancelled:
		return b, nil
	}
	return s.transition(ctx, b, models.BookingCancelled)
}

func (s *Service) transition(ctx context.Context, b *models.Booking, next models.BookingStatus) (*models.Booking, error) {
	prev := b.Status
	if err := s.store.UpdateStatus(ctx, b.ID, prev, next); err != nil {
		return nil, err
	}
	b.Status = next
	metrics.BookingTransition(string(prev), string(next))
	s.log.Info().Str("booking_id", b.ID.String()).Str("from", string(prev)).Str("to", string(next)).Msg("booking status changed")
	s.notifier.Notify(ctx, []uuid.UUID{b.CustomerID, b.ProviderID}, "booking.status_changed", map[string]any{
		"booking_id": b.ID,
		"from":       prev,
		"to":         next,
	})
	return b, nil
}
