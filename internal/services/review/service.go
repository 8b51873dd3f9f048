// Package review manages ratings left by customers on completed bookings.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/utils"
)

type Store interface {
	// Create returns models.ErrDuplicateReview when the booking already has one.
	Create(ctx context.Context, r *models.Review) error
	Get(ctx context.Context, id uuid.UUID) (*models.Review, error)
	GetByBooking(ctx context.Context, bookingID uuid.UUID) (*models.Review, error)
	Save(ctx context.Context, r *models.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProvider(ctx context.Context, providerID uuid.UUID, p models.Page) ([]models.Review, int64, error)
	ListByService(ctx context.Context, serviceID uuid.UUID, p models.Page) ([]models.Review, int64, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, p models.Page) ([]models.Review, int64, error)
	RatingStats(ctx context.Context, providerID uuid.UUID) (models.RatingStats, error)
}

type BookingReader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
}

type Service struct {
	store    Store
	bookings BookingReader
	log      zerolog.Logger
}

func NewService(store Store, bookings BookingReader, log zerolog.Logger) *Service {
	return &Service{store: store, bookings: bookings, log: log.With().Str("component", "review").Logger()}
}

type Input struct {
	BookingID uuid.UUID `json:"booking_id"`
	Rating    int       `json:"rating" validate:"min=1,max=5"`
	Comment   string    `json:"comment" validate:"max=1000"`
}

func (s *Service) Create(ctx context.Context, p models.Principal, in Input) (*models.Review, error) {
	in.Comment = strings.TrimSpace(in.Comment)
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	if in.BookingID == uuid.Nil {
		return nil, models.Invalid("booking_id", "is required")
	}

	b, err := s.bookings.Get(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != p.ID {
		return nil, fmt.Errorf("%w: only the booking's customer can review it", models.ErrForbidden)
	}
	if b.Status != models.BookingCompleted {
		return nil, models.ErrNotCompleted
	}
	if _, err := s.store.GetByBooking(ctx, b.ID); err == nil {
		return nil, models.ErrDuplicateReview
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	r := &models.Review{
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		ProviderID: b.ProviderID,
		ServiceID:  b.ServiceID,
		Rating:     in.Rating,
		Comment:    in.Comment,
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	s.log.Info().Str("review_id", r.ID.String()).Str("booking_id", b.ID.String()).Int("rating", r.Rating).Msg("review created")
	return r, nil
}

func (s *Service) authored(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Review, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Owns(r.CustomerID) {
		return nil, fmt.Errorf("%w: not the author of this review", models.ErrForbidden)
	}
	return r, nil
}

type UpdateInput struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}

func (s *Service) Update(ctx context.Context, p models.Principal, id uuid.UUID, in UpdateInput) (*models.Review, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	r, err := s.authored(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if in.Rating != nil {
		r.Rating = *in.Rating
	}
	if in.Comment != nil {
		r.Comment = strings.TrimSpace(*in.Comment)
	}
	if err := s.store.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, p models.Principal, id uuid.UUID) error {
	if _, err := s.authored(ctx, p, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *Service) ByProvider(ctx context.Context, providerID uuid.UUID, page, size int) (models.PageResult[models.Review], error) {
	pg := models.NewPage(page, size)
	items, total, err := s.store.ListByProvider(ctx, providerID, pg)
	if err != nil {
		return models.PageResult[models.Review]{}, err
	}
	return models.NewPageResult(items, pg, total), nil
}

func (s *Service) ByService(ctx context.Context, serviceID uuid.UUID, page, size int) (models.PageResult[models.Review], error) {
	pg := models.NewPage(page, size)
	items, total, err := s.store.ListByService(ctx, serviceID, pg)
	if err != nil {
		return models.PageResult[models.Review]{}, err
	}
	return models.NewPageResult(items, pg, total), nil
}

func (s *Service) Mine(ctx context.Context, p models.Principal, page, size int) (models.PageResult[models.Review], error) {
	pg := models.NewPage(page, size)
	items, total, err := s.store.ListByCustomer(ctx, p.ID, pg)
	if err != nil {
		return models.PageResult[models.Review]{}, err
	}
	return models.NewPageResult(items, pg, total), nil
}

// ForBooking is visible to both parties of the booking and admins.
func (s *Service) ForBooking(ctx context.Context, p models.Principal, bookingID uuid.UUID) (*models.Review, error) {
	b, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && p.ID != b.CustomerID && p.ID != b.ProviderID {
		return nil, fmt.Errorf("%w: not a party to this booking", models.ErrForbidden)
	}
	return s.store.GetByBooking(ctx, bookingID)
}

// AverageRating is 0 when the provider has no reviews.
func (s *Service) AverageRating(ctx context.Context, providerID uuid.UUID) (float64, error) {
	st, err := s.store.RatingStats(ctx, providerID)
	if err != nil {
		return 0, err
	}
	return st.AverageRating, nil
}

func (s *Service) ProviderStats(ctx context.Context, providerID uuid.UUID) (models.RatingStats, error) {
	return s.store.RatingStats(ctx, providerID)
}
