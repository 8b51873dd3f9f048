package booking

import (
	"context"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

type DashboardStats struct {
	TotalBookings     int64 `json:"total_bookings"`
	PendingBookings   int64 `json:"pending_bookings"`
	ConfirmedBookings int64 `json:"confirmed_bookings"`
	CompletedBookings int64 `json:"completed_bookings"`
	CancelledBookings int64 `json:"cancelled_bookings"`
	ActiveBookings    int64 `json:"active_bookings"`

	// provider only
	TotalEarnings *float64 `json:"total_earnings,omitempty"`
	AvgRating     *float64 `json:"avg_rating,omitempty"`
	TotalReviews  *int64   `json:"total_reviews,omitempty"`
	TotalServices *int64   `json:"total_services,omitempty"`
}

func (s *Service) DashboardStats(ctx context.Context, p models.Principal) (*DashboardStats, error) {
	counts, err := s.store.CountByStatus(ctx, scope(p))
	if err != nil {
		return nil, err
	}
	st := &DashboardStats{
		PendingBookings:   counts[models.BookingPending],
		ConfirmedBookings: counts[models.BookingConfirmed],
		CompletedBookings: counts[models.BookingCompleted],
		CancelledBookings: counts[models.BookingCancelled],
	}
	for _, n := range counts {
		st.TotalBookings += n
	}
	st.ActiveBookings = st.PendingBookings + st.ConfirmedBookings

	if p.Role != models.RoleProvider {
		return st, nil
	}

	earnings, err := s.store.CompletedEarnings(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	rating, err := s.ratings.RatingStats(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	services, err := s.services.CountActiveByProvider(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	st.TotalEarnings = &earnings
	st.AvgRating = &rating.AverageRating
	st.TotalReviews = &rating.TotalReviews
	st.TotalServices = &services
	return st, nil
}
