package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

type BookingStore struct {
	db *gorm.DB
}

func NewBookingStore(db *gorm.DB) *BookingStore { return &BookingStore{db: db} }

func (s *BookingStore) Create(ctx context.Context, b *models.Booking) error {
	return s.db.WithContext(ctx).Omit("Service", "Customer", "Provider").Create(b).Error
}

func (s *BookingStore) withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Service", unscoped).
		Preload("Customer", unscoped).
		Preload("Provider", unscoped)
}

func (s *BookingStore) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	if err := s.withRelations(s.db.WithContext(ctx)).First(&b, "id = ?", id).Error; err != nil {
		return nil, notFound(err, models.ErrBookingNotFound)
	}
	return &b, nil
}

func filterBookings(f models.BookingFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.CustomerID != nil {
			db = db.Where("customer_id = ?", *f.CustomerID)
		}
		if f.ProviderID != nil {
			db = db.Where("provider_id = ?", *f.ProviderID)
		}
		if f.Status != nil {
			db = db.Where("status = ?", *f.Status)
		}
		return db
	}
}

func (s *BookingStore) List(ctx context.Context, f models.BookingFilter) ([]models.Booking, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Booking{}).Scopes(filterBookings(f)).Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []models.Booking
	err := s.withRelations(q).Order("created_at DESC").Scopes(paginate(f.Page)).Find(&out).Error
	return out, total, err
}

// ConfirmedOn returns the CONFIRMED bookings scheduled for day's date.
func (s *BookingStore) ConfirmedOn(ctx context.Context, day time.Time) ([]models.Booking, error) {
	var out []models.Booking
	err := s.withRelations(s.db.WithContext(ctx)).
		Where("status = ? AND booking_date = ?", models.BookingConfirmed, day.Format("2006-01-02")).
		Order("time_slot").
		Find(&out).Error
	return out, err
}

func (s *BookingStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.BookingStatus) error {
	res := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrStaleWrite
	}
	return nil
}

func (s *BookingStore) CountByStatus(ctx context.Context, f models.BookingFilter) (map[models.BookingStatus]int64, error) {
	type row struct {
		Status models.BookingStatus
		Total  int64
	}
	f.Status = nil
	var rows []row
	err := s.db.WithContext(ctx).Model(&models.Booking{}).
		Scopes(filterBookings(f)).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[models.BookingStatus]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Total
	}
	return out, nil
}

// CompletedEarnings sums the listing price over the provider's completed bookings.
func (s *BookingStore) CompletedEarnings(ctx context.Context, providerID uuid.UUID) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).
		Table("bookings b").
		Joins("JOIN services s ON s.id = b.service_id").
		Where("b.provider_id = ? AND b.status = ?", providerID, models.BookingCompleted).
		Select("COALESCE(SUM(s.price), 0)").
		Scan(&total).Error
	return total, err
}
