package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

type ReviewStore struct {
	db *gorm.DB
}

func NewReviewStore(db *gorm.DB) *ReviewStore { return &ReviewStore{db: db} }

func (s *ReviewStore) Create(ctx context.Context, r *models.Review) error {
	err := s.db.WithContext(ctx).Omit("Customer").Create(r).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrDuplicateReview
	}
	return err
}

func (s *ReviewStore) Get(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var r models.Review
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, notFound(err, models.ErrReviewNotFound)
	}
	return &r, nil
}

func (s *ReviewStore) GetByBooking(ctx context.Context, bookingID uuid.UUID) (*models.Review, error) {
	var r models.Review
	err := s.db.WithContext(ctx).Preload("Customer", unscoped).First(&r, "booking_id = ?", bookingID).Error
	if err != nil {
		return nil, notFound(err, models.ErrReviewNotFound)
	}
	return &r, nil
}

func (s *ReviewStore) Save(ctx context.Context, r *models.Review) error {
	return s.db.WithContext(ctx).Omit("Customer").Save(r).Error
}

func (s *ReviewStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrReviewNotFound
	}
	return nil
}

func (s *ReviewStore) listBy(ctx context.Context, column string, id uuid.UUID, p models.Page) ([]models.Review, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Review{}).Where(column+" = ?", id).Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []models.Review
	err := q.Preload("Customer", unscoped).Order("created_at DESC").Scopes(paginate(p)).Find(&out).Error
	return out, total, err
}

func (s *ReviewStore) ListByProvider(ctx context.Context, providerID uuid.UUID, p models.Page) ([]models.Review, int64, error) {
	return s.listBy(ctx, "provider_id", providerID, p)
}

func (s *ReviewStore) ListByService(ctx context.Context, serviceID uuid.UUID, p models.Page) ([]models.Review, int64, error) {
	return s.listBy(ctx, "service_id", serviceID, p)
}

func (s *ReviewStore) ListByCustomer(ctx context.Context, customerID uuid.UUID, p models.Page) ([]models.Review, int64, error) {
	return s.listBy(ctx, "customer_id", customerID, p)
}

func (s *ReviewStore) RatingStats(ctx context.Context, providerID uuid.UUID) (models.RatingStats, error) {
	var st models.RatingStats
	err := s.db.WithContext(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS total_reviews").
		Where("provider_id = ?", providerID).
		Scan(&st).Error
	return st, err
}
