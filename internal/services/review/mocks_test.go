package review

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Create(ctx context.Context, r *models.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockStore) Get(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*models.Review)
	return r, args.Error(1)
}

func (m *mockStore) GetByBooking(ctx context.Context, bookingID uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, bookingID)
	r, _ := args.Get(0).(*models.Review)
	return r, args.Error(1)
}

func (m *mockStore) Save(ctx context.Context, r *models.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) ListByProvider(ctx context.Context, providerID uuid.UUID, p models.Page) ([]models.Review, int64, error) {
	args := m.Called(ctx, providerID, p)
	out, _ := args.Get(0).([]models.Review)
	return out, args.Get(1).(int64), args.Error(2)
}

func (m *mockStore) ListByService(ctx context.Context, serviceID uuid.UUID, p models.Page) ([]models.Review, int64, error) {
	args := m.Called(ctx, serviceID, p)
	out, _ := args.Get(0).([]models.Review)
	return out, args.Get(1).(int64), args.Error(2)
}

func (m *mockStore) ListByCustomer(ctx context.Context, customerID uuid.UUID, p models.Page) ([]models.Review, int64, error) {
	args := m.Called(ctx, customerID, p)
	out, _ := args.Get(0).([]models.Review)
	return out, args.Get(1).(int64), args.Error(2)
}

func (m *mockStore) RatingStats(ctx context.Context, providerID uuid.UUID) (models.RatingStats, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).(models.RatingStats), args.Error(1)
}

type mockBookings struct{ mock.Mock }

func (m *mockBookings) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}
