package booking

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Create(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockStore) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

func (m *mockStore) List(ctx context.Context, f models.BookingFilter) ([]models.Booking, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]models.Booking)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.BookingStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

func (m *mockStore) CountByStatus(ctx context.Context, f models.BookingFilter) (map[models.BookingStatus]int64, error) {
	args := m.Called(ctx, f)
	out, _ := args.Get(0).(map[models.BookingStatus]int64)
	return out, args.Error(1)
}

func (m *mockStore) CompletedEarnings(ctx context.Context, providerID uuid.UUID) (float64, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).(float64), args.Error(1)
}

type mockServices struct{ mock.Mock }

func (m *mockServices) GetActive(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.Service)
	return s, args.Error(1)
}

func (m *mockServices) CountActiveByProvider(ctx context.Context, providerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).(int64), args.Error(1)
}

type mockRatings struct{ mock.Mock }

func (m *mockRatings) RatingStats(ctx context.Context, providerID uuid.UUID) (models.RatingStats, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).(models.RatingStats), args.Error(1)
}

type notification struct {
	users []uuid.UUID
	event string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (r *recordingNotifier) Notify(_ context.Context, users []uuid.UUID, event string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, notification{users: users, event: event})
}
