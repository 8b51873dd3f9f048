package dispute

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Create(ctx context.Context, d *models.Dispute) error {
	return m.Called(ctx, d).Error(0)
}

func (m *mockStore) Get(ctx context.Context, id uuid.UUID) (*models.Dispute, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*models.Dispute)
	return d, args.Error(1)
}

func (m *mockStore) List(ctx context.Context, status *models.DisputeStatus) ([]models.Dispute, error) {
	args := m.Called(ctx, status)
	out, _ := args.Get(0).([]models.Dispute)
	return out, args.Error(1)
}

func (m *mockStore) Close(ctx context.Context, d *models.Dispute) error {
	return m.Called(ctx, d).Error(0)
}

type mockBookings struct{ mock.Mock }

func (m *mockBookings) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type nopNotifier struct{ events []string }

func (n *nopNotifier) Notify(_ context.Context, _ []uuid.UUID, event string, _ any) {
	n.events = append(n.events, event)
}
