package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Search(ctx context.Context, f models.ServiceFilter) ([]models.Service, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]models.Service)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockStore) GetActive(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.Service)
	return s, args.Error(1)
}

func (m *mockStore) Get(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.Service)
	return s, args.Error(1)
}

func (m *mockStore) Create(ctx context.Context, s *models.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockStore) Save(ctx context.Context, s *models.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) ListByProvider(ctx context.Context, providerID uuid.UUID, p models.Page) ([]models.Service, int64, error) {
	args := m.Called(ctx, providerID, p)
	items, _ := args.Get(0).([]models.Service)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockStore) ListAll(ctx context.Context, includeDeleted bool) ([]models.Service, error) {
	args := m.Called(ctx, includeDeleted)
	items, _ := args.Get(0).([]models.Service)
	return items, args.Error(1)
}

func (m *mockStore) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

func (m *mockStore) Subcategories(ctx context.Context, category string) ([]string, error) {
	args := m.Called(ctx, category)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

func (m *mockStore) InBox(ctx context.Context, box models.GeoBox) ([]models.Service, error) {
	args := m.Called(ctx, box)
	items, _ := args.Get(0).([]models.Service)
	return items, args.Error(1)
}
