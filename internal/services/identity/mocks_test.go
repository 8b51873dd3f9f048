package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Create(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserStore) Save(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserStore) BumpTokenVersion(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserStore) ListPendingProviders(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	us, _ := args.Get(0).([]models.User)
	return us, args.Error(1)
}

func (m *mockUserStore) List(ctx context.Context, includeDeleted bool) ([]models.User, error) {
	args := m.Called(ctx, includeDeleted)
	us, _ := args.Get(0).([]models.User)
	return us, args.Error(1)
}

func (m *mockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockDenyList struct{ mock.Mock }

func (m *mockDenyList) Deny(ctx context.Context, jti string, ttl time.Duration) error {
	return m.Called(ctx, jti, ttl).Error(0)
}

func (m *mockDenyList) IsDenied(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

type mockResetStore struct{ mock.Mock }

func (m *mockResetStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	return m.Called(ctx, email, code, ttl).Error(0)
}

func (m *mockResetStore) Get(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *mockResetStore) Delete(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}
