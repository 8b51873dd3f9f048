package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

func TestService_AdminOps_RequireAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := models.Principal{ID: uuid.New(), Role: models.RoleProvider}

	_, err := f.svc.PendingProviders(ctx, p)
	assert.ErrorIs(t, err, models.ErrForbidden)
	_, err = f.svc.VerifyProvider(ctx, p, uuid.New())
	assert.ErrorIs(t, err, models.ErrForbidden)
	_, err = f.svc.ListUsers(ctx, p, false)
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.ErrorIs(t, f.svc.DeleteUser(ctx, p, uuid.New()), models.ErrForbidden)
}

func TestService_RejectProvider_BumpsVersion(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin := models.Principal{ID: uuid.New(), Role: models.RoleAdmin}
	u := storedUser(t, models.RoleProvider, true, "secret1")

	f.users.On("GetByID", ctx, u.ID).Return(u, nil)
	f.users.On("Save", ctx, u).Return(nil)
	f.mail.On("Send", ctx, u.Email, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	got, err := f.svc.RejectProvider(ctx, admin, u.ID, " document unreadable ")
	require.NoError(t, err)
	assert.False(t, got.IsVerified)
	assert.Equal(t, "document unreadable", got.VerificationRejectionReason)
	assert.Equal(t, 1, got.TokenVersion)
}

func TestService_VerifyProvider_NotAProvider(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin := models.Principal{ID: uuid.New(), Role: models.RoleAdmin}
	u := storedUser(t, models.RoleCustomer, true, "secret1")
	f.users.On("GetByID", ctx, u.ID).Return(u, nil)

	_, err := f.svc.VerifyProvider(ctx, admin, u.ID)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestService_DeleteUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin := models.Principal{ID: uuid.New(), Role: models.RoleAdmin}

	assert.ErrorIs(t, f.svc.DeleteUser(ctx, admin, admin.ID), models.ErrForbidden)

	target := uuid.New()
	f.users.On("BumpTokenVersion", ctx, target).Return(nil)
	f.users.On("Delete", ctx, target).Return(nil)
	require.NoError(t, f.svc.DeleteUser(ctx, admin, target))
	f.users.AssertExpectations(t)

	missing := uuid.New()
	f.users.On("BumpTokenVersion", ctx, missing).Return(nil)
	f.users.On("Delete", ctx, missing).Return(models.ErrUserNotFound)
	assert.ErrorIs(t, f.svc.DeleteUser(ctx, admin, missing), models.ErrNotFound)
}
