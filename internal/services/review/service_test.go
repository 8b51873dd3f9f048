package review

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

func newTestService() (*Service, *mockStore, *mockBookings) {
	st, bk := &mockStore{}, &mockBookings{}
	return NewService(st, bk, zerolog.Nop()), st, bk
}

func completedBooking() *models.Booking {
	return &models.Booking{
		ID:         uuid.New(),
		ServiceID:  uuid.New(),
		CustomerID: uuid.New(),
		ProviderID: uuid.New(),
		Status:     models.BookingCompleted,
	}
}

func TestReviewService_Create_OncePerBooking(t *testing.T) {
	ctx := context.Background()
	svc, st, bk := newTestService()
	b := completedBooking()
	customer := models.Principal{ID: b.CustomerID, Role: models.RoleCustomer}

	bk.On("Get", ctx, b.ID).Return(b, nil)
	st.On("GetByBooking", ctx, b.ID).Return(nil, models.ErrReviewNotFound).Once()
	st.On("Create", ctx, mock.AnythingOfType("*models.Review")).Return(nil).Once()

	r, err := svc.Create(ctx, customer, Input{BookingID: b.ID, Rating: 5, Comment: " great "})
	require.NoError(t, err)
	assert.Equal(t, 5, r.Rating)
	assert.Equal(t, "great", r.Comment)
	assert.Equal(t, b.ProviderID, r.ProviderID)
	assert.Equal(t, b.ServiceID, r.ServiceID)

	st.On("GetByBooking", ctx, b.ID).Return(r, nil)
	_, err = svc.Create(ctx, customer, Input{BookingID: b.ID, Rating: 4})
	assert.ErrorIs(t, err, models.ErrDuplicateReview)
	assert.ErrorIs(t, err, models.ErrConflict)
	st.AssertNumberOfCalls(t, "Create", 1)
}

func TestReviewService_Create_RaceLosesWithConflict(t *testing.T) {
	ctx := context.Background()
	svc, st, bk := newTestService()
	b := completedBooking()
	bk.On("Get", ctx, b.ID).Return(b, nil)
	st.On("GetByBooking", ctx, b.ID).Return(nil, models.ErrReviewNotFound)
	st.On("Create", ctx, mock.Anything).Return(models.ErrDuplicateReview)

	_, err := svc.Create(ctx, models.Principal{ID: b.CustomerID, Role: models.RoleCustomer}, Input{BookingID: b.ID, Rating: 3})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestReviewService_Create_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("booking missing", func(t *testing.T) {
		svc, _, bk := newTestService()
		id := uuid.New()
		bk.On("Get", ctx, id).Return(nil, models.ErrBookingNotFound)
		_, err := svc.Create(ctx, models.Principal{ID: uuid.New()}, Input{BookingID: id, Rating: 5})
		assert.ErrorIs(t, err, models.ErrBookingNotFound)
	})

	t.Run("not the customer", func(t *testing.T) {
		svc, _, bk := newTestService()
		b := completedBooking()
		bk.On("Get", ctx, b.ID).Return(b, nil)
		_, err := svc.Create(ctx, models.Principal{ID: b.ProviderID, Role: models.RoleProvider}, Input{BookingID: b.ID, Rating: 5})
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("not completed", func(t *testing.T) {
		svc, _, bk := newTestService()
		b := completedBooking()
		b.Status = models.BookingConfirmed
		bk.On("Get", ctx, b.ID).Return(b, nil)
		_, err := svc.Create(ctx, models.Principal{ID: b.CustomerID, Role: models.RoleCustomer}, Input{BookingID: b.ID, Rating: 5})
		assert.ErrorIs(t, err, models.ErrNotCompleted)
	})

	t.Run("rating out of range", func(t *testing.T) {
		svc, _, _ := newTestService()
		for _, rating := range []int{0, 6, -2} {
			_, err := svc.Create(ctx, models.Principal{ID: uuid.New()}, Input{BookingID: uuid.New(), Rating: rating})
			assert.ErrorIs(t, err, models.ErrValidation)
		}
	})
}

func TestReviewService_UpdateDelete_AuthorOrAdmin(t *testing.T) {
	ctx := context.Background()
	author := uuid.New()
	r := &models.Review{ID: uuid.New(), CustomerID: author, Rating: 2}

	svc, st, _ := newTestService()
	st.On("Get", ctx, r.ID).Return(r, nil)

	four := 4
	_, err := svc.Update(ctx, models.Principal{ID: uuid.New(), Role: models.RoleCustomer}, r.ID, UpdateInput{Rating: &four})
	assert.ErrorIs(t, err, models.ErrForbidden)

	st.On("Save", ctx, r).Return(nil)
	got, err := svc.Update(ctx, models.Principal{ID: author, Role: models.RoleCustomer}, r.ID, UpdateInput{Rating: &four})
	require.NoError(t, err)
	assert.Equal(t, 4, got.Rating)

	st.On("Delete", ctx, r.ID).Return(nil)
	require.NoError(t, svc.Delete(ctx, models.Principal{ID: uuid.New(), Role: models.RoleAdmin}, r.ID))

	nine := 9
	_, err = svc.Update(ctx, models.Principal{ID: author}, r.ID, UpdateInput{Rating: &nine})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestReviewService_AverageRating(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService()
	none, some := uuid.New(), uuid.New()
	st.On("RatingStats", ctx, none).Return(models.RatingStats{}, nil)
	st.On("RatingStats", ctx, some).Return(models.RatingStats{AverageRating: 4, TotalReviews: 3}, nil)

	avg, err := svc.AverageRating(ctx, none)
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)

	avg, err = svc.AverageRating(ctx, some)
	require.NoError(t, err)
	assert.Equal(t, 4.0, avg)
}

func TestReviewService_ForBooking(t *testing.T) {
	ctx := context.Background()
	svc, st, bk := newTestService()
	b := completedBooking()
	bk.On("Get", ctx, b.ID).Return(b, nil)
	st.On("GetByBooking", ctx, b.ID).Return(&models.Review{BookingID: b.ID}, nil)

	_, err := svc.ForBooking(ctx, models.Principal{ID: b.ProviderID, Role: models.RoleProvider}, b.ID)
	require.NoError(t, err)
	_, err = svc.ForBooking(ctx, models.Principal{ID: uuid.New(), Role: models.RoleCustomer}, b.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestReviewService_Listings(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService()
	provider := uuid.New()
	st.On("ListByProvider", ctx, provider, models.Page{Page: 2, Size: 5}).Return([]models.Review{{}}, int64(6), nil)

	res, err := svc.ByProvider(ctx, provider, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Meta.TotalPages)
}
