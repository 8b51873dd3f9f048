package handlers

import (
	"context"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/services/booking"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/services/catalog"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/services/dispute"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/services/identity"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/services/review"
)

func userOrNil(args mock.Arguments, i int) *models.User {
	u, _ := args.Get(i).(*models.User)
	return u
}

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Register(ctx context.Context, in identity.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, in)
	return userOrNil(args, 0), args.Error(1)
}

func (m *mockAuth) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	args := m.Called(ctx, email, password)
	s, _ := args.Get(0).(*identity.Session)
	return s, args.Error(1)
}

func (m *mockAuth) Refresh(ctx context.Context, raw string) (*identity.Session, error) {
	args := m.Called(ctx, raw)
	s, _ := args.Get(0).(*identity.Session)
	return s, args.Error(1)
}

func (m *mockAuth) Logout(ctx context.Context, raw string) error {
	return m.Called(ctx, raw).Error(0)
}

func (m *mockAuth) Me(ctx context.Context, p models.Principal) (*models.User, error) {
	args := m.Called(ctx, p)
	return userOrNil(args, 0), args.Error(1)
}

func (m *mockAuth) UpdateProfile(ctx context.Context, p models.Principal, in identity.ProfileInput) (*models.User, error) {
	args := m.Called(ctx, p, in)
	return userOrNil(args, 0), args.Error(1)
}

func (m *mockAuth) AttachVerificationDocument(ctx context.Context, p models.Principal, docType, ref string) (*models.User, error) {
	args := m.Called(ctx, p, docType, ref)
	return userOrNil(args, 0), args.Error(1)
}

func (m *mockAuth) PublicProvider(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	return userOrNil(args, 0), args.Error(1)
}

func (m *mockAuth) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockAuth) ResetPassword(ctx context.Context, in identity.ResetPasswordInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *mockAuth) PendingProviders(ctx context.Context, p models.Principal) ([]models.User, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).([]models.User)
	return out, args.Error(1)
}

func (m *mockAuth) VerifyProvider(ctx context.Context, p models.Principal, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, p, id)
	return userOrNil(args, 0), args.Error(1)
}

func (m *mockAuth) RejectProvider(ctx context.Context, p models.Principal, id uuid.UUID, reason string) (*models.User, error) {
	args := m.Called(ctx, p, id, reason)
	return userOrNil(args, 0), args.Error(1)
}

func (m *mockAuth) ListUsers(ctx context.Context, p models.Principal, includeDeleted bool) ([]models.User, error) {
	args := m.Called(ctx, p, includeDeleted)
	out, _ := args.Get(0).([]models.User)
	return out, args.Error(1)
}

func (m *mockAuth) DeleteUser(ctx context.Context, p models.Principal, id uuid.UUID) error {
	return m.Called(ctx, p, id).Error(0)
}

type mockCatalog struct{ mock.Mock }

func svcOrNil(args mock.Arguments) *models.Service {
	s, _ := args.Get(0).(*models.Service)
	return s
}

func (m *mockCatalog) Search(ctx context.Context, in catalog.SearchInput) (models.PageResult[models.Service], error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.PageResult[models.Service]), args.Error(1)
}

func (m *mockCatalog) Get(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	args := m.Called(ctx, id)
	return svcOrNil(args), args.Error(1)
}

func (m *mockCatalog) Create(ctx context.Context, p models.Principal, in catalog.ServiceInput) (*models.Service, error) {
	args := m.Called(ctx, p, in)
	return svcOrNil(args), args.Error(1)
}

func (m *mockCatalog) Update(ctx context.Context, p models.Principal, id uuid.UUID, in catalog.ServiceInput) (*models.Service, error) {
	args := m.Called(ctx, p, id, in)
	return svcOrNil(args), args.Error(1)
}

func (m *mockCatalog) SetActive(ctx context.Context, p models.Principal, id uuid.UUID, active bool) (*models.Service, error) {
	args := m.Called(ctx, p, id, active)
	return svcOrNil(args), args.Error(1)
}

func (m *mockCatalog) UpdateLocation(ctx context.Context, p models.Principal, id uuid.UUID, lat, lng float64, location string) (*models.Service, error) {
	args := m.Called(ctx, p, id, lat, lng, location)
	return svcOrNil(args), args.Error(1)
}

func (m *mockCatalog) Delete(ctx context.Context, p models.Principal, id uuid.UUID) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *mockCatalog) MyServices(ctx context.Context, p models.Principal, page, size int) (models.PageResult[models.Service], error) {
	args := m.Called(ctx, p, page, size)
	return args.Get(0).(models.PageResult[models.Service]), args.Error(1)
}

func (m *mockCatalog) WithCoordinates(ctx context.Context) ([]models.Service, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]models.Service)
	return out, args.Error(1)
}

func (m *mockCatalog) BoundingBox(ctx context.Context, box models.GeoBox) ([]models.Service, error) {
	args := m.Called(ctx, box)
	out, _ := args.Get(0).([]models.Service)
	return out, args.Error(1)
}

func (m *mockCatalog) WithinRadius(ctx context.Context, lat, lng, radiusKm float64) ([]catalog.Nearby, error) {
	args := m.Called(ctx, lat, lng, radiusKm)
	out, _ := args.Get(0).([]catalog.Nearby)
	return out, args.Error(1)
}

func (m *mockCatalog) AdminList(ctx context.Context, p models.Principal, includeDeleted bool) ([]models.Service, error) {
	args := m.Called(ctx, p, includeDeleted)
	out, _ := args.Get(0).([]models.Service)
	return out, args.Error(1)
}

func (m *mockCatalog) AdminDelete(ctx context.Context, p models.Principal, id uuid.UUID) error {
	return m.Called(ctx, p, id).Error(0)
}

type mockBookings struct{ mock.Mock }

func bookingOrNil(args mock.Arguments) *models.Booking {
	b, _ := args.Get(0).(*models.Booking)
	return b
}

func (m *mockBookings) Create(ctx context.Context, p models.Principal, in booking.CreateInput) (*models.Booking, error) {
	args := m.Called(ctx, p, in)
	return bookingOrNil(args), args.Error(1)
}

func (m *mockBookings) List(ctx context.Context, p models.Principal, status string, page, size int) (models.PageResult[models.Booking], error) {
	args := m.Called(ctx, p, status, page, size)
	return args.Get(0).(models.PageResult[models.Booking]), args.Error(1)
}

func (m *mockBookings) Get(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, p, id)
	return bookingOrNil(args), args.Error(1)
}

func (m *mockBookings) UpdateStatus(ctx context.Context, p models.Principal, id uuid.UUID, status string) (*models.Booking, error) {
	args := m.Called(ctx, p, id, status)
	return bookingOrNil(args), args.Error(1)
}

func (m *mockBookings) Cancel(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, p, id)
	return bookingOrNil(args), args.Error(1)
}

func (m *mockBookings) DashboardStats(ctx context.Context, p models.Principal) (*booking.DashboardStats, error) {
	args := m.Called(ctx, p)
	st, _ := args.Get(0).(*booking.DashboardStats)
	return st, args.Error(1)
}

type mockReviews struct{ mock.Mock }

func reviewOrNil(args mock.Arguments) *models.Review {
	r, _ := args.Get(0).(*models.Review)
	return r
}

func (m *mockReviews) Create(ctx context.Context, p models.Principal, in review.Input) (*models.Review, error) {
	args := m.Called(ctx, p, in)
	return reviewOrNil(args), args.Error(1)
}

func (m *mockReviews) Update(ctx context.Context, p models.Principal, id uuid.UUID, in review.UpdateInput) (*models.Review, error) {
	args := m.Called(ctx, p, id, in)
	return reviewOrNil(args), args.Error(1)
}

func (m *mockReviews) Delete(ctx context.Context, p models.Principal, id uuid.UUID) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *mockReviews) ByProvider(ctx context.Context, providerID uuid.UUID, page, size int) (models.PageResult[models.Review], error) {
	args := m.Called(ctx, providerID, page, size)
	return args.Get(0).(models.PageResult[models.Review]), args.Error(1)
}

func (m *mockReviews) ByService(ctx context.Context, serviceID uuid.UUID, page, size int) (models.PageResult[models.Review], error) {
	args := m.Called(ctx, serviceID, page, size)
	return args.Get(0).(models.PageResult[models.Review]), args.Error(1)
}

func (m *mockReviews) Mine(ctx context.Context, p models.Principal, page, size int) (models.PageResult[models.Review], error) {
	args := m.Called(ctx, p, page, size)
	return args.Get(0).(models.PageResult[models.Review]), args.Error(1)
}

func (m *mockReviews) ForBooking(ctx context.Context, p models.Principal, bookingID uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, p, bookingID)
	return reviewOrNil(args), args.Error(1)
}

func (m *mockReviews) ProviderStats(ctx context.Context, providerID uuid.UUID) (models.RatingStats, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).(models.RatingStats), args.Error(1)
}

type mockDisputes struct{ mock.Mock }

func disputeOrNil(args mock.Arguments) *models.Dispute {
	d, _ := args.Get(0).(*models.Dispute)
	return d
}

func (m *mockDisputes) Report(ctx context.Context, p *models.Principal, in dispute.ReportInput) (*models.Dispute, error) {
	args := m.Called(ctx, p, in)
	return disputeOrNil(args), args.Error(1)
}

func (m *mockDisputes) List(ctx context.Context, p models.Principal, status string) ([]models.Dispute, error) {
	args := m.Called(ctx, p, status)
	out, _ := args.Get(0).([]models.Dispute)
	return out, args.Error(1)
}

func (m *mockDisputes) Resolve(ctx context.Context, p models.Principal, id uuid.UUID, refundAmount, adminNote string) (*models.Dispute, error) {
	args := m.Called(ctx, p, id, refundAmount, adminNote)
	return disputeOrNil(args), args.Error(1)
}

func (m *mockDisputes) Reject(ctx context.Context, p models.Principal, id uuid.UUID, adminNote string) (*models.Dispute, error) {
	args := m.Called(ctx, p, id, adminNote)
	return disputeOrNil(args), args.Error(1)
}

// fakeUploader records the folder and returns a predictable URL.
type fakeUploader struct {
	folder string
	name   string
	err    error
}

func (f *fakeUploader) Upload(_ context.Context, fh *multipart.FileHeader, folder string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.folder, f.name = folder, fh.Filename
	return "https://cdn.test/" + folder + "/" + fh.Filename, nil
}
