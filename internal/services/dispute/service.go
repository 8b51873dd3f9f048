// Package dispute records customer complaints and their admin resolution.
package dispute

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/metrics"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

type Store interface {
	Create(ctx context.Context, d *models.Dispute) error
	Get(ctx context.Context, id uuid.UUID) (*models.Dispute, error)
	// List returns disputes with the given status, or all when status is nil.
	List(ctx context.Context, status *models.DisputeStatus) ([]models.Dispute, error)
	// Close persists a terminal dispute only if it is still OPEN, crediting a
	// positive refund to the reporter in the same transaction. Returns
	// models.ErrInvalidTransition when the dispute was already closed.
	Close(ctx context.Context, d *models.Dispute) error
}

type BookingReader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type Notifier interface {
	Notify(ctx context.Context, userIDs []uuid.UUID, event string, payload any)
}

type Service struct {
	store    Store
	bookings BookingReader
	users    UserReader
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(store Store, bookings BookingReader, users UserReader, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		bookings: bookings,
		users:    users,
		notifier: notifier,
		log:      log.With().Str("component", "dispute").Logger(),
		now:      time.Now,
	}
}

type ReportInput struct {
	BookingID   uuid.UUID `json:"booking_id"`
	ReporterID  uuid.UUID `json:"reporter_id"`
	Description string    `json:"description"`
}

// Report opens a dispute. The reporter is taken from the principal when one
// is present, otherwise from the input.
func (s *Service) Report(ctx context.Context, p *models.Principal, in ReportInput) (*models.Dispute, error) {
	reporterID := in.ReporterID
	if p != nil {
		reporterID = p.ID
	}
	desc := strings.TrimSpace(in.Description)
	fe := models.FieldErrors{}
	if in.BookingID == uuid.Nil {
		fe.Add("booking_id", "is required")
	}
	if reporterID == uuid.Nil {
		fe.Add("reporter_id", "is required")
	}
	if desc == "" {
		fe.Add("description", "is required")
	} else if len(desc) > 2000 {
		fe.Add("description", "must be at most 2000 characters")
	}
	if !fe.Empty() {
		return nil, models.NewValidationError("validation failed", fe)
	}

	b, err := s.bookings.Get(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, reporterID); err != nil {
		return nil, err
	}

	d := &models.Dispute{
		BookingID:   b.ID,
		ReporterID:  reporterID,
		Description: desc,
		Status:      models.DisputeOpen,
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, err
	}
	s.log.Info().Str("dispute_id", d.ID.String()).Str("booking_id", b.ID.String()).Msg("dispute reported")
	return d, nil
}

// List defaults to OPEN disputes; status "ALL" lists everything.
func (s *Service) List(ctx context.Context, p models.Principal, status string) ([]models.Dispute, error) {
	if err := models.RequireRole(p, models.RoleAdmin); err != nil {
		return nil, err
	}
	st := models.DisputeOpen
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "", "OPEN":
	case "RESOLVED":
		st = models.DisputeResolved
	case "REJECTED":
		st = models.DisputeRejected
	case "ALL":
		return s.store.List(ctx, nil)
	default:
		return nil, models.Invalid("status", "must be OPEN, RESOLVED, REJECTED or ALL")
	}
	return s.store.List(ctx, &st)
}

func (s *Service) ListOpen(ctx context.Context, p models.Principal) ([]models.Dispute, error) {
	return s.List(ctx, p, "OPEN")
}

// ParseRefund accepts an empty value (no refund) or a non-negative decimal.
func ParseRefund(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, models.Invalid("refund_amount", "must be a number")
	}
	if v < 0 {
		return nil, models.Invalid("refund_amount", "must not be negative")
	}
	v = math.Round(v*100) / 100
	return &v, nil
}

func (s *Service) Resolve(ctx context.Context, p models.Principal, id uuid.UUID, refundAmount, adminNote string) (*models.Dispute, error) {
	if err := models.RequireRole(p, models.RoleAdmin); err != nil {
		return nil, err
	}
	refund, err := ParseRefund(refundAmount)
	if err != nil {
		return nil, err
	}
	return s.close(ctx, p, id, models.DisputeResolved, refund, adminNote)
}

func (s *Service) Reject(ctx context.Context, p models.Principal, id uuid.UUID, adminNote string) (*models.Dispute, error) {
	if err := models.RequireRole(p, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.close(ctx, p, id, models.DisputeRejected, nil, adminNote)
}

func (s *Service) close(ctx context.Context, p models.Principal, id uuid.UUID, status models.DisputeStatus, refund *float64, note string) (*models.Dispute, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: dispute is already %s", models.ErrInvalidTransition, d.Status)
	}

	now := s.now().UTC()
	admin := p.ID
	d.Status = status
	d.RefundAmount = refund
	d.AdminNote = strings.TrimSpace(note)
	d.ResolvedAt = &now
	d.ResolvedBy = &admin
	if err := s.store.Close(ctx, d); err != nil {
		if errors.Is(err, models.ErrInvalidTransition) {
			return nil, fmt.Errorf("%w: dispute was closed concurrently", models.ErrInvalidTransition)
		}
		return nil, err
	}

	var amount float64
	if refund != nil {
		amount = *refund
	}
	metrics.DisputeClosed(string(status), amount)
	s.log.Info().Str("dispute_id", d.ID.String()).Str("status", string(status)).Float64("refund", amount).Msg("dispute closed")
	s.notifier.Notify(ctx, []uuid.UUID{d.ReporterID}, "dispute."+strings.ToLower(string(status)), d)
	return d, nil
}
