package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

// RefundLedger credits a refund inside an open transaction.
type RefundLedger interface {
	CreditRefund(tx *gorm.DB, userID uuid.UUID, amount float64, disputeID uuid.UUID, description string) error
}

type DisputeStore struct {
	db     *gorm.DB
	ledger RefundLedger
}

func NewDisputeStore(db *gorm.DB, ledger RefundLedger) *DisputeStore {
	return &DisputeStore{db: db, ledger: ledger}
}

func (s *DisputeStore) Create(ctx context.Context, d *models.Dispute) error {
	return s.db.WithContext(ctx).Omit("Booking", "Reporter").Create(d).Error
}

func (s *DisputeStore) Get(ctx context.Context, id uuid.UUID) (*models.Dispute, error) {
	var d models.Dispute
	if err := s.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, notFound(err, models.ErrDisputeNotFound)
	}
	return &d, nil
}

func (s *DisputeStore) List(ctx context.Context, status *models.DisputeStatus) ([]models.Dispute, error) {
	q := s.db.WithContext(ctx).
		Preload("Booking").
		Preload("Reporter", unscoped)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var out []models.Dispute
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *DisputeStore) Close(ctx context.Context, d *models.Dispute) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Dispute{}).
			Where("id = ? AND status = ?", d.ID, models.DisputeOpen).
			Updates(map[string]any{
				"status":        d.Status,
				"refund_amount": d.RefundAmount,
				"admin_note":    d.AdminNote,
				"resolved_by":   d.ResolvedBy,
				"resolved_at":   d.ResolvedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrInvalidTransition
		}
		if d.Status == models.DisputeResolved && d.RefundAmount != nil && *d.RefundAmount > 0 {
			desc := fmt.Sprintf("Refund for dispute %s", d.ID)
			if err := s.ledger.CreditRefund(tx, d.ReporterID, *d.RefundAmount, d.ID, desc); err != nil {
				return err
			}
		}
		return nil
	})
}
