// Package wallet keeps the per-user balance and its ledger.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

type WalletService struct {
	DB *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{DB: db}
}

// CreditRefund adds a dispute refund to the user's balance and writes the
// ledger entry. Must run inside the transaction that closes the dispute.
func (s *WalletService) CreditRefund(tx *gorm.DB, userID uuid.UUID, amount float64, disputeID uuid.UUID, description string) error {
	if amount <= 0 {
		return models.Invalid("refund_amount", "must be greater than zero")
	}

	// Unscoped: refund tetap dikreditkan walau akun pelapor sudah dihapus.
	result := tx.Unscoped().Model(&models.User{}).
		Where("id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("credit refund: %w", models.ErrUserNotFound)
	}

	ledger := models.WalletTransaction{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      amount,
		Type:        models.WalletTrxRefund,
		Description: description,
		ReferenceID: &disputeID,
	}
	return tx.Create(&ledger).Error
}

type Summary struct {
	Balance      float64                                      `json:"balance"`
	Transactions models.PageResult[models.WalletTransaction] `json:"transactions"`
}

// Summary returns the caller's balance and newest ledger entries first.
func (s *WalletService) Summary(ctx context.Context, p models.Principal, page, size int) (*Summary, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Select("id", "balance").First(&user, "id = ?", p.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}

	pg := models.NewPage(page, size)
	q := s.DB.WithContext(ctx).Model(&models.WalletTransaction{}).Where("user_id = ?", p.ID).Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}
	var items []models.WalletTransaction
	if err := q.Order("created_at DESC").Limit(pg.Size).Offset(pg.Offset()).Find(&items).Error; err != nil {
		return nil, err
	}
	return &Summary{Balance: user.Balance, Transactions: models.NewPageResult(items, pg, total)}, nil
}
