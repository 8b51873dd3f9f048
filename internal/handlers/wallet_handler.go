package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/services/wallet"
)

type WalletReader interface {
	Summary(ctx context.Context, p models.Principal, page, size int) (*wallet.Summary, error)
}

type WalletHandler struct {
	Wallet WalletReader
}

func NewWalletHandler(w WalletReader) *WalletHandler {
	return &WalletHandler{Wallet: w}
}

// Transactions returns the caller's balance and refund ledger.
func (h *WalletHandler) Transactions(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	page, size := pageQuery(c)
	sum, err := h.Wallet.Summary(c.UserContext(), p, page, size)
	if err != nil {
		return err
	}
	return ok(c, "", sum)
}
