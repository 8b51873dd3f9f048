package handlers

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/middleware"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/services/dispute"
)

type DisputeService interface {
	Report(ctx context.Context, p *models.Principal, in dispute.ReportInput) (*models.Dispute, error)
	List(ctx context.Context, p models.Principal, status string) ([]models.Dispute, error)
	Resolve(ctx context.Context, p models.Principal, id uuid.UUID, refundAmount, adminNote string) (*models.Dispute, error)
	Reject(ctx context.Context, p models.Principal, id uuid.UUID, adminNote string) (*models.Dispute, error)
}

type DisputeHandler struct {
	Disputes DisputeService
}

func NewDisputeHandler(disputes DisputeService) *DisputeHandler {
	return &DisputeHandler{Disputes: disputes}
}

// Routes registers the public report endpoint and the admin endpoints.
// admin must already carry the auth and admin-role guards.
func (h *DisputeHandler) Routes(r fiber.Router, optionalAuth fiber.Handler, admin fiber.Router) {
	r.Post("/disputes/report", optionalAuth, h.Report)

	admin.Get("/disputes", h.List)
	admin.Post("/disputes/:id/resolve", h.Resolve)
	admin.Post("/disputes/:id/reject", h.Reject)
	// alias lama
	admin.Put("/disputes/:id/resolve", h.Resolve)
	admin.Put("/disputes/:id/reject", h.Reject)
}

// Report is public; the route runs OptionalJWT so a signed-in caller is the reporter.
func (h *DisputeHandler) Report(c *fiber.Ctx) error {
	var req dispute.ReportInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	var p *models.Principal
	if pr, found := middleware.PrincipalFrom(c); found {
		p = &pr
	}
	d, err := h.Disputes.Report(c.UserContext(), p, req)
	if err != nil {
		return err
	}
	return created(c, "Dispute reported", d)
}

func (h *DisputeHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	out, err := h.Disputes.List(c.UserContext(), p, c.Query("status"))
	if err != nil {
		return err
	}
	return ok(c, "", out)
}

type closeDisputeReq struct {
	// number or string, both accepted
	RefundAmount json.RawMessage `json:"refund_amount"`
	AdminNote    string          `json:"admin_note"`
}

// rawAmount turns 12.5, "12.5" or null into the string form ParseRefund expects.
func rawAmount(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return s
}

func (h *DisputeHandler) parseClose(c *fiber.Ctx) (closeDisputeReq, error) {
	var req closeDisputeReq
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return req, invalidBody()
		}
	}
	if req.AdminNote == "" {
		req.AdminNote = c.Query("adminNote")
	}
	if len(req.RefundAmount) == 0 && c.Query("refundAmount") != "" {
		req.RefundAmount, _ = json.Marshal(c.Query("refundAmount"))
	}
	return req, nil
}

func (h *DisputeHandler) Resolve(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	req, err := h.parseClose(c)
	if err != nil {
		return err
	}
	d, err := h.Disputes.Resolve(c.UserContext(), p, id, rawAmount(req.RefundAmount), req.AdminNote)
	if err != nil {
		return err
	}
	return ok(c, "Dispute resolved", d)
}

func (h *DisputeHandler) Reject(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	req, err := h.parseClose(c)
	if err != nil {
		return err
	}
	d, err := h.Disputes.Reject(c.UserContext(), p, id, req.AdminNote)
	if err != nil {
		return err
	}
	return ok(c, "Dispute rejected", d)
}
