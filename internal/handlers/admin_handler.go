package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

type AdminUserService interface {
	PendingProviders(ctx context.Context, p models.Principal) ([]models.User, error)
	VerifyProvider(ctx context.Context, p models.Principal, id uuid.UUID) (*models.User, error)
	RejectProvider(ctx context.Context, p models.Principal, id uuid.UUID, reason string) (*models.User, error)
	ListUsers(ctx context.Context, p models.Principal, includeDeleted bool) ([]models.User, error)
	DeleteUser(ctx context.Context, p models.Principal, id uuid.UUID) error
}

type AdminCatalogService interface {
	AdminList(ctx context.Context, p models.Principal, includeDeleted bool) ([]models.Service, error)
	AdminDelete(ctx context.Context, p models.Principal, id uuid.UUID) error
}

// AdminHandler covers provider verification and user/service moderation.
// Disputes have their own handler.
type AdminHandler struct {
	Users    AdminUserService
	Services AdminCatalogService
}

func NewAdminHandler(users AdminUserService, services AdminCatalogService) *AdminHandler {
	return &AdminHandler{Users: users, Services: services}
}

func (h *AdminHandler) PendingProviders(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	out, err := h.Users.PendingProviders(c.UserContext(), p)
	if err != nil {
		return err
	}
	return ok(c, "", out)
}

func (h *AdminHandler) VerifyProvider(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	u, err := h.Users.VerifyProvider(c.UserContext(), p, id)
	if err != nil {
		return err
	}
	return ok(c, "Provider verified", u)
}

type rejectReq struct {
	Reason string `json:"reason"`
}

func (h *AdminHandler) RejectProvider(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req rejectReq
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidBody()
		}
	}
	if req.Reason == "" {
		req.Reason = c.Query("reason")
	}
	u, err := h.Users.RejectProvider(c.UserContext(), p, id, req.Reason)
	if err != nil {
		return err
	}
	return ok(c, "Provider rejected", u)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	out, err := h.Users.ListUsers(c.UserContext(), p, c.QueryBool("include_deleted"))
	if err != nil {
		return err
	}
	return ok(c, "", out)
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Users.DeleteUser(c.UserContext(), p, id); err != nil {
		return err
	}
	return ok(c, "User deleted", nil)
}

func (h *AdminHandler) ListServices(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	out, err := h.Services.AdminList(c.UserContext(), p, c.QueryBool("include_deleted"))
	if err != nil {
		return err
	}
	return ok(c, "", out)
}

func (h *AdminHandler) DeleteService(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Services.AdminDelete(c.UserContext(), p, id); err != nil {
		return err
	}
	return ok(c, "Service deleted", nil)
}
