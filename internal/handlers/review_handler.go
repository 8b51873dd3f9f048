package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/services/review"
)

type ReviewService interface {
	Create(ctx context.Context, p models.Principal, in review.Input) (*models.Review, error)
	Update(ctx context.Context, p models.Principal, id uuid.UUID, in review.UpdateInput) (*models.Review, error)
	Delete(ctx context.Context, p models.Principal, id uuid.UUID) error
	ByProvider(ctx context.Context, providerID uuid.UUID, page, size int) (models.PageResult[models.Review], error)
	ByService(ctx context.Context, serviceID uuid.UUID, page, size int) (models.PageResult[models.Review], error)
	Mine(ctx context.Context, p models.Principal, page, size int) (models.PageResult[models.Review], error)
	ForBooking(ctx context.Context, p models.Principal, bookingID uuid.UUID) (*models.Review, error)
	ProviderStats(ctx context.Context, providerID uuid.UUID) (models.RatingStats, error)
}

type ReviewHandler struct {
	Reviews ReviewService
}

func NewReviewHandler(reviews ReviewService) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews}
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req review.Input
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	r, err := h.Reviews.Create(c.UserContext(), p, req)
	if err != nil {
		return err
	}
	return created(c, "Review submitted", r)
}

func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req review.UpdateInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	r, err := h.Reviews.Update(c.UserContext(), p, id, req)
	if err != nil {
		return err
	}
	return ok(c, "Review updated", r)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Reviews.Delete(c.UserContext(), p, id); err != nil {
		return err
	}
	return ok(c, "Review deleted", nil)
}

func (h *ReviewHandler) ByProvider(c *fiber.Ctx) error {
	id, err := paramUUID(c, "providerId")
	if err != nil {
		return err
	}
	page, size := pageQuery(c)
	res, err := h.Reviews.ByProvider(c.UserContext(), id, page, size)
	if err != nil {
		return err
	}
	return ok(c, "", res)
}

func (h *ReviewHandler) ByService(c *fiber.Ctx) error {
	id, err := paramUUID(c, "serviceId")
	if err != nil {
		return err
	}
	page, size := pageQuery(c)
	res, err := h.Reviews.ByService(c.UserContext(), id, page, size)
	if err != nil {
		return err
	}
	return ok(c, "", res)
}

func (h *ReviewHandler) Mine(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	page, size := pageQuery(c)
	res, err := h.Reviews.Mine(c.UserContext(), p, page, size)
	if err != nil {
		return err
	}
	return ok(c, "", res)
}

func (h *ReviewHandler) ForBooking(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "bookingId")
	if err != nil {
		return err
	}
	r, err := h.Reviews.ForBooking(c.UserContext(), p, id)
	if err != nil {
		return err
	}
	return ok(c, "", r)
}

func (h *ReviewHandler) ProviderStats(c *fiber.Ctx) error {
	id, err := paramUUID(c, "providerId")
	if err != nil {
		return err
	}
	st, err := h.Reviews.ProviderStats(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, "", st)
}
