package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/services/booking"
)

type BookingService interface {
	Create(ctx context.Context, p models.Principal, in booking.CreateInput) (*models.Booking, error)
	List(ctx context.Context, p models.Principal, status string, page, size int) (models.PageResult[models.Booking], error)
	Get(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Booking, error)
	UpdateStatus(ctx context.Context, p models.Principal, id uuid.UUID, status string) (*models.Booking, error)
	Cancel(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Booking, error)
	DashboardStats(ctx context.Context, p models.Principal) (*booking.DashboardStats, error)
}

type BookingHandler struct {
	Bookings BookingService
}

func NewBookingHandler(bookings BookingService) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

func (h *BookingHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req booking.CreateInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	b, err := h.Bookings.Create(c.UserContext(), p, req)
	if err != nil {
		return err
	}
	return created(c, "Booking created", b)
}

// MyBookings lists bookings where the caller is customer or provider
// (everything for admins). Optional ?status= filter.
func (h *BookingHandler) MyBookings(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	page, size := pageQuery(c)
	res, err := h.Bookings.List(c.UserContext(), p, c.Query("status"), page, size)
	if err != nil {
		return err
	}
	return ok(c, "", res)
}

func (h *BookingHandler) Get(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.Bookings.Get(c.UserContext(), p, id)
	if err != nil {
		return err
	}
	return ok(c, "", b)
}

type bookingStatusReq struct {
	Status string `json:"status"`
}

func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req bookingStatusReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	if req.Status == "" {
		req.Status = c.Query("status")
	}
	b, err := h.Bookings.UpdateStatus(c.UserContext(), p, id, req.Status)
	if err != nil {
		return err
	}
	return ok(c, "Booking status updated", b)
}

func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.Bookings.Cancel(c.UserContext(), p, id)
	if err != nil {
		return err
	}
	return ok(c, "Booking cancelled", b)
}
