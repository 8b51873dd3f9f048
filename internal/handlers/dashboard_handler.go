package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// DashboardHandler serves per-role booking statistics.
type DashboardHandler struct {
	Bookings BookingService
}

func NewDashboardHandler(bookings BookingService) *DashboardHandler {
	return &DashboardHandler{Bookings: bookings}
}

func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	st, err := h.Bookings.DashboardStats(c.UserContext(), p)
	if err != nil {
		return err
	}
	return ok(c, "", st)
}
