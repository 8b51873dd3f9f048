package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/realtime"
)

type NotificationHandler struct {
	Hub *realtime.Hub
	Log zerolog.Logger
}

func NewNotificationHandler(hub *realtime.Hub, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{Hub: hub, Log: log}
}

// Upgrade runs after JWT, so the principal is known before the handshake.
func (h *NotificationHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	p, err := principal(c)
	if err != nil {
		return err
	}
	c.Locals("wsUserId", p.ID)
	return c.Next()
}

func (h *NotificationHandler) Socket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		uid, ok := conn.Locals("wsUserId").(uuid.UUID)
		if !ok {
			_ = conn.Close()
			return
		}
		realtime.Serve(h.Hub, conn, uid, h.Log)
	})
}
