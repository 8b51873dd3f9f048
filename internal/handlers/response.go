package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/middleware"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

// statusFor maps the domain error taxonomy onto HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidTransition):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler renders every error as {"success": false, "message": ...}.
// Internal errors are logged and hidden from the client.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"success": false,
				"message": fe.Message,
			})
		}

		var ve *models.ValidationError
		if errors.As(err, &ve) {
			body := fiber.Map{
				"success": false,
				"message": ve.Error(),
			}
			if !ve.Fields.Empty() {
				body["errors"] = ve.Fields
			}
			return c.Status(fiber.StatusBadRequest).JSON(body)
		}

		status := statusFor(err)
		msg := err.Error()
		if status == fiber.StatusInternalServerError {
			ev := log.Error().Err(err).Str("path", c.Path())
			if rid, ok := c.Locals("requestid").(string); ok {
				ev = ev.Str("request_id", rid)
			}
			ev.Msg("unhandled error")
			msg = "internal server error"
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": msg,
		})
	}
}

func ok(c *fiber.Ctx, message string, data any) error {
	body := fiber.Map{"success": true, "data": data}
	if message != "" {
		body["message"] = message
	}
	return c.JSON(body)
}

func created(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func invalidBody() error {
	return models.NewValidationError("invalid body", nil)
}

func principal(c *fiber.Ctx) (models.Principal, error) {
	p, found := middleware.PrincipalFrom(c)
	if !found {
		return models.Principal{}, fiber.ErrUnauthorized
	}
	return p, nil
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, models.Invalid(name, "must be a valid id")
	}
	return id, nil
}

func pageQuery(c *fiber.Ctx) (int, int) {
	return c.QueryInt("page", 1), c.QueryInt("size", c.QueryInt("limit", 10))
}

func queryFloat(c *fiber.Ctx, key string) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, models.Invalid(key, "is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, models.Invalid(key, "must be a number")
	}
	return v, nil
}
