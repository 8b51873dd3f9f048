package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

func RequireRoles(allowed ...models.Role) fiber.Handler {
	allowedSet := map[models.Role]bool{}
	for _, r := range allowed {
		allowedSet[r] = true
	}

	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		if !allowedSet[p.Role] {
			return fiber.NewError(fiber.StatusForbidden, "forbidden: insufficient role")
		}
		return c.Next()
	}
}
