package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

// CookieName is the cookie that carries the access token for browser clients.
const CookieName = "jm_token"

const principalKey = "principal"

type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, raw string) (models.Principal, error)
}

// TokenFrom reads the bearer header, then the cookie. Websocket upgrades may
// also pass ?token= since browsers cannot set headers there.
func TokenFrom(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			return strings.TrimSpace(h[7:])
		}
	}
	if v := c.Cookies(CookieName); v != "" {
		return v
	}
	if websocket.IsWebSocketUpgrade(c) {
		return c.Query("token")
	}
	return ""
}

func attach(c *fiber.Ctx, p models.Principal) {
	c.Locals(principalKey, p)
	c.Locals("userId", p.ID.String())
	c.Locals("role", string(p.Role))
}

// JWT requires a valid, unrevoked access token.
func JWT(resolver PrincipalResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := TokenFrom(c)
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing token")
		}
		p, err := resolver.ResolvePrincipal(c.UserContext(), raw)
		if err != nil {
			return err
		}
		attach(c, p)
		return c.Next()
	}
}

// OptionalJWT attaches the principal when a token is sent. A bad token is
// still rejected.
func OptionalJWT(resolver PrincipalResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := TokenFrom(c)
		if raw == "" {
			return c.Next()
		}
		p, err := resolver.ResolvePrincipal(c.UserContext(), raw)
		if err != nil {
			return err
		}
		attach(c, p)
		return c.Next()
	}
}

// PrincipalFrom returns the caller set by JWT or OptionalJWT.
func PrincipalFrom(c *fiber.Ctx) (models.Principal, bool) {
	p, ok := c.Locals(principalKey).(models.Principal)
	return p, ok
}
