package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/middleware"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/services/identity"
)

type AuthService interface {
	Register(ctx context.Context, in identity.RegisterInput) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*identity.Session, error)
	Refresh(ctx context.Context, raw string) (*identity.Session, error)
	Logout(ctx context.Context, raw string) error
	Me(ctx context.Context, p models.Principal) (*models.User, error)
	UpdateProfile(ctx context.Context, p models.Principal, in identity.ProfileInput) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in identity.ResetPasswordInput) error
}

type AuthHandler struct {
	Auth         AuthService
	SecureCookie bool
}

func NewAuthHandler(auth AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{Auth: auth, SecureCookie: secureCookie}
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, s *identity.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    s.Tokens.AccessToken,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.SecureCookie,
		SameSite: "Lax",
		Expires:  s.Tokens.AccessExpiresAt,
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // hapus cookie
		HTTPOnly: true,
		Secure:   h.SecureCookie,
		SameSite: "Lax",
	})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req identity.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	u, err := h.Auth.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	msg := "Registration successful"
	if u.Role == models.RoleProvider {
		msg = "Registration successful, your account is waiting for admin verification"
	}
	return created(c, msg, fiber.Map{"user": u})
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	errs := models.FieldErrors{}
	if strings.TrimSpace(req.Email) == "" {
		errs.Add("email", "is required")
	}
	if req.Password == "" {
		errs.Add("password", "is required")
	}
	if !errs.Empty() {
		return models.NewValidationError("validation failed", errs)
	}

	s, err := h.Auth.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, s)
	return ok(c, "Login successful", s)
}

type RefreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshReq
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return models.Invalid("refresh_token", "is required")
	}
	s, err := h.Auth.Refresh(c.UserContext(), strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return err
	}
	h.setSessionCookie(c, s)
	return ok(c, "Token refreshed", s)
}

// Logout always clears the cookie, even when the token can no longer be revoked.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearSessionCookie(c)
	if err := h.Auth.Logout(c.UserContext(), middleware.TokenFrom(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logout successful",
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	u, err := h.Auth.Me(c.UserContext(), p)
	if err != nil {
		return err
	}
	return ok(c, "", u)
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req identity.ProfileInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	u, err := h.Auth.UpdateProfile(c.UserContext(), p, req)
	if err != nil {
		return err
	}
	return ok(c, "Profile updated", u)
}

type ForgotPasswordReq struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordReq
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return models.Invalid("email", "is required")
	}
	if err := h.Auth.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "If the email is registered, a reset code has been sent",
	})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req identity.ResetPasswordInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	if err := h.Auth.ResetPassword(c.UserContext(), req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password has been reset, please sign in again",
	})
}
