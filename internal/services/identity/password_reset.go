package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/utils"
)

const resetCodeDigits = 6

// ForgotPassword issues a reset code and mails it. Unknown emails and mail
// failures look identical to success from the caller's side.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return models.Invalid("email", "is required")
	}
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.log.Debug().Msg("password reset requested for unknown email")
			return nil
		}
		return err
	}

	code, err := utils.NewNumericCode(resetCodeDigits)
	if err != nil {
		return err
	}
	if err := s.resets.Save(ctx, email, code, s.resetTTL); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}

	body := fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.", code, int(s.resetTTL.Minutes()))
	if err := s.mail.Send(ctx, email, "Password reset code", body); err != nil {
		s.log.Error().Err(err).Msg("failed to deliver password reset code")
	}
	return nil
}

type ResetPasswordInput struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

func (s *Service) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	in.Email = normalizeEmail(in.Email)
	if err := utils.ValidateStruct(in); err != nil {
		return err
	}
	stored, err := s.resets.Get(ctx, in.Email)
	if err != nil {
		return fmt.Errorf("load reset code: %w", err)
	}
	if stored == "" || !codesEqual(stored, in.Code) {
		return models.Invalid("code", "is invalid or expired")
	}
	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Invalid("code", "is invalid or expired")
		}
		return err
	}

	hash, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = hash
	u.TokenVersion++
	if err := s.users.Save(ctx, u); err != nil {
		return err
	}
	if err := s.resets.Delete(ctx, in.Email); err != nil {
		s.log.Warn().Err(err).Msg("failed to delete consumed reset code")
	}
	return nil
}
