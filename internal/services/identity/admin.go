package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

func (s *Service) PendingProviders(ctx context.Context, p models.Principal) ([]models.User, error) {
	if err := models.RequireRole(p, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.users.ListPendingProviders(ctx)
}

func (s *Service) VerifyProvider(ctx context.Context, p models.Principal, id uuid.UUID) (*models.User, error) {
	u, err := s.loadProvider(ctx, p, id)
	if err != nil {
		return nil, err
	}
	u.IsVerified = true
	u.VerificationRejectionReason = ""
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	s.notify(ctx, u.Email, "Your provider account is verified",
		"Your account has been approved. You can now sign in and publish services.")
	return u, nil
}

// RejectProvider also revokes every outstanding token of the provider.
func (s *Service) RejectProvider(ctx context.Context, p models.Principal, id uuid.UUID, reason string) (*models.User, error) {
	u, err := s.loadProvider(ctx, p, id)
	if err != nil {
		return nil, err
	}
	u.IsVerified = false
	u.VerificationRejectionReason = strings.TrimSpace(reason)
	u.TokenVersion++
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	body := "Your provider verification was rejected."
	if u.VerificationRejectionReason != "" {
		body += " Reason: " + u.VerificationRejectionReason
	}
	s.notify(ctx, u.Email, "Your provider verification was rejected", body)
	return u, nil
}

func (s *Service) loadProvider(ctx context.Context, p models.Principal, id uuid.UUID) (*models.User, error) {
	if err := models.RequireRole(p, models.RoleAdmin); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role != models.RoleProvider {
		return nil, models.Invalid("id", "user is not a provider")
	}
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context, p models.Principal, includeDeleted bool) ([]models.User, error) {
	if err := models.RequireRole(p, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.users.List(ctx, includeDeleted)
}

func (s *Service) DeleteUser(ctx context.Context, p models.Principal, id uuid.UUID) error {
	if err := models.RequireRole(p, models.RoleAdmin); err != nil {
		return err
	}
	if p.ID == id {
		return fmt.Errorf("%w: admins cannot delete their own account", models.ErrForbidden)
	}
	if err := s.users.BumpTokenVersion(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id.String()).Str("by", p.ID.String()).Msg("user deleted")
	return nil
}

func (s *Service) notify(ctx context.Context, to, subject, body string) {
	if err := s.mail.Send(ctx, to, subject, body); err != nil {
		s.log.Warn().Err(err).Str("to", to).Msg("failed to send notification email")
	}
}
