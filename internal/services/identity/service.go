// Package identity owns user accounts, credentials and sessions.
package identity

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/utils"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Save(ctx context.Context, u *models.User) error
	BumpTokenVersion(ctx context.Context, id uuid.UUID) error
	ListPendingProviders(ctx context.Context) ([]models.User, error)
	List(ctx context.Context, includeDeleted bool) ([]models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TokenDenyList remembers revoked token ids until they would have expired anyway.
type TokenDenyList interface {
	Deny(ctx context.Context, jti string, ttl time.Duration) error
	IsDenied(ctx context.Context, jti string) (bool, error)
}

type ResetCodeStore interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	// Get returns "" when no code is outstanding.
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Service struct {
	users    UserStore
	tokens   *utils.TokenIssuer
	deny     TokenDenyList
	resets   ResetCodeStore
	mail     Mailer
	resetTTL time.Duration
	log      zerolog.Logger
}

func NewService(users UserStore, tokens *utils.TokenIssuer, deny TokenDenyList, resets ResetCodeStore, mail Mailer, resetTTL time.Duration, log zerolog.Logger) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		deny:     deny,
		resets:   resets,
		mail:     mail,
		resetTTL: resetTTL,
		log:      log.With().Str("component", "identity").Logger(),
	}
}

// Session is what a successful sign-in returns to the client.
type Session struct {
	User   *models.User    `json:"user"`
	Tokens utils.TokenPair `json:"tokens"`
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"required"`

	Location string `json:"location" validate:"max=255"`
	Phone    string `json:"phone" validate:"max=30"`

	Bio                  string `json:"bio"`
	Experience           string `json:"experience"`
	ServiceArea          string `json:"service_area" validate:"max=255"`
	DocumentType         string `json:"document_type" validate:"max=50"`
	VerificationDocument string `json:"verification_document"`
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	role, ok := models.ParseRole(in.Role)
	if !ok {
		return nil, models.Invalid("role", "must be CUSTOMER or PROVIDER")
	}
	if role == models.RoleAdmin {
		return nil, fmt.Errorf("%w: admin accounts cannot self-register", models.ErrForbidden)
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, models.ErrDuplicateEmail
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		Name:       in.Name,
		Email:      in.Email,
		Password:   hash,
		Role:       role,
		IsVerified: role != models.RoleProvider,
		Location:   strings.TrimSpace(in.Location),
		Phone:      strings.TrimSpace(in.Phone),
	}
	if role == models.RoleProvider {
		u.Bio = strings.TrimSpace(in.Bio)
		u.Experience = strings.TrimSpace(in.Experience)
		u.ServiceArea = strings.TrimSpace(in.ServiceArea)
		u.DocumentType = strings.TrimSpace(in.DocumentType)
		u.VerificationDocument = strings.TrimSpace(in.VerificationDocument)
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", u.ID.String()).Str("role", string(role)).Msg("user registered")
	return u, nil
}

// Authenticate checks credentials. An unverified provider is refused before
// the password is looked at.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}
	if u.Role == models.RoleProvider && !u.IsVerified {
		return nil, models.ErrNotVerified
	}
	if u.Password == "" || !utils.CheckPassword(u.Password, password) {
		return nil, models.ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *Service) issue(u *models.User) (*Session, error) {
	pair, err := s.tokens.Issue(u.Principal(), u.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return &Session{User: u, Tokens: pair}, nil
}

// Refresh rotates a refresh token: the old one is denied and a new pair issued.
func (s *Service) Refresh(ctx context.Context, raw string) (*Session, error) {
	claims, err := s.tokens.Validate(raw, utils.RefreshToken)
	if err != nil {
		return nil, models.ErrInvalidToken
	}
	u, err := s.checkClaims(ctx, claims)
	if err != nil {
		return nil, err
	}
	if u.Role == models.RoleProvider && !u.IsVerified {
		return nil, models.ErrNotVerified
	}
	if err := s.deny.Deny(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return nil, fmt.Errorf("deny refresh token: %w", err)
	}
	return s.issue(u)
}

// ResolvePrincipal validates an access token and returns the principal as
// currently stored, so role changes take effect immediately.
func (s *Service) ResolvePrincipal(ctx context.Context, raw string) (models.Principal, error) {
	claims, err := s.tokens.Validate(raw, utils.AccessToken)
	if err != nil {
		return models.Principal{}, err
	}
	u, err := s.checkClaims(ctx, claims)
	if err != nil {
		return models.Principal{}, err
	}
	return u.Principal(), nil
}

func (s *Service) checkClaims(ctx context.Context, claims *utils.Claims) (*models.User, error) {
	denied, err := s.deny.IsDenied(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check deny list: %w", err)
	}
	if denied {
		return nil, models.ErrRevokedToken
	}
	p, err := claims.Principal()
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrRevokedToken
		}
		return nil, err
	}
	if claims.Version < u.TokenVersion {
		return nil, models.ErrRevokedToken
	}
	return u, nil
}

// Logout denies the access token until its natural expiry. A missing,
// expired or invalid token is already unusable, so it is not an error.
func (s *Service) Logout(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	claims, err := s.tokens.Validate(raw, utils.AccessToken)
	if errors.Is(err, models.ErrUnauthenticated) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.deny.Deny(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}

func (s *Service) Me(ctx context.Context, p models.Principal) (*models.User, error) {
	return s.users.GetByID(ctx, p.ID)
}

// PublicProvider returns a verified provider's profile for public pages.
func (s *Service) PublicProvider(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role != models.RoleProvider || !u.IsVerified {
		return nil, models.ErrUserNotFound
	}
	return u, nil
}

type ProfileInput struct {
	Name         *string `json:"name" validate:"omitempty,min=2,max=100"`
	Location     *string `json:"location" validate:"omitempty,max=255"`
	Phone        *string `json:"phone" validate:"omitempty,max=30"`
	ProfileImage *string `json:"profile_image"`
	Bio          *string `json:"bio"`
	Experience   *string `json:"experience"`
	ServiceArea  *string `json:"service_area" validate:"omitempty,max=255"`
}

func (s *Service) UpdateProfile(ctx context.Context, p models.Principal, in ProfileInput) (*models.User, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	apply := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	apply(&u.Name, in.Name)
	apply(&u.Location, in.Location)
	apply(&u.Phone, in.Phone)
	apply(&u.ProfileImage, in.ProfileImage)
	if u.Role == models.RoleProvider {
		apply(&u.Bio, in.Bio)
		apply(&u.Experience, in.Experience)
		apply(&u.ServiceArea, in.ServiceArea)
	}
	if u.Name == "" {
		return nil, models.Invalid("name", "is required")
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// AttachVerificationDocument stores a new document reference and clears any
// earlier rejection so the provider shows up as pending again.
func (s *Service) AttachVerificationDocument(ctx context.Context, p models.Principal, docType, ref string) (*models.User, error) {
	if err := models.RequireRole(p, models.RoleProvider); err != nil {
		return nil, err
	}
	if strings.TrimSpace(ref) == "" {
		return nil, models.Invalid("document", "is required")
	}
	u, err := s.users.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if dt := strings.TrimSpace(docType); dt != "" {
		u.DocumentType = dt
	}
	u.VerificationDocument = ref
	u.VerificationRejectionReason = ""
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureOperator provisions the single admin account if it does not exist yet.
func (s *Service) EnsureOperator(ctx context.Context, email, password, name string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != models.RoleAdmin {
			s.log.Warn().Str("email", email).Msg("operator email belongs to a non-admin account")
		}
		return false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return false, err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{Name: name, Email: email, Password: hash, Role: models.RoleAdmin, IsVerified: true}
	if err := s.users.Create(ctx, u); err != nil {
		return false, err
	}
	s.log.Info().Str("user_id", u.ID.String()).Msg("operator account provisioned")
	return true, nil
}

// SignInWithGoogle links or creates a customer account for a verified Google email.
func (s *Service) SignInWithGoogle(ctx context.Context, email, name string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, models.Invalid("email", "is required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrNotFound):
		if strings.TrimSpace(name) == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}
		u = &models.User{Name: name, Email: email, Role: models.RoleCustomer, IsVerified: true}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	if u.Role == models.RoleProvider && !u.IsVerified {
		return nil, models.ErrNotVerified
	}
	return s.issue(u)
}

// constant-time compare for reset codes
func codesEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
