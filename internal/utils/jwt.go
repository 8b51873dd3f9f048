package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// Claims: sub = email, uid = user id, ver = token version of the user at issue time.
type Claims struct {
	UserID  string    `json:"uid"`
	Role    string    `json:"role,omitempty"`
	Version int       `json:"ver"`
	Kind    TokenKind `json:"typ"`
	jwt.RegisteredClaims
}

func (c *Claims) Principal() (models.Principal, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return models.Principal{}, models.ErrMalformedToken
	}
	role, _ := models.ParseRole(c.Role)
	return models.Principal{ID: id, Email: c.Subject, Role: role}, nil
}

type TokenPair struct {
	AccessToken      string    `json:"token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// TokenIssuer signs HS256 access and refresh tokens.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (i *TokenIssuer) AccessTTL() time.Duration { return i.accessTTL }

func (i *TokenIssuer) Issue(p models.Principal, version int) (TokenPair, error) {
	access, accessExp, err := i.sign(p, version, AccessToken)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := i.sign(p, version, RefreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (i *TokenIssuer) sign(p models.Principal, version int, kind TokenKind) (string, time.Time, error) {
	now := i.now()
	ttl := i.accessTTL
	role := string(p.Role)
	if kind == RefreshToken {
		// refresh token tidak membawa role
		ttl = i.refreshTTL
		role = ""
	}
	exp := now.Add(ttl)
	claims := Claims{
		UserID:  p.ID.String(),
		Role:    role,
		Version: version,
		Kind:    kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(i.secret)
	return s, exp, err
}

// Validate checks signature, expiry and token kind.
func (i *TokenIssuer) Validate(raw string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, models.ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, models.ErrExpiredToken
		default:
			return nil, models.ErrInvalidToken
		}
	}
	if claims.Kind != kind || claims.Subject == "" {
		return nil, models.ErrInvalidToken
	}
	return claims, nil
}
