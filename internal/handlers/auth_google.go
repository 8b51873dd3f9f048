package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/services/identity"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleSignIn interface {
	SignInWithGoogle(ctx context.Context, email, name string) (*identity.Session, error)
}

type GoogleOAuthHandler struct {
	Auth            GoogleSignIn
	Sessions        *AuthHandler
	OAuth           *oauth2.Config
	FrontendBaseURL string
	Log             zerolog.Logger
}

func NewGoogleOAuthHandler(auth GoogleSignIn, sessions *AuthHandler, clientID, secret, redirect, frontend string, log zerolog.Logger) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		Auth:     auth,
		Sessions: sessions,
		OAuth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: secret,
			RedirectURL:  redirect,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		FrontendBaseURL: strings.TrimRight(frontend, "/"),
		Log:             log,
	}
}

func randomState(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func (h *GoogleOAuthHandler) tempCookie(c *fiber.Ctx, name, value string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.Sessions.SecureCookie,
		SameSite: "Lax",
		MaxAge:   maxAge,
	})
}

func (h *GoogleOAuthHandler) GoogleStart(c *fiber.Ctx) error {
	next := c.Query("next", "/")
	st := randomState(32)

	// simpan state + next di cookie sementara
	h.tempCookie(c, "oauth_state", st, 10*60)
	h.tempCookie(c, "oauth_next", next, 10*60)

	return c.Redirect(h.OAuth.AuthCodeURL(st), http.StatusTemporaryRedirect)
}

type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (h *GoogleOAuthHandler) fetchUser(ctx context.Context, code string) (*googleUserInfo, error) {
	tok, err := h.OAuth.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	resp, err := h.OAuth.Client(ctx, tok).Get(googleUserInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("userinfo: " + resp.Status)
	}
	var gu googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return nil, err
	}
	return &gu, nil
}

func (h *GoogleOAuthHandler) redirectErr(c *fiber.Ctx, msg string) error {
	return c.Redirect(h.FrontendBaseURL+"/auth/login?err="+url.QueryEscape(msg), http.StatusTemporaryRedirect)
}

func (h *GoogleOAuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing code/state")
	}
	if st := c.Cookies("oauth_state"); st == "" || st != state {
		return fiber.NewError(fiber.StatusBadRequest, "invalid state")
	}
	next := c.Cookies("oauth_next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/"
	}

	// hapus cookie state
	h.tempCookie(c, "oauth_state", "", -1)
	h.tempCookie(c, "oauth_next", "", -1)

	gu, err := h.fetchUser(c.UserContext(), code)
	if err != nil {
		h.Log.Warn().Err(err).Msg("google sign-in failed")
		return h.redirectErr(c, "Google sign-in failed")
	}
	if !gu.VerifiedEmail {
		return h.redirectErr(c, "Google email is not verified")
	}

	s, err := h.Auth.SignInWithGoogle(c.UserContext(), gu.Email, gu.Name)
	if err != nil {
		if errors.Is(err, models.ErrNotVerified) {
			return h.redirectErr(c, err.Error())
		}
		return err
	}
	h.Sessions.setSessionCookie(c, s)
	return c.Redirect(h.FrontendBaseURL+next, http.StatusTemporaryRedirect)
}
