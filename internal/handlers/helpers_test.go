package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/middleware"
	"github.com/Windi-Fikriyansyah/platform_be_jasa/internal/models"
)

var (
	adminP    = models.Principal{ID: uuid.New(), Email: "admin@x.io", Role: models.RoleAdmin}
	customerP = models.Principal{ID: uuid.New(), Email: "cust@x.io", Role: models.RoleCustomer}
	providerP = models.Principal{ID: uuid.New(), Email: "prov@x.io", Role: models.RoleProvider}
)

// tokens used in tests are just the role name
type testResolver struct{}

func (testResolver) ResolvePrincipal(_ context.Context, raw string) (models.Principal, error) {
	switch raw {
	case "admin":
		return adminP, nil
	case "customer":
		return customerP, nil
	case "provider":
		return providerP, nil
	}
	return models.Principal{}, models.ErrInvalidToken
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zerolog.Nop())})
}

func authed() fiber.Handler { return middleware.JWT(testResolver{}) }

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return send(t, app, req)
}

func send(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp, out
}
