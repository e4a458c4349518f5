package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/nairapay/nairapay/internal/config"
	"github.com/nairapay/nairapay/internal/logging"
)

func setupAuthApp(creds config.Credentials) *fiber.App {
	app := fiber.New()
	app.Use(APIAuth(creds, logging.Discard()))
	app.Get("/protected", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAPIAuth(t *testing.T) {
	creds := config.Credentials{AppID: "gateway", AppKey: "secret"}

	cases := []struct {
		name   string
		appID  string
		appKey string
		want   int
	}{
		{name: "valid credentials", appID: "gateway", appKey: "secret", want: fiber.StatusOK},
		{name: "missing headers", want: fiber.StatusUnauthorized},
		{name: "missing key", appID: "gateway", want: fiber.StatusUnauthorized},
		{name: "wrong key", appID: "gateway", appKey: "guess", want: fiber.StatusForbidden},
		{name: "wrong id", appID: "intruder", appKey: "secret", want: fiber.StatusForbidden},
	}

	app := setupAuthApp(creds)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
			if tc.appID != "" {
				req.Header.Set(appIDHeader, tc.appID)
			}
			if tc.appKey != "" {
				req.Header.Set(appKeyHeader, tc.appKey)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			resp.Body.Close()

			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestAPIAuthDisabledWithoutCredentials(t *testing.T) {
	app := setupAuthApp(config.Credentials{})

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected open access in dev mode, got %d", resp.StatusCode)
	}
}
