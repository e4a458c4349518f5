package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/nairapay/nairapay/internal/config"
)

const (
	appIDHeader  = "x-app-id"
	appKeyHeader = "x-app-key"
)

// APIAuth checks the gateway credentials presented in the x-app-id and
// x-app-key headers. Comparison is constant time so the key cannot be probed
// byte by byte. With no credentials configured (dev mode) the check is a
// no-op.
func APIAuth(creds config.Credentials, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if creds.AppID == "" && creds.AppKey == "" {
			return c.Next()
		}

		appID := c.Get(appIDHeader)
		appKey := c.Get(appKeyHeader)
		if appID == "" || appKey == "" {
			logger.Warn("authentication failed: missing credentials")
			return fiber.NewError(http.StatusUnauthorized, "authentication required")
		}

		idOK := subtle.ConstantTimeCompare([]byte(appID), []byte(creds.AppID)) == 1
		keyOK := subtle.ConstantTimeCompare([]byte(appKey), []byte(creds.AppKey)) == 1
		if !idOK || !keyOK {
			logger.Warn("authentication failed", slog.String("app_id", appID))
			return fiber.NewError(http.StatusForbidden, "invalid credentials")
		}

		return c.Next()
	}
}
