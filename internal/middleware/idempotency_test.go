package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/nairapay/nairapay/internal/logging"
)

func setupIdempotencyApp(t *testing.T) (*fiber.App, *atomic.Int64, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))

	var handled atomic.Int64
	app.Post("/payments", func(c *fiber.Ctx) error {
		handled.Add(1)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"reference": "CARD-1"})
	})

	cleanup := func() {
		cache.Close()
		mr.Close()
	}

	return app, &handled, cleanup
}

func TestIdempotencyWithoutKeyPassesThrough(t *testing.T) {
	app, handled, cleanup := setupIdempotencyApp(t)
	defer cleanup()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(fiber.MethodPost, "/payments", strings.NewReader("{}"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("expected %d got %d", fiber.StatusCreated, resp.StatusCode)
		}
	}

	// No key means no replay protection; each request hits the handler.
	if got := handled.Load(); got != 2 {
		t.Fatalf("expected handler invoked twice, got %d", got)
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	app, handled, cleanup := setupIdempotencyApp(t)
	defer cleanup()

	send := func() (int, string) {
		req := httptest.NewRequest(fiber.MethodPost, "/payments", strings.NewReader("{}"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(idempotencyKeyHeader, "retry-1")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode, string(body)
	}

	firstStatus, firstBody := send()
	if firstStatus != fiber.StatusCreated {
		t.Fatalf("expected %d got %d", fiber.StatusCreated, firstStatus)
	}

	secondStatus, secondBody := send()
	if secondStatus != firstStatus {
		t.Fatalf("expected replayed status %d got %d", firstStatus, secondStatus)
	}
	if secondBody != firstBody {
		t.Fatalf("expected replayed body %s got %s", firstBody, secondBody)
	}

	if got := handled.Load(); got != 1 {
		t.Fatalf("expected handler invoked once, got %d", got)
	}
}

func TestIdempotencySkipsSafeMethods(t *testing.T) {
	app, handled, cleanup := setupIdempotencyApp(t)
	defer cleanup()

	app.Get("/payments", func(c *fiber.Ctx) error {
		handled.Add(1)
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(fiber.MethodGet, "/payments", nil)
		req.Header.Set(idempotencyKeyHeader, "read-1")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
	}

	if got := handled.Load(); got != 2 {
		t.Fatalf("expected reads to bypass idempotency, got %d handler calls", got)
	}
}
