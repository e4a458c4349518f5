package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nairapay/nairapay/internal/config"
	"github.com/nairapay/nairapay/internal/payout"
	"github.com/nairapay/nairapay/internal/routes"
	"github.com/nairapay/nairapay/internal/transaction"
	"github.com/nairapay/nairapay/internal/validate"
	"github.com/nairapay/nairapay/internal/wallet"
)

// Server wraps the Fiber application and shared dependencies.
type Server struct {
	app   *fiber.App
	cfg   config.Config
	db    *pgxpool.Pool
	cache *redis.Client
}

// New instantiates the HTTP server and delegates route wiring to
// routes.Setup. Domain errors are translated into HTTP responses in one
// place so handlers can return them untouched.
func New(cfg config.Config, db *pgxpool.Pool, cache *redis.Client, logger *slog.Logger) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: errorHandler,
	})

	if err := routes.Setup(app, routes.Deps{Cfg: cfg, DB: db, Cache: cache, Logger: logger}); err != nil {
		return nil, err
	}

	return &Server{app: app, cfg: cfg, db: db, cache: cache}, nil
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// errorHandler maps domain errors onto HTTP status codes. Anything not in
// the taxonomy is treated as a dependency failure the caller may retry.
func errorHandler(c *fiber.Ctx, err error) error {
	var (
		verr     *validate.Error
		mismatch *transaction.MismatchError
		fiberErr *fiber.Error
	)

	status := http.StatusBadGateway
	switch {
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
	case errors.As(err, &verr):
		status = http.StatusBadRequest
	case errors.As(err, &mismatch):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, transaction.ErrNotFound), errors.Is(err, wallet.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, transaction.ErrAlreadySettled):
		status = http.StatusConflict
	case errors.Is(err, wallet.ErrInsufficientFunds), errors.Is(err, payout.ErrNoFunds):
		status = http.StatusUnprocessableEntity
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": err.Error(),
	})
}
