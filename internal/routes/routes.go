package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nairapay/nairapay/internal/config"
	"github.com/nairapay/nairapay/internal/middleware"
	"github.com/nairapay/nairapay/internal/notification"
	"github.com/nairapay/nairapay/internal/payout"
	"github.com/nairapay/nairapay/internal/reconciliation"
	"github.com/nairapay/nairapay/internal/transaction"
	"github.com/nairapay/nairapay/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.RateLimit(d.Cache, 100))
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	// Stores fall back to in-memory implementations without a database.
	var (
		txStore     transaction.Store
		walletStore wallet.Store
		payoutStore payout.Store
	)
	if d.DB != nil {
		txStore = transaction.NewPostgresStore(d.DB)
		walletStore = wallet.NewPostgresStore(d.DB)
		payoutStore = payout.NewPostgresStore(d.DB)
	} else {
		txStore = transaction.NewMemoryStore()
		walletStore = wallet.NewMemoryStore()
		payoutStore = payout.NewMemoryStore()
	}

	ledger := wallet.NewLedger(walletStore)
	notifier := notification.NewLoggerNotifier(d.Logger)
	fees := transaction.FeesFromPercent(d.Cfg.Fees.CardPercent, d.Cfg.Fees.VirtualAccountPercent)

	processor := transaction.NewProcessor(txStore, ledger, fees)
	settler := transaction.NewSettler(txStore, ledger, notifier)
	issuer := payout.NewIssuer(payoutStore, ledger, notifier)
	reconciler := reconciliation.NewService(txStore, payoutStore, ledger)

	txHandler := transaction.NewHandler(processor, settler)
	walletHandler := wallet.NewHandler(ledger)
	payoutHandler := payout.NewHandler(issuer)
	reconHandler := reconciliation.NewHandler(reconciler)

	api := app.Group("/api/v1", middleware.APIAuth(d.Cfg.Credentials, d.Logger))
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterTransactionRoutes(api, txHandler, walletHandler, payoutHandler)
	RegisterReconciliationRoutes(api, reconHandler)

	return nil
}
