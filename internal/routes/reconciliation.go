package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nairapay/nairapay/internal/reconciliation"
)

// RegisterReconciliationRoutes wires the ledger-vs-wallet drift report.
func RegisterReconciliationRoutes(r fiber.Router, h *reconciliation.Handler) {
	r.Get("/reconciliation/:merchantCode", h.Report)
}
