package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nairapay/nairapay/internal/payout"
	"github.com/nairapay/nairapay/internal/transaction"
	"github.com/nairapay/nairapay/internal/wallet"
)

// RegisterTransactionRoutes wires payment submission, settlement, balance and
// payout endpoints under /transactions. Static path segments register before
// the :merchantCode catch-all.
func RegisterTransactionRoutes(r fiber.Router, h *transaction.Handler, w *wallet.Handler, p *payout.Handler) {
	g := r.Group("/transactions")
	g.Post("/card", h.ProcessCard)
	g.Post("/virtual-account", h.ProcessVirtualAccount)
	g.Post("/settlement", h.Settle)
	g.Post("/payout", p.Create)
	g.Get("/", h.List)
	g.Get("/balance/:merchantCode", w.Balance)
	g.Get("/payouts/:merchantCode", p.ListByMerchant)
	g.Get("/:merchantCode", h.ListByMerchant)
}
