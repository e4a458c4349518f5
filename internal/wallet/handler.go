package wallet

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes wallet balance HTTP endpoints.
type Handler struct {
	ledger *Ledger
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(ledger *Ledger) *Handler {
	return &Handler{ledger: ledger}
}

// Balance returns the merchant's available and pending balances.
func (h *Handler) Balance(c *fiber.Ctx) error {
	balance, err := h.ledger.Balance(c.UserContext(), c.Params("merchantCode"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"merchantCode": balance.MerchantCode,
		"available":    balance.Available,
		"pending":      balance.Pending,
		"currency":     balance.Currency,
		"asOf":         balance.AsOf,
	})
}
