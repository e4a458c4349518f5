package reconciliation

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the reconciliation HTTP endpoint.
type Handler struct {
	service *Service
}

// NewHandler builds a reconciliation handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Report returns the merchant's reconciliation figures.
func (h *Handler) Report(c *fiber.Ctx) error {
	report, err := h.service.Report(c.UserContext(), c.Params("merchantCode"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"merchantCode":     report.MerchantCode,
		"currency":         report.Currency,
		"walletAvailable":  report.WalletAvailable,
		"walletPending":    report.WalletPending,
		"derivedAvailable": report.DerivedAvailable,
		"derivedPending":   report.DerivedPending,
		"totalPaidOut":     report.TotalPaidOut,
		"balanced":         report.Balanced,
	})
}
