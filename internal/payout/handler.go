package payout

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes payout HTTP endpoints.
type Handler struct {
	issuer *Issuer
}

// NewHandler builds a payout HTTP handler.
func NewHandler(issuer *Issuer) *Handler {
	return &Handler{issuer: issuer}
}

type createRequest struct {
	MerchantCode string `json:"merchantCode"`
}

type payoutResponse struct {
	Reference    string          `json:"reference"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	MerchantCode string          `json:"merchantCode"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Create sweeps the merchant's available balance into a payout.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	p, err := h.issuer.Issue(c.UserContext(), req.MerchantCode)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(toResponse(p))
}

// ListByMerchant returns one merchant's payouts.
func (h *Handler) ListByMerchant(c *fiber.Ctx) error {
	payouts, err := h.issuer.ListByMerchant(c.UserContext(), c.Params("merchantCode"))
	if err != nil {
		return err
	}
	out := make([]payoutResponse, 0, len(payouts))
	for _, p := range payouts {
		out = append(out, toResponse(p))
	}
	return c.Status(http.StatusOK).JSON(out)
}

func toResponse(p Payout) payoutResponse {
	return payoutResponse{
		Reference:    p.Reference,
		Amount:       p.Amount,
		Currency:     p.Currency,
		MerchantCode: p.MerchantCode,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
	}
}
