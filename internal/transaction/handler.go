package transaction

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes payment submission and settlement HTTP endpoints.
type Handler struct {
	processor *Processor
	settler   *Settler
}

// NewHandler builds a transaction HTTP handler.
func NewHandler(processor *Processor, settler *Settler) *Handler {
	return &Handler{processor: processor, settler: settler}
}

// ProcessCard accepts a card payment submission.
func (h *Handler) ProcessCard(c *fiber.Ctx) error {
	var req CardRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	tx, err := h.processor.ProcessCard(c.UserContext(), CardInput{
		MerchantCode: req.MerchantCode,
		Value:        req.Value,
		Description:  req.Description,
		CardNumber:   req.CardNumber,
		CardHolder:   req.CardHolder,
		Expiry:       req.Expiry,
		CVV:          req.CVV,
		Currency:     req.Currency,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(ToResponse(tx))
}

// ProcessVirtualAccount accepts a bank-transfer payment submission.
func (h *Handler) ProcessVirtualAccount(c *fiber.Ctx) error {
	var req VirtualAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	tx, err := h.processor.ProcessVirtualAccount(c.UserContext(), VirtualAccountInput{
		MerchantCode: req.MerchantCode,
		Value:        req.Value,
		Description:  req.Description,
		AccountName:  req.AccountName,
		AccountNum:   req.AccountNum,
		BankCode:     req.BankCode,
		Currency:     req.Currency,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(ToResponse(tx))
}

// Settle matches a settlement confirmation against its pending card
// transaction.
func (h *Handler) Settle(c *fiber.Ctx) error {
	var req SettlementRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	tx, err := h.settler.SettleCard(c.UserContext(), SettlementInput{
		Reference:    req.Reference,
		Amount:       req.Amount,
		CardNumber:   req.CardNumber,
		Currency:     req.Currency,
		MerchantCode: req.MerchantCode,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(ToResponse(tx))
}

// List returns all transactions.
func (h *Handler) List(c *fiber.Ctx) error {
	txs, err := h.processor.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponses(txs))
}

// ListByMerchant returns one merchant's transactions.
func (h *Handler) ListByMerchant(c *fiber.Ctx) error {
	txs, err := h.processor.ListByMerchant(c.UserContext(), c.Params("merchantCode"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponses(txs))
}

func toResponses(txs []Transaction) []Response {
	out := make([]Response, 0, len(txs))
	for _, tx := range txs {
		out = append(out, ToResponse(tx))
	}
	return out
}
