package handlers

import (
	"errors"

	"fidelite/internal/middleware"
	"fidelite/internal/repositories"
	"fidelite/internal/services/ledger"
	"fidelite/internal/utils/pagination"
	"fidelite/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// IdempotencyKeyHeader lets a client retry an award without double counting.
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 64

type LedgerHandler struct {
	ledgerService ledger.Service
}

func NewLedgerHandler(ledgerSvc ledger.Service) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerSvc}
}

// awardInput accepts the amount as a JSON number or string.
type awardInput struct {
	LookupCode string          `json:"lookup_code"`
	Amount     decimal.Decimal `json:"amount"`
	Coupons    int             `json:"coupons"`
	OfferID    *uint           `json:"offer_id"`
}

func (in awardInput) request(c *fiber.Ctx) ledger.AwardRequest {
	return ledger.AwardRequest{
		LookupCode:     in.LookupCode,
		Amount:         in.Amount,
		Coupons:        in.Coupons,
		IdempotencyKey: c.Get(IdempotencyKeyHeader),
	}
}

func (h *LedgerHandler) Preview(c *fiber.Ctx) error {
	var input awardInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	preview, err := h.ledgerService.Preview(c.UserContext(), middleware.Profile(c), input.request(c), input.OfferID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Preview computed", preview)
}

func (h *LedgerHandler) Award(c *fiber.Ctx) error {
	var input awardInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if len(c.Get(IdempotencyKeyHeader)) > maxIdempotencyKeyLength {
		return response.BadRequest(c, "Idempotency-Key is too long")
	}

	result, err := h.ledgerService.AwardPoints(c.UserContext(), middleware.Profile(c), input.request(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return awarded(c, result)
}

func (h *LedgerHandler) RedeemOffer(c *fiber.Ctx) error {
	var input awardInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.OfferID == nil || *input.OfferID == 0 {
		return response.BadRequest(c, "offer_id is required")
	}

	if len(c.Get(IdempotencyKeyHeader)) > maxIdempotencyKeyLength {
		return response.BadRequest(c, "Idempotency-Key is too long")
	}

	result, err := h.ledgerService.RedeemOffer(c.UserContext(), middleware.Profile(c), *input.OfferID, input.request(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return awarded(c, result)
}

// awarded answers 201 for a new transaction and 200 for a replay.
func awarded(c *fiber.Ctx, result *ledger.AwardResult) error {
	if result.Replayed {
		return response.Success(c, "Transaction already recorded", result)
	}
	return response.Created(c, "Points awarded", result)
}

func (h *LedgerHandler) MerchantTransactions(c *fiber.Ctx) error {
	return h.transactions(c, func(f *repositories.TransactionFilter) { f.MerchantID = middleware.Profile(c) })
}

func (h *LedgerHandler) CustomerTransactions(c *fiber.Ctx) error {
	return h.transactions(c, func(f *repositories.TransactionFilter) { f.CustomerID = middleware.Profile(c) })
}

func (h *LedgerHandler) MerchantSummary(c *fiber.Ctx) error {
	return h.summary(c, func(f *repositories.TransactionFilter) { f.MerchantID = middleware.Profile(c) })
}

func (h *LedgerHandler) CustomerSummary(c *fiber.Ctx) error {
	return h.summary(c, func(f *repositories.TransactionFilter) { f.CustomerID = middleware.Profile(c) })
}

// AdminTransactions lists any ledger slice selected by the merchant_id and
// customer_id query parameters. At least one of them is required.
func (h *LedgerHandler) AdminTransactions(c *fiber.Ctx) error {
	scope, err := adminScope(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	return h.transactions(c, scope)
}

func (h *LedgerHandler) AdminSummary(c *fiber.Ctx) error {
	scope, err := adminScope(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	return h.summary(c, scope)
}

func adminScope(c *fiber.Ctx) (func(*repositories.TransactionFilter), error) {
	merchantID, err := queryID(c, "merchant_id")
	if err != nil {
		return nil, errors.New("invalid merchant_id")
	}
	customerID, err := queryID(c, "customer_id")
	if err != nil {
		return nil, errors.New("invalid customer_id")
	}
	if merchantID == 0 && customerID == 0 {
		return nil, errors.New("merchant_id or customer_id is required")
	}
	return func(f *repositories.TransactionFilter) {
		f.MerchantID = merchantID
		f.CustomerID = customerID
	}, nil
}

func (h *LedgerHandler) transactions(c *fiber.Ctx, scope func(*repositories.TransactionFilter)) error {
	filter, err := transactionFilter(c)
	if err != nil {
		return response.BadRequest(c, "invalid date range")
	}
	scope(&filter)
	p := pagination.ParseFromRequest(c)

	txns, total, err := h.ledgerService.ListTransactions(c.UserContext(), filter, p.Limit, p.Offset)
	if err != nil {
		return response.FromError(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, txns))
}

func (h *LedgerHandler) summary(c *fiber.Ctx, scope func(*repositories.TransactionFilter)) error {
	filter, err := transactionFilter(c)
	if err != nil {
		return response.BadRequest(c, "invalid date range")
	}
	scope(&filter)

	summary, err := h.ledgerService.Summary(c.UserContext(), filter)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Summary computed", summary)
}
