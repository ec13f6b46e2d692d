package handlers

import (
	"fidelite/internal/middleware"
	"fidelite/internal/services/offer"
	"fidelite/internal/utils/pagination"
	"fidelite/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type OfferHandler struct {
	offerService offer.Service
}

func NewOfferHandler(offerSvc offer.Service) *OfferHandler {
	return &OfferHandler{offerService: offerSvc}
}

func (h *OfferHandler) ListActive(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	page, err := h.offerService.ListActive(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return response.FromError(c, err)
	}
	p.Total = page.Total
	return c.JSON(pagination.Response(p, page.Offers))
}

// ListForMerchant lists a merchant's offers; ?all=true includes expired ones.
func (h *OfferHandler) ListForMerchant(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "merchant id")
	}

	offers, err := h.offerService.ListByMerchant(c.UserContext(), id, !c.QueryBool("all"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Offers retrieved", offers)
}

// ListOwn lists every offer of the signed-in merchant, expired included.
func (h *OfferHandler) ListOwn(c *fiber.Ctx) error {
	offers, err := h.offerService.ListByMerchant(c.UserContext(), middleware.Profile(c), false)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Offers retrieved", offers)
}

func (h *OfferHandler) Create(c *fiber.Ctx) error {
	var input offer.Request
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	o, err := h.offerService.Create(c.UserContext(), middleware.Profile(c), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Offer created", o)
}

func (h *OfferHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "offer id")
	}
	var input offer.Request
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	o, err := h.offerService.Update(c.UserContext(), middleware.Profile(c), id, input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Offer updated", o)
}

func (h *OfferHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "offer id")
	}

	if err := h.offerService.Delete(c.UserContext(), middleware.Profile(c), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Offer deleted", nil)
}
