package handlers

import (
	"strings"

	"fidelite/internal/middleware"
	"fidelite/internal/repositories"
	"fidelite/internal/services/analytics"
	"fidelite/internal/services/merchant"
	"fidelite/internal/utils/pagination"
	"fidelite/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type MerchantHandler struct {
	merchantService  merchant.Service
	analyticsService analytics.Service
}

func NewMerchantHandler(merchantSvc merchant.Service, analyticsSvc analytics.Service) *MerchantHandler {
	return &MerchantHandler{
		merchantService:  merchantSvc,
		analyticsService: analyticsSvc,
	}
}

// ListMerchants is public; city and category narrow the listing.
func (h *MerchantHandler) ListMerchants(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	filter := repositories.MerchantFilter{
		City:     strings.TrimSpace(c.Query("city")),
		Category: strings.TrimSpace(c.Query("category")),
	}

	page, err := h.merchantService.List(c.UserContext(), filter, p.Limit, p.Offset)
	if err != nil {
		return response.FromError(c, err)
	}
	p.Total = page.Total
	return c.JSON(pagination.Response(p, page.Merchants))
}

func (h *MerchantHandler) GetStorefront(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "merchant id")
	}

	front, err := h.merchantService.GetStorefront(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Merchant retrieved", front)
}

func (h *MerchantHandler) GetProfile(c *fiber.Ctx) error {
	m, err := h.merchantService.GetProfile(c.UserContext(), middleware.Profile(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile retrieved", m)
}

func (h *MerchantHandler) UpdateProfile(c *fiber.Ctx) error {
	var input merchant.UpdateProfileRequest
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	m, err := h.merchantService.UpdateProfile(c.UserContext(), middleware.Profile(c), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile updated successfully", m)
}

// CustomerAnalytics describes the age and city mix of the merchant's customers.
func (h *MerchantHandler) CustomerAnalytics(c *fiber.Ctx) error {
	return h.customerAnalytics(c, middleware.Profile(c))
}

// AdminCustomerAnalytics reports on the merchant named by the merchant_id
// query parameter.
func (h *MerchantHandler) AdminCustomerAnalytics(c *fiber.Ctx) error {
	merchantID, err := queryID(c, "merchant_id")
	if err != nil || merchantID == 0 {
		return response.BadRequest(c, "merchant_id is required")
	}
	return h.customerAnalytics(c, merchantID)
}

func (h *MerchantHandler) AdminGetMerchant(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "merchant id")
	}
	m, err := h.merchantService.GetProfile(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Merchant retrieved", m)
}

func (h *MerchantHandler) customerAnalytics(c *fiber.Ctx, merchantID uint) error {
	dist, err := h.analyticsService.ForMerchant(c.UserContext(), merchantID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Customer analytics", dist)
}
