package handlers

import (
	"fidelite/internal/middleware"
	"fidelite/internal/services/customer"
	"fidelite/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	customerService customer.Service
}

func NewCustomerHandler(customerSvc customer.Service) *CustomerHandler {
	return &CustomerHandler{customerService: customerSvc}
}

func (h *CustomerHandler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.customerService.GetProfile(c.UserContext(), middleware.Profile(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile retrieved", profile)
}

func (h *CustomerHandler) UpdateProfile(c *fiber.Ctx) error {
	var input customer.UpdateProfileRequest
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	profile, err := h.customerService.UpdateProfile(c.UserContext(), middleware.Profile(c), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile updated successfully", profile)
}

func (h *CustomerHandler) RotateLookupCode(c *fiber.Ctx) error {
	code, err := h.customerService.RotateLookupCode(c.UserContext(), middleware.Profile(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Lookup code rotated", fiber.Map{"lookup_code": code})
}

func (h *CustomerHandler) AddOffer(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "offer id")
	}
	if err := h.customerService.AddOffer(c.UserContext(), middleware.Profile(c), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Offer added", nil)
}

func (h *CustomerHandler) RemoveOffer(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "offer id")
	}
	if err := h.customerService.RemoveOffer(c.UserContext(), middleware.Profile(c), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Offer removed", nil)
}

func (h *CustomerHandler) Rate(c *fiber.Ctx) error {
	merchantID, ok := paramID(c, "merchantId")
	if !ok {
		return invalidID(c, "merchant id")
	}
	var input struct {
		Rating int `json:"rating"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.customerService.Rate(c.UserContext(), middleware.Profile(c), merchantID, input.Rating); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Rating saved", fiber.Map{"merchant_id": merchantID, "rating": input.Rating})
}

// DeleteAccount removes the signed-in customer. The token stops working
// because the account no longer exists.
func (h *CustomerHandler) DeleteAccount(c *fiber.Ctx) error {
	if err := h.customerService.DeleteAccount(c.UserContext(), middleware.Profile(c)); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Account deleted", nil)
}
