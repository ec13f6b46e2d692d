package handlers

import (
	"fidelite/internal/services/auth"
	"fidelite/internal/utils"
	"fidelite/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an account with its customer or merchant profile and
// returns a session for it.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
		Name     string `json:"name"`
		Address  string `json:"address"`
		City     string `json:"city"`
		Category string `json:"category"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	session, err := h.authService.Register(c.UserContext(), auth.RegisterRequest{
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
		Name:     input.Name,
		Address:  input.Address,
		City:     input.City,
		Category: input.Category,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Account created", session)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Email == "" || input.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	session, err := h.authService.Authenticate(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Login successful", session)
}

// Logout revokes every token issued to the account so far.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	if err := h.authService.Logout(c.UserContext(), claims.AccountID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Logged out", nil)
}
