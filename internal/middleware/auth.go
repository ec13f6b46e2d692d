// Package middleware provides the authentication and authorization handlers
// placed in front of the protected API routes.
package middleware

import (
	"strings"

	"fidelite/internal/logger"
	"fidelite/internal/services/auth"
	"fidelite/internal/utils"
	"fidelite/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthMiddleware validates bearer tokens and stores their claims in the
// request locals.
type AuthMiddleware struct {
	authService auth.Service
	secret      string
}

func NewAuthMiddleware(authService auth.Service, secret string) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		secret:      secret,
	}
}

// Handler checks for:
// - an Authorization header with a Bearer token
// - a valid signature, issuer and expiry
// - a token version matching the account's current version
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return response.Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing authorization header")
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return response.Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization format")
	}

	claims, err := utils.ParseToken(strings.TrimPrefix(header, "Bearer "), m.secret)
	if err != nil {
		logger.FromFiber(c).Debug("token rejected", zap.Error(err))
		return response.Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
	}

	if err := m.authService.ValidateTokenVersion(c.UserContext(), claims); err != nil {
		return response.FromError(c, err)
	}

	logger.With(c, zap.Uint("account_id", claims.AccountID), zap.String("role", claims.Role))
	c.Locals(utils.ClaimsKey, claims)
	return c.Next()
}

// HasPermission returns a middleware that checks for a specific permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return response.Unauthorized(c)
		}
		if claims.HasPermission(permission) {
			return c.Next()
		}
		return response.Forbidden(c, "insufficient permissions")
	}
}

// RequireRole restricts a route group to one or more account roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return response.Unauthorized(c)
		}
		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}
		return response.Forbidden(c, "insufficient permissions")
	}
}

// Profile returns the customer or merchant id the token was issued for.
func Profile(c *fiber.Ctx) uint {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return 0
	}
	return claims.ProfileID
}
