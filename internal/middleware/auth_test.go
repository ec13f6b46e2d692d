package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"fidelite/internal/models"
	"fidelite/internal/services/auth"
	"fidelite/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.Session, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(*auth.Session)
	return s, args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, email, password string) (*auth.Session, error) {
	args := m.Called(ctx, email, password)
	s, _ := args.Get(0).(*auth.Session)
	return s, args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, accountID uint) error {
	return m.Called(ctx, accountID).Error(0)
}

func (m *MockAuthService) ValidateTokenVersion(ctx context.Context, claims *models.UserClaims) error {
	return m.Called(claims.AccountID, claims.TokenVersion).Error(0)
}

func token(t *testing.T, role string, version int) string {
	t.Helper()
	tok, err := utils.GenerateToken(&models.UserClaims{
		AccountID:    7,
		ProfileID:    70,
		Role:         role,
		Permissions:  models.GetDefaultPermissions(role),
		TokenVersion: version,
	}, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func newApp(svc auth.Service, guards ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{NewAuthMiddleware(svc, testSecret).Handler}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"profile": Profile(c)})
	})
	app.Get("/", handlers...)
	return app
}

func call(t *testing.T, app *fiber.App, authorization string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddleware_Handler(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("ValidateTokenVersion", uint(7), 1).Return(nil)
	svc.On("ValidateTokenVersion", uint(7), 0).Return(auth.ErrTokenRevoked)
	app := newApp(svc)

	assert.Equal(t, fiber.StatusOK, call(t, app, "Bearer "+token(t, models.RoleCustomer, 1)))
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, ""))
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, "Token abc"))
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, "Bearer not-a-jwt"))
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, "Bearer "+token(t, models.RoleCustomer, 0)))
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	svc := new(MockAuthService)
	app := newApp(svc)

	forged, err := utils.GenerateToken(&models.UserClaims{AccountID: 7, Role: models.RoleAdmin}, "other", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, "Bearer "+forged))
	svc.AssertNotCalled(t, "ValidateTokenVersion", mock.Anything, mock.Anything)
}

func TestGuards(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("ValidateTokenVersion", uint(7), 1).Return(nil)

	merchantOnly := newApp(svc, RequireRole(models.RoleMerchant))
	assert.Equal(t, fiber.StatusOK, call(t, merchantOnly, "Bearer "+token(t, models.RoleMerchant, 1)))
	assert.Equal(t, fiber.StatusForbidden, call(t, merchantOnly, "Bearer "+token(t, models.RoleCustomer, 1)))

	ledgerWriters := newApp(svc, HasPermission(models.PermissionLedgerWrite))
	assert.Equal(t, fiber.StatusOK, call(t, ledgerWriters, "Bearer "+token(t, models.RoleMerchant, 1)))
	assert.Equal(t, fiber.StatusForbidden, call(t, ledgerWriters, "Bearer "+token(t, models.RoleAdmin, 1)))

	readers := newApp(svc, HasPermission(models.PermissionLedgerRead))
	assert.Equal(t, fiber.StatusOK, call(t, readers, "Bearer "+token(t, models.RoleAdmin, 1)))
}
