package logger

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	assert.Same(t, L(), FromContext(context.Background()))

	child := zap.NewExample()
	ctx := WithContext(context.Background(), child)
	assert.Same(t, child, FromContext(ctx))
}

func TestMiddleware_SetsRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())

	var sawLogger bool
	app.Get("/", func(c *fiber.Ctx) error {
		_, sawLogger = c.UserContext().Value(loggerKey).(*zap.Logger)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
	assert.True(t, sawLogger)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestInit(t *testing.T) {
	require.NoError(t, Init("debug", "development"))
	assert.NotNil(t, L())
	require.NoError(t, Init("not-a-level", "production"))
}
