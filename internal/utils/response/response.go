package response

import (
	domainErrors "fidelite/internal/errors"
	"fidelite/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, "BAD_REQUEST", message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
}

func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, "FORBIDDEN", message)
}

// StatusFor maps a domain error kind to its HTTP status.
func StatusFor(kind domainErrors.Kind) int {
	switch kind {
	case domainErrors.KindValidation:
		return fiber.StatusBadRequest
	case domainErrors.KindNotFound:
		return fiber.StatusNotFound
	case domainErrors.KindConflict:
		return fiber.StatusConflict
	case domainErrors.KindUnauthorized:
		return fiber.StatusUnauthorized
	case domainErrors.KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// FromError writes err as a JSON error response. Provider and unclassified
// errors are logged and answered with a generic message.
func FromError(c *fiber.Ctx, err error) error {
	kind := domainErrors.KindOf(err)
	status := StatusFor(kind)

	if status == fiber.StatusInternalServerError {
		logger.FromFiber(c).Error("request failed",
			zap.String("path", c.Path()),
			zap.String("code", domainErrors.CodeOf(err)),
			zap.Error(err),
		)
		return Error(c, status, domainErrors.CodeOf(err), "internal server error")
	}

	var de *domainErrors.DomainError
	domainErrors.As(err, &de)
	return Error(c, status, de.Code, de.Message)
}
