package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"registrar_backend/internals/helpers/apperr"
)

// Success response (200)
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return SuccessWithCode(c, fiber.StatusOK, message, data)
}

// Success response with custom code (e.g. 201 on create)
func SuccessWithCode(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "error",
		"message": message,
	})
}

// Error response carrying per-field errors
func ErrorWithDetails(c *fiber.Ctx, code int, message string, errors interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "error",
		"message": message,
		"errors":  errors,
	})
}

// StatusFor maps an apperr kind onto an HTTP status.
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return fiber.StatusUnprocessableEntity
	case apperr.KindDuplicateKey, apperr.KindIntegrity:
		return fiber.StatusConflict
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// FromServiceError renders any error returned by a service. Internal errors
// are logged and hidden behind a generic message.
func FromServiceError(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return Error(c, fe.Code, fe.Message)
		}
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
		return Error(c, fiber.StatusInternalServerError, "internal server error")
	}

	code := StatusFor(ae)
	if len(ae.Fields) > 0 {
		return ErrorWithDetails(c, code, ae.Error(), ae.Fields)
	}
	return Error(c, code, ae.Error())
}
