package helper

import "github.com/gofiber/fiber/v2"

// ErrorHandler is the app-wide fiber error handler (unknown routes, body
// limits, panics recovered upstream). *fiber.Error keeps its status,
// anything else goes through the service error mapping.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromServiceError(c, err)
}
