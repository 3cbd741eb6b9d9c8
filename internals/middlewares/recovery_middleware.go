package middlewares

import (
	"log"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// RecoveryMiddleware turns a panic into an error for helper.ErrorHandler,
// which answers with the usual 500 envelope.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace:  true,
		StackTraceHandler: logPanic,
	})
}

// RequestContext never reaches its log line on a panic, so this one
// carries the request id.
func logPanic(c *fiber.Ctx, e interface{}) {
	id, _ := c.Locals("reqid").(string)
	log.Printf("[PANIC] id=%s %s %s: %v\n%s", id, c.Method(), c.OriginalURL(), e, debug.Stack())
}
