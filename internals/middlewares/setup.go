package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"registrar_backend/internals/configs"
	"registrar_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the app-wide middleware chain.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestContext(configs.RequestTimeout()))
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware())
	app.Use(MetricsMiddleware())
	app.Use(GlobalRateLimiter())
}
