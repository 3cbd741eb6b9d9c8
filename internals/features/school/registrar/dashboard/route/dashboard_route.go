package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"registrar_backend/internals/features/school/registrar/dashboard/controller"
)

func DashboardRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewDashboardController(db)
	r.Get("/dashboard", ctl.Get)
}
