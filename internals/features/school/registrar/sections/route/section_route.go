package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"registrar_backend/internals/features/school/registrar/sections/controller"
	"registrar_backend/internals/middlewares"
)

func SectionRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewSectionController(db)

	g := r.Group("/sections")
	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
	g.Post("/seed", middlewares.BatchRateLimiter(), ctl.Seed)
	g.Delete("/:id", ctl.Delete)
}
