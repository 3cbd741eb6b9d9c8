package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"registrar_backend/internals/features/school/registrar/activities/controller"
	"registrar_backend/internals/middlewares"
)

func ActivityRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewActivityController(db)

	g := r.Group("/activities")
	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", ctl.Patch)
	g.Delete("/:id", ctl.Delete)
	g.Get("/:id/pending", ctl.Pending)
	g.Get("/:id/grades", ctl.GradeSheet)
	g.Put("/:id/grades", middlewares.BatchRateLimiter(), ctl.UpsertGrades)
}
