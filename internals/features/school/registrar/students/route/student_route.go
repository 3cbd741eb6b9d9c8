package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"registrar_backend/internals/configs"
	"registrar_backend/internals/features/school/registrar/students/controller"
)

func StudentRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewStudentController(db, configs.SectionsStrict())

	g := r.Group("/students")
	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", ctl.Patch)
	g.Delete("/:id", ctl.Delete)
}
