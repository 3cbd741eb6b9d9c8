package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"registrar_backend/internals/features/school/registrar/courses/controller"
)

// CourseRoutes mounts /courses under r.
func CourseRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewCourseController(db)

	g := r.Group("/courses")
	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
	g.Get("/:abv", ctl.Get)
	g.Patch("/:abv", ctl.Patch)
	g.Delete("/:abv", ctl.Delete)
}
