package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"registrar_backend/internals/configs"
	"registrar_backend/internals/features/school/registrar/subjects/controller"
)

// SubjectRoutes mounts /subjects. Enrollment endpoints under
// /subjects/:code live with the enrollments feature.
func SubjectRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewSubjectController(db, configs.SectionsStrict())

	g := r.Group("/subjects")
	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
	g.Get("/:code", ctl.Get)
	g.Get("/:code/info", ctl.Info)
	g.Patch("/:code", ctl.Patch)
	g.Delete("/:code", ctl.Delete)
	g.Post("/:code/archive", ctl.Archive)
	g.Post("/:code/unarchive", ctl.Unarchive)
}
