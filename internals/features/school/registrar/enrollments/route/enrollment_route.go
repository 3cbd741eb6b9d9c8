package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"registrar_backend/internals/features/school/registrar/enrollments/controller"
	"registrar_backend/internals/middlewares"
)

// EnrollmentRoutes mounts /enrollments plus the enrollment endpoints nested
// under /subjects/:code.
func EnrollmentRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewEnrollmentController(db)

	r.Get("/enrollments", ctl.List)

	s := r.Group("/subjects/:code")
	s.Get("/eligible-students", ctl.Eligible)
	s.Post("/enrollments", middlewares.BatchRateLimiter(), ctl.Enroll)
	s.Delete("/enrollments/:student_id", ctl.Unenroll)
}
