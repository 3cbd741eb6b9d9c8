package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	ActivityRoutes "registrar_backend/internals/features/school/registrar/activities/route"
	CourseRoutes "registrar_backend/internals/features/school/registrar/courses/route"
	DashboardRoutes "registrar_backend/internals/features/school/registrar/dashboard/route"
	EnrollmentRoutes "registrar_backend/internals/features/school/registrar/enrollments/route"
	SectionRoutes "registrar_backend/internals/features/school/registrar/sections/route"
	StudentRoutes "registrar_backend/internals/features/school/registrar/students/route"
	SubjectRoutes "registrar_backend/internals/features/school/registrar/subjects/route"
)

/* ===================== REGISTRAR ===================== */
// Everything under /api. No auth: the service runs behind the school network.
func SchoolRoutes(r fiber.Router, db *gorm.DB) {
	CourseRoutes.CourseRoutes(r, db)
	SectionRoutes.SectionRoutes(r, db)
	StudentRoutes.StudentRoutes(r, db)

	EnrollmentRoutes.EnrollmentRoutes(r, db)
	SubjectRoutes.SubjectRoutes(r, db)

	ActivityRoutes.ActivityRoutes(r, db)
	DashboardRoutes.DashboardRoutes(r, db)
}
