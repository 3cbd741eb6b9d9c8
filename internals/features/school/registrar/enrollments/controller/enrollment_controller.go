package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"registrar_backend/internals/features/school/registrar/enrollments/dto"
	"registrar_backend/internals/features/school/registrar/enrollments/service"
	subjectDTO "registrar_backend/internals/features/school/registrar/subjects/dto"
	helper "registrar_backend/internals/helpers"
)

type EnrollmentController struct {
	svc *service.EnrollmentService
}

func NewEnrollmentController(db *gorm.DB) *EnrollmentController {
	return &EnrollmentController{svc: service.NewEnrollmentService(db)}
}

// GET /api/enrollments?subject=
func (h *EnrollmentController) List(c *fiber.Ctx) error {
	rows, err := h.svc.List(c.UserContext(), c.Query("subject"))
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// POST /api/subjects/:code/enrollments
func (h *EnrollmentController) Enroll(c *fiber.Ctx) error {
	var req dto.EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid payload")
	}
	code := subjectDTO.NormalizeCode(c.Params("code"))
	requested := len(req.StudentIDs)

	n, err := h.svc.Enroll(c.UserContext(), code, req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "students enrolled", dto.EnrollResponse{
		SubjectCode: code,
		Requested:   requested,
		Enrolled:    n,
	})
}

// DELETE /api/subjects/:code/enrollments/:student_id
func (h *EnrollmentController) Unenroll(c *fiber.Ctx) error {
	code := subjectDTO.NormalizeCode(c.Params("code"))
	sid := c.Params("student_id")
	if err := h.svc.Unenroll(c.UserContext(), code, sid); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonDeleted(c, "student unenrolled", fiber.Map{"subject_code": code, "student_id": sid})
}

// GET /api/subjects/:code/eligible-students
func (h *EnrollmentController) Eligible(c *fiber.Ctx) error {
	sub, rows, err := h.svc.Eligible(c.UserContext(), c.Params("code"))
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromEligible(rows, sub.SubjectCourseAbv, sub.SubjectYearLevel, sub.SubjectSection))
}
