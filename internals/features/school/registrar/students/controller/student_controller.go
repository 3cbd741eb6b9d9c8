package controller

import (
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	courseDTO "registrar_backend/internals/features/school/registrar/courses/dto"
	"registrar_backend/internals/features/school/registrar/students/dto"
	"registrar_backend/internals/features/school/registrar/students/service"
	helper "registrar_backend/internals/helpers"
)

type StudentController struct {
	svc *service.StudentService
}

func NewStudentController(db *gorm.DB, strictSections bool) *StudentController {
	return &StudentController{svc: service.NewStudentService(db, strictSections)}
}

// POST /api/students
func (h *StudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid payload")
	}
	ent, err := h.svc.Create(c.UserContext(), req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "student created", dto.FromStudentModel(*ent))
}

// GET /api/students?course=&year_level=&section=&status=&q=
func (h *StudentController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	year, _ := strconv.Atoi(c.Query("year_level"))

	rows, total, err := h.svc.List(c.UserContext(), service.StudentFilter{
		CourseAbv: courseDTO.NormalizeAbv(c.Query("course")),
		YearLevel: year,
		Section:   strings.TrimSpace(c.Query("section")),
		Status:    strings.TrimSpace(c.Query("status")),
		Q:         c.Query("q"),
		Offset:    p.Offset,
		Limit:     p.Limit,
	})
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromStudentModels(rows), helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /api/students/:id
func (h *StudentController) Get(c *fiber.Ctx) error {
	ent, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromStudentModel(*ent))
}

// PATCH /api/students/:id
func (h *StudentController) Patch(c *fiber.Ctx) error {
	var req dto.PatchStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid payload")
	}
	ent, err := h.svc.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		log.Printf("[STUDENTS][PATCH] %s failed: %v", c.Params("id"), err)
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "student updated", dto.FromStudentModel(*ent))
}

// DELETE /api/students/:id
func (h *StudentController) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonDeleted(c, "student deleted", fiber.Map{"student_id": id})
}
