package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"registrar_backend/internals/features/school/registrar/courses/dto"
	"registrar_backend/internals/features/school/registrar/courses/service"
	helper "registrar_backend/internals/helpers"
)

type CourseController struct {
	svc *service.CourseService
}

func NewCourseController(db *gorm.DB) *CourseController {
	return &CourseController{svc: service.NewCourseService(db)}
}

// POST /api/courses
func (h *CourseController) Create(c *fiber.Ctx) error {
	var req dto.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid payload")
	}
	ent, err := h.svc.Create(c.UserContext(), req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "course created", dto.FromCourseModel(*ent))
}

// GET /api/courses
func (h *CourseController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	rows, total, err := h.svc.List(c.UserContext(), service.CourseFilter{
		Q:      c.Query("q"),
		Offset: p.Offset,
		Limit:  p.Limit,
	})
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromCourseModels(rows), helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /api/courses/:abv
func (h *CourseController) Get(c *fiber.Ctx) error {
	ent, err := h.svc.Get(c.UserContext(), c.Params("abv"))
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromCourseModel(*ent))
}

// PATCH /api/courses/:abv
func (h *CourseController) Patch(c *fiber.Ctx) error {
	var req dto.PatchCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid payload")
	}
	ent, err := h.svc.Update(c.UserContext(), c.Params("abv"), req)
	if err != nil {
		log.Printf("[COURSES][PATCH] %s failed: %v", c.Params("abv"), err)
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "course updated", dto.FromCourseModel(*ent))
}

// DELETE /api/courses/:abv
func (h *CourseController) Delete(c *fiber.Ctx) error {
	abv := dto.NormalizeAbv(c.Params("abv"))
	if err := h.svc.Delete(c.UserContext(), abv); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonDeleted(c, "course deleted", fiber.Map{"course_abv": abv})
}
