package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	courseDTO "registrar_backend/internals/features/school/registrar/courses/dto"
	"registrar_backend/internals/features/school/registrar/sections/dto"
	"registrar_backend/internals/features/school/registrar/sections/service"
	helper "registrar_backend/internals/helpers"
)

type SectionController struct {
	svc *service.SectionService
}

func NewSectionController(db *gorm.DB) *SectionController {
	return &SectionController{svc: service.NewSectionService(db)}
}

// GET /api/sections?course=&year_level=
func (h *SectionController) List(c *fiber.Ctx) error {
	year, _ := strconv.Atoi(c.Query("year_level"))
	rows, err := h.svc.List(c.UserContext(), service.SectionFilter{
		CourseAbv: courseDTO.NormalizeAbv(c.Query("course")),
		YearLevel: year,
	})
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromSectionModels(rows))
}

// POST /api/sections
func (h *SectionController) Create(c *fiber.Ctx) error {
	var req dto.CreateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid payload")
	}
	ent, err := h.svc.Create(c.UserContext(), req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "section created", dto.FromSectionModel(*ent))
}

// DELETE /api/sections/:id
func (h *SectionController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid section id")
	}
	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonDeleted(c, "section deleted", fiber.Map{"section_id": id})
}

// POST /api/sections/seed
func (h *SectionController) Seed(c *fiber.Ctx) error {
	var req dto.SeedSectionsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "invalid payload")
		}
	}
	n, err := h.svc.SeedDefaults(c.UserContext(), req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "sections seeded", fiber.Map{"created": n})
}
