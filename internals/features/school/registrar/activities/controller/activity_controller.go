package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"registrar_backend/internals/features/school/registrar/activities/dto"
	"registrar_backend/internals/features/school/registrar/activities/service"
	helper "registrar_backend/internals/helpers"
)

type ActivityController struct {
	DB  *gorm.DB
	svc *service.ActivityService
}

func NewActivityController(db *gorm.DB) *ActivityController {
	return &ActivityController{DB: db, svc: service.NewActivityService(db)}
}

func parseID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

// POST /api/activities
func (h *ActivityController) Create(c *fiber.Ctx) error {
	var req dto.CreateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid payload")
	}
	ent, err := h.svc.Create(c.UserContext(), req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	pending, err := h.svc.PendingCount(c.UserContext(), ent.ActivityID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "activity created", dto.FromActivityModel(*ent, pending))
}

// GET /api/activities?subject=
func (h *ActivityController) List(c *fiber.Ctx) error {
	rows, err := h.svc.List(c.UserContext(), c.Query("subject"))
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	pending, err := service.PendingCounts(h.DB.WithContext(c.UserContext()), service.ActivityIDs(rows))
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromActivityModels(rows, pending))
}

// GET /api/activities/:id
func (h *ActivityController) Get(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return helper.Error(c, fiber.StatusBadRequest, "invalid activity id")
	}
	ent, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	pending, err := h.svc.PendingCount(c.UserContext(), id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromActivityModel(*ent, pending))
}

// PATCH /api/activities/:id
func (h *ActivityController) Patch(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return helper.Error(c, fiber.StatusBadRequest, "invalid activity id")
	}
	var req dto.PatchActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid payload")
	}
	ent, err := h.svc.Update(c.UserContext(), id, req)
	if err != nil {
		log.Printf("[ACTIVITIES][PATCH] %s failed: %v", id, err)
		return helper.FromServiceError(c, err)
	}
	pending, err := h.svc.PendingCount(c.UserContext(), id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "activity updated", dto.FromActivityModel(*ent, pending))
}

// DELETE /api/activities/:id
func (h *ActivityController) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return helper.Error(c, fiber.StatusBadRequest, "invalid activity id")
	}
	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonDeleted(c, "activity deleted", fiber.Map{"activity_id": id})
}

// GET /api/activities/:id/pending
func (h *ActivityController) Pending(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return helper.Error(c, fiber.StatusBadRequest, "invalid activity id")
	}
	n, err := h.svc.PendingCount(c.UserContext(), id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", fiber.Map{"activity_id": id, "pending_count": n})
}

// GET /api/activities/:id/grades
func (h *ActivityController) GradeSheet(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return helper.Error(c, fiber.StatusBadRequest, "invalid activity id")
	}
	sheet, err := h.svc.GradeSheet(c.UserContext(), id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", sheet)
}

// PUT /api/activities/:id/grades
func (h *ActivityController) UpsertGrades(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return helper.Error(c, fiber.StatusBadRequest, "invalid activity id")
	}
	var req dto.UpsertGradesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid payload")
	}
	res, err := h.svc.UpsertGrades(c.UserContext(), id, req)
	if err != nil {
		log.Printf("[GRADES][UPSERT] %s failed: %v", id, err)
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "grades saved", res)
}
