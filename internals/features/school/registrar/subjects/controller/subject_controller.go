package controller

import (
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	activityDTO "registrar_backend/internals/features/school/registrar/activities/dto"
	activityService "registrar_backend/internals/features/school/registrar/activities/service"
	courseDTO "registrar_backend/internals/features/school/registrar/courses/dto"
	enrollmentService "registrar_backend/internals/features/school/registrar/enrollments/service"
	studentDTO "registrar_backend/internals/features/school/registrar/students/dto"
	"registrar_backend/internals/features/school/registrar/subjects/dto"
	"registrar_backend/internals/features/school/registrar/subjects/service"
	helper "registrar_backend/internals/helpers"
)

type SubjectController struct {
	DB         *gorm.DB
	svc        *service.SubjectService
	activities *activityService.ActivityService
}

func NewSubjectController(db *gorm.DB, strictSections bool) *SubjectController {
	return &SubjectController{
		DB:         db,
		svc:        service.NewSubjectService(db, strictSections),
		activities: activityService.NewActivityService(db),
	}
}

// SubjectInfoResponse is the subject page: the subject, its activities with
// pending counts and the students enrolled in it.
type SubjectInfoResponse struct {
	Subject    dto.SubjectResponse            `json:"subject"`
	Activities []activityDTO.ActivityResponse `json:"activities"`
	Students   []studentDTO.StudentResponse   `json:"students"`
}

// POST /api/subjects
func (h *SubjectController) Create(c *fiber.Ctx) error {
	var req dto.CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid payload")
	}
	ent, err := h.svc.Create(c.UserContext(), req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "subject created", dto.FromSubjectModel(*ent))
}

// GET /api/subjects?course=&school_year=&semester=&year_level=&section=&q=&include_archived=
func (h *SubjectController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	sem, _ := strconv.Atoi(c.Query("semester"))
	year, _ := strconv.Atoi(c.Query("year_level"))
	archived, _ := strconv.ParseBool(c.Query("include_archived", "false"))

	rows, total, err := h.svc.List(c.UserContext(), service.SubjectFilter{
		CourseAbv:       courseDTO.NormalizeAbv(c.Query("course")),
		SchoolYear:      strings.TrimSpace(c.Query("school_year")),
		Semester:        sem,
		YearLevel:       year,
		Section:         c.Query("section"),
		IncludeArchived: archived,
		Q:               c.Query("q"),
		Offset:          p.Offset,
		Limit:           p.Limit,
	})
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromSubjectModels(rows), helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /api/subjects/:code
func (h *SubjectController) Get(c *fiber.Ctx) error {
	ent, err := h.svc.Get(c.UserContext(), c.Params("code"))
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromSubjectModel(*ent))
}

// GET /api/subjects/:code/info
func (h *SubjectController) Info(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ent, err := h.svc.Get(ctx, c.Params("code"))
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	acts, err := h.activities.List(ctx, ent.SubjectCode)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	db := h.DB.WithContext(ctx)
	pending, err := activityService.PendingCounts(db, activityService.ActivityIDs(acts))
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	students, err := enrollmentService.EnrolledStudents(db, ent.SubjectCode)
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	return helper.JsonOK(c, "ok", SubjectInfoResponse{
		Subject:    dto.FromSubjectModel(*ent),
		Activities: activityDTO.FromActivityModels(acts, pending),
		Students:   studentDTO.FromStudentModels(students),
	})
}

// PATCH /api/subjects/:code
func (h *SubjectController) Patch(c *fiber.Ctx) error {
	var req dto.PatchSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid payload")
	}
	ent, err := h.svc.Update(c.UserContext(), c.Params("code"), req)
	if err != nil {
		log.Printf("[SUBJECTS][PATCH] %s failed: %v", c.Params("code"), err)
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "subject updated", dto.FromSubjectModel(*ent))
}

// DELETE /api/subjects/:code
func (h *SubjectController) Delete(c *fiber.Ctx) error {
	code := dto.NormalizeCode(c.Params("code"))
	if err := h.svc.Delete(c.UserContext(), code); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonDeleted(c, "subject deleted", fiber.Map{"subject_code": code})
}

// POST /api/subjects/:code/archive
func (h *SubjectController) Archive(c *fiber.Ctx) error {
	ent, err := h.svc.Archive(c.UserContext(), c.Params("code"))
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "subject archived", dto.FromSubjectModel(*ent))
}

// POST /api/subjects/:code/unarchive
func (h *SubjectController) Unarchive(c *fiber.Ctx) error {
	ent, err := h.svc.Unarchive(c.UserContext(), c.Params("code"))
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "subject restored", dto.FromSubjectModel(*ent))
}
