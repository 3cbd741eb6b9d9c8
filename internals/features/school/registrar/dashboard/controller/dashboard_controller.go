package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"registrar_backend/internals/features/school/registrar/dashboard/service"
	helper "registrar_backend/internals/helpers"
)

type DashboardController struct {
	svc *service.DashboardService
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{svc: service.NewDashboardService(db)}
}

// GET /api/dashboard
func (h *DashboardController) Get(c *fiber.Ctx) error {
	out, err := h.svc.Dashboard(c.UserContext())
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}
