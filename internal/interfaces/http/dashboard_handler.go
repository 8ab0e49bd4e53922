package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/joyeria-crm/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los contadores del día, la semana y el mes en curso.
// GET /api/dashboard/summary
//
// Todos los contadores se calculan sobre los registros que el rol puede ver;
// revenue del tenant y top de productos solo para roles de gestión.
// No requiere parámetros; las fechas se calculan automáticamente en el servidor.
//
// @Summary      Resumen del dashboard
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext(), CurrentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(summary)
}
