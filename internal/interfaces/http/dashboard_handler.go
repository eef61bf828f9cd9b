package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/tu-usuario/almacen-ledger/internal/application/analytics"
	"github.com/tu-usuario/almacen-ledger/internal/application/dto"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el resumen de inventario del día.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (movements_today, low_stock_items,
// top5_lowest_stock, recent_movements, date_label).
// No requiere parámetros; la ventana del día se calcula en el servidor con la
// zona horaria de reporte configurada.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	tag := dto.MatchLocale(c.Get("Accept-Language"))
	summary, err := h.uc.GetSummary(c.Context(), tag)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: err.Error(),
		})
	}
	return c.JSON(summary)
}
