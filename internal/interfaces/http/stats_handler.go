package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/categorias-api/internal/application/dto"
	"github.com/tu-usuario/categorias-api/internal/application/usecase"
	"github.com/tu-usuario/categorias-api/internal/infrastructure/pdf"
)

// StatsHandler agregados por subárbol y reporte PDF.
type StatsHandler struct {
	uc  *usecase.StatsUseCase
	gen *pdf.MarotoReportGenerator
}

// NewStatsHandler construye el handler.
func NewStatsHandler(uc *usecase.StatsUseCase, gen *pdf.MarotoReportGenerator) *StatsHandler {
	return &StatsHandler{uc: uc, gen: gen}
}

// Stats godoc
// @Summary      Agregados del subárbol de una categoría
// @Description  Lotes activos, cantidad total y valor total sumados sobre la categoría y sus descendientes
// @Tags         stats
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryStatsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/stats [get]
func (h *StatsHandler) Stats(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.Stats(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF del inventario por categoría
// @Tags         stats
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/reports/categories.pdf [get]
func (h *StatsHandler) Report(c *fiber.Ctx) error {
	rows, err := h.uc.Report(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	raw, err := h.gen.GenerateCategoryReport(rows)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="categorias.pdf"`)
	return c.Send(raw)
}
