package http

import (
	"github.com/gofiber/fiber/v2"
	appallocation "github.com/tu-usuario/categorias-api/internal/application/allocation"
	"github.com/tu-usuario/categorias-api/internal/application/dto"
)

// AllocationHandler maneja las solicitudes de retiro de stock.
type AllocationHandler struct {
	uc *appallocation.UseCase
}

// NewAllocationHandler construye el handler.
func NewAllocationHandler(uc *appallocation.UseCase) *AllocationHandler {
	return &AllocationHandler{uc: uc}
}

// Allocate godoc
// @Summary      Asignar stock contra una categoría
// @Description  Selecciona lotes del subárbol según la estrategia efectiva (FIFO/LIFO/FEFO) y descuenta existencias de forma atómica. El cumplimiento parcial se devuelve como 200 con status PARTIAL, no como error.
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocateRequest  true  "Categoría y cantidad solicitada"
// @Success      200   {object}  dto.AllocationPlanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/allocations [post]
func (h *AllocationHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.Allocate(c.Context(), in.CategoryID, in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
