package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/categorias-api/internal/application/dto"
	"github.com/tu-usuario/categorias-api/internal/application/usecase"
)

// LotHandler maneja las peticiones HTTP para el libro de lotes.
type LotHandler struct {
	uc *usecase.LotUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(uc *usecase.LotUseCase) *LotHandler {
	return &LotHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar recepción de lote
// @Description  La categoría debe ser hoja; con estrategia efectiva FEFO el vencimiento es obligatorio
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLotRequest  true  "Datos del lote"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/lots [post]
func (h *LotHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener lote por ID
// @Tags         lots
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [get]
func (h *LotHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByCategory godoc
// @Summary      Listar lotes de una categoría
// @Description  Solo los lotes directamente asociados; los agotados se incluyen (auditoría)
// @Tags         lots
// @Produce      json
// @Param        id  path  string  true  "ID de la categoría"
// @Success      200  {array}  dto.LotResponse
// @Router       /api/categories/{id}/lots [get]
func (h *LotHandler) ListByCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.ListByCategory(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Rastro de auditoría de un lote
// @Tags         lots
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/lots/{id}/movements [get]
func (h *LotHandler) Movements(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.Movements(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
