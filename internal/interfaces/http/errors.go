package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/categorias-api/internal/application/dto"
	"github.com/tu-usuario/categorias-api/internal/domain"
	"github.com/tu-usuario/categorias-api/internal/domain/hierarchy"
)

// writeError traduce los errores de dominio a la respuesta HTTP.
// Los rechazos estructurales (ciclo, padre inexistente) incluyen el id de la
// categoría ofensora para que la UI pueda resaltar el registro exacto.
func writeError(c *fiber.Ctx, err error) error {
	var cycleErr *hierarchy.CycleError
	if errors.As(err, &cycleErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "CYCLE_DETECTED", Message: err.Error(), CategoryID: cycleErr.ID,
		})
	}
	var danglingErr *hierarchy.DanglingError
	if errors.As(err, &danglingErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "DANGLING_PARENT", Message: err.Error(), CategoryID: danglingErr.ParentID,
		})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_NAME", Message: "ya existe una categoría con ese nombre"})
	case errors.Is(err, domain.ErrCycleDetected):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CYCLE_DETECTED", Message: err.Error()})
	case errors.Is(err, domain.ErrDanglingParent):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "DANGLING_PARENT", Message: err.Error()})
	case errors.Is(err, domain.ErrHasChildren):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "HAS_CHILDREN", Message: "la categoría tiene subcategorías; use cascade=true"})
	case errors.Is(err, domain.ErrHasLots):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "HAS_LOTS", Message: "la categoría tiene lotes asociados"})
	case errors.Is(err, domain.ErrNotLeafCategory):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NOT_LEAF", Message: "los lotes solo pueden asociarse a categorías hoja"})
	case errors.Is(err, domain.ErrExpiryRequired):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "EXPIRY_REQUIRED", Message: "la estrategia efectiva FEFO exige fecha de vencimiento"})
	case errors.Is(err, domain.ErrProtectedCategory):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PROTECTED", Message: "la categoría reservada no puede modificarse"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_REQUEST", Message: "entrada inválida"})
	case errors.Is(err, domain.ErrConcurrentModification):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENT_MODIFICATION", Message: "modificación concurrente; reintente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
