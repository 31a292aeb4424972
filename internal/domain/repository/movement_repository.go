package repository

import "github.com/tu-usuario/categorias-api/internal/domain/entity"

// MovementRepository define el puerto para el rastro de auditoría.
// Solo inserción y lectura: los movimientos nunca se editan.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	ListByLot(lotID string) ([]entity.Movement, error)
	ListByReference(reference string) ([]entity.Movement, error)
}
