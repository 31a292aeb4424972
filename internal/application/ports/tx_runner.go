package ports

import (
	"context"

	"github.com/tu-usuario/categorias-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del almacén,
// pasando repositorios atados a esa tx. Garantiza la atomicidad del motor de
// asignación (leer elegibles + descontar es un único paso lógico) y serializa
// las mutaciones de jerarquía frente a las asignaciones en vuelo.
//
// Un conflicto de serialización se reporta como domain.ErrConcurrentModification;
// el llamador decide si reintenta.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		catRepo repository.CategoryRepository,
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
	) error) error
}
