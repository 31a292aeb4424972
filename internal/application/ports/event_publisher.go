package ports

import (
	"context"

	"github.com/tu-usuario/categorias-api/internal/domain/entity"
)

// EventPublisher publica eventos de dominio tras confirmar cada transacción.
// Las implementaciones no deben fallar la operación de negocio: los errores
// de publicación se registran y se descartan.
type EventPublisher interface {
	PublishAllocationCommitted(ctx context.Context, plan *entity.AllocationPlan)
	PublishLotReceived(ctx context.Context, lot *entity.Lot)
	PublishCategoryChanged(ctx context.Context, action, categoryID string)
}
