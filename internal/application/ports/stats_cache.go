package ports

import (
	"context"

	"github.com/tu-usuario/categorias-api/internal/application/dto"
)

// StatsCache cachea los agregados por subárbol. Opcional: una implementación
// nil o un no-op deja al agregador recalculando bajo demanda.
// Toda mutación de categorías o lotes debe invalidar la categoría afectada
// y sus ancestros (sus agregados incluyen al subárbol mutado).
type StatsCache interface {
	Get(ctx context.Context, categoryID string) (*dto.CategoryStatsResponse, bool)
	Set(ctx context.Context, categoryID string, stats *dto.CategoryStatsResponse)
	Invalidate(ctx context.Context, categoryIDs ...string)
}
