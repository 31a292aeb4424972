package usecase

import (
	"context"

	"github.com/tu-usuario/categorias-api/internal/application/dto"
	"github.com/tu-usuario/categorias-api/internal/application/ports"
	"github.com/tu-usuario/categorias-api/internal/domain"
	"github.com/tu-usuario/categorias-api/internal/domain/hierarchy"
	"github.com/tu-usuario/categorias-api/internal/domain/repository"
)

// StatsUseCase agregados por subárbol: lotes, cantidad y valor total.
// Lectura pura recalculada bajo demanda; la caché (opcional) se invalida en
// cada mutación de categorías o lotes del subárbol.
type StatsUseCase struct {
	catRepo repository.CategoryRepository
	lotRepo repository.LotRepository
	cache   ports.StatsCache
}

// NewStatsUseCase construye el agregador. cache puede ser nil.
func NewStatsUseCase(catRepo repository.CategoryRepository, lotRepo repository.LotRepository, cache ports.StatsCache) *StatsUseCase {
	return &StatsUseCase{catRepo: catRepo, lotRepo: lotRepo, cache: cache}
}

// Stats suma recursivamente sobre la categoría y todos sus descendientes.
// Idempotente: dos llamadas sin mutación intermedia devuelven lo mismo.
// Los lotes agotados no cuentan.
func (uc *StatsUseCase) Stats(ctx context.Context, categoryID string) (*dto.CategoryStatsResponse, error) {
	if uc.cache != nil {
		if cached, ok := uc.cache.Get(ctx, categoryID); ok {
			return cached, nil
		}
	}
	categories, err := uc.catRepo.List()
	if err != nil {
		return nil, err
	}
	forest, err := hierarchy.Build(categories)
	if err != nil {
		return nil, err
	}
	subtree := forest.SubtreeIDs(categoryID)
	if subtree == nil {
		return nil, domain.ErrNotFound
	}
	lots, err := uc.lotRepo.ListByCategories(subtree)
	if err != nil {
		return nil, err
	}
	stats := &dto.CategoryStatsResponse{CategoryID: categoryID}
	for _, l := range lots {
		if l.Exhausted() {
			continue
		}
		stats.LotCount++
		stats.TotalQuantity = stats.TotalQuantity.Add(l.QuantityOnHand)
		stats.TotalValue = stats.TotalValue.Add(l.QuantityOnHand.Mul(l.UnitCost))
	}
	if uc.cache != nil {
		uc.cache.Set(ctx, categoryID, stats)
	}
	return stats, nil
}

// Report devuelve las filas del reporte de inventario por categoría, en
// preorden (insumo del PDF). No pasa por la caché: una sola pasada sobre el
// snapshot completo es más barata que n consultas.
func (uc *StatsUseCase) Report(_ context.Context) ([]dto.CategoryReportRow, error) {
	categories, err := uc.catRepo.List()
	if err != nil {
		return nil, err
	}
	forest, err := hierarchy.Build(categories)
	if err != nil {
		return nil, err
	}
	flat := forest.Flatten()
	out := make([]dto.CategoryReportRow, 0, len(flat))
	for _, fn := range flat {
		strategy, err := hierarchy.ResolveStrategy(forest, fn.Category.ID)
		if err != nil {
			return nil, err
		}
		lots, err := uc.lotRepo.ListByCategories(forest.SubtreeIDs(fn.Category.ID))
		if err != nil {
			return nil, err
		}
		row := dto.CategoryReportRow{
			CategoryID:        fn.Category.ID,
			Name:              fn.Category.Name,
			Level:             fn.Depth,
			EffectiveStrategy: string(strategy),
		}
		for _, l := range lots {
			if l.Exhausted() {
				continue
			}
			row.LotCount++
			row.TotalQuantity = row.TotalQuantity.Add(l.QuantityOnHand)
			row.TotalValue = row.TotalValue.Add(l.QuantityOnHand.Mul(l.UnitCost))
		}
		out = append(out, row)
	}
	return out, nil
}
