// Package allocation orquesta el retiro de stock: resuelve la estrategia
// efectiva, selecciona lotes y descuenta existencias en una única transacción.
package allocation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/categorias-api/internal/application/dto"
	"github.com/tu-usuario/categorias-api/internal/application/ports"
	"github.com/tu-usuario/categorias-api/internal/domain"
	domainalloc "github.com/tu-usuario/categorias-api/internal/domain/allocation"
	"github.com/tu-usuario/categorias-api/internal/domain/entity"
	"github.com/tu-usuario/categorias-api/internal/domain/hierarchy"
	"github.com/tu-usuario/categorias-api/internal/domain/repository"
)

// maxRetries reintentos ante conflictos de serialización antes de rendirse
// con ErrConcurrentModification.
const maxRetries = 3

// UseCase ejecuta asignaciones de stock de forma transaccional.
// La lectura del snapshot elegible (con bloqueo de filas) y el descuento de
// cantidades ocurren dentro de la misma transacción: dos retiros simultáneos
// sobre los mismos lotes nunca pueden sobre-asignar.
type UseCase struct {
	txRunner ports.TxRunner
	catRepo  repository.CategoryRepository
	cache    ports.StatsCache
	events   ports.EventPublisher
}

// NewUseCase construye el caso de uso. cache y events pueden ser nil.
func NewUseCase(txRunner ports.TxRunner, catRepo repository.CategoryRepository, cache ports.StatsCache, events ports.EventPublisher) *UseCase {
	return &UseCase{txRunner: txRunner, catRepo: catRepo, cache: cache, events: events}
}

// Allocate satisface un retiro de quantity contra la categoría y todos sus
// descendientes, según la estrategia efectiva (FIFO/LIFO/FEFO).
//
// El cumplimiento parcial es un resultado exitoso con Status PARTIAL, no un
// error. Cantidades no positivas fallan con ErrInvalidInput antes de abrir
// la transacción. Un conflicto de concurrencia se reintenta hasta maxRetries
// veces y luego se rinde con ErrConcurrentModification.
func (uc *UseCase) Allocate(ctx context.Context, categoryID string, quantity decimal.Decimal) (*dto.AllocationPlanResponse, error) {
	if !quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	var plan *entity.AllocationPlan
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		plan, err = uc.allocateOnce(ctx, categoryID, quantity)
		if err == nil || !errors.Is(err, domain.ErrConcurrentModification) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	uc.invalidateUpward(ctx, categoryID)
	if uc.events != nil {
		uc.events.PublishAllocationCommitted(ctx, plan)
	}
	return toPlanResponse(plan), nil
}

// allocateOnce es un intento completo: snapshot bloqueado, plan, descuento y
// movimientos de auditoría, todo dentro de una transacción.
func (uc *UseCase) allocateOnce(ctx context.Context, categoryID string, quantity decimal.Decimal) (*entity.AllocationPlan, error) {
	var plan *entity.AllocationPlan
	err := uc.txRunner.Run(ctx, func(
		catRepo repository.CategoryRepository,
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
	) error {
		categories, err := catRepo.List()
		if err != nil {
			return err
		}
		forest, err := hierarchy.Build(categories)
		if err != nil {
			return err
		}
		if !forest.Contains(categoryID) {
			return domain.ErrNotFound
		}
		strategy, err := hierarchy.ResolveStrategy(forest, categoryID)
		if err != nil {
			return err
		}

		// Lotes de la categoría y descendientes, filas bloqueadas hasta el commit.
		lots, err := lotRepo.ListByCategoriesForUpdate(forest.SubtreeIDs(categoryID))
		if err != nil {
			return err
		}
		byID := make(map[string]entity.Lot, len(lots))
		for _, l := range lots {
			byID[l.ID] = l
		}

		plan, err = domainalloc.Select(categoryID, lots, strategy, quantity, time.Now())
		if err != nil {
			return err
		}
		for _, e := range plan.Entries {
			lot := byID[e.LotID]
			if err := lotRepo.UpdateQuantity(e.LotID, lot.QuantityOnHand.Sub(e.Quantity)); err != nil {
				return err
			}
			if err := movRepo.Create(&entity.Movement{
				ID:         uuid.New().String(),
				LotID:      e.LotID,
				CategoryID: lot.CategoryID,
				Type:       entity.MovementTypeOut,
				Quantity:   e.Quantity,
				Reference:  plan.ID,
				CreatedAt:  plan.CreatedAt,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (uc *UseCase) invalidateUpward(ctx context.Context, categoryID string) {
	if uc.cache == nil {
		return
	}
	ids := []string{categoryID}
	if categories, err := uc.catRepo.List(); err == nil {
		if forest, err := hierarchy.Build(categories); err == nil {
			ids = append(ids, forest.AncestorIDs(categoryID)...)
			// Las tomas pueden venir de descendientes: invalidar el subárbol entero.
			ids = append(ids, forest.SubtreeIDs(categoryID)...)
		}
	}
	uc.cache.Invalidate(ctx, ids...)
}

func toPlanResponse(p *entity.AllocationPlan) *dto.AllocationPlanResponse {
	resp := &dto.AllocationPlanResponse{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Strategy:    string(p.Strategy),
		Status:      string(p.Status),
		Requested:   p.Requested,
		Unfulfilled: p.Unfulfilled,
		CreatedAt:   p.CreatedAt,
	}
	for _, e := range p.Entries {
		resp.Entries = append(resp.Entries, dto.AllocationEntryResponse{LotID: e.LotID, Quantity: e.Quantity})
	}
	return resp
}
