package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/categorias-api/internal/application/dto"
	"github.com/tu-usuario/categorias-api/internal/application/ports"
	"github.com/tu-usuario/categorias-api/internal/domain"
	"github.com/tu-usuario/categorias-api/internal/domain/entity"
	"github.com/tu-usuario/categorias-api/internal/domain/hierarchy"
	"github.com/tu-usuario/categorias-api/internal/domain/repository"
)

// LotUseCase recepción y consulta de lotes del libro de inventario.
type LotUseCase struct {
	txRunner ports.TxRunner
	lotRepo  repository.LotRepository
	movRepo  repository.MovementRepository
	catRepo  repository.CategoryRepository
	cache    ports.StatsCache
	events   ports.EventPublisher
}

// NewLotUseCase construye el caso de uso. cache y events pueden ser nil.
func NewLotUseCase(
	txRunner ports.TxRunner,
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
	catRepo repository.CategoryRepository,
	cache ports.StatsCache,
	events ports.EventPublisher,
) *LotUseCase {
	return &LotUseCase{
		txRunner: txRunner,
		lotRepo:  lotRepo,
		movRepo:  movRepo,
		catRepo:  catRepo,
		cache:    cache,
		events:   events,
	}
}

// Create registra la recepción de un lote y su movimiento de entrada.
// Reglas: cantidad positiva; la categoría debe existir y ser hoja (los lotes
// nunca cuelgan de categorías con hijos); si la estrategia efectiva de la
// categoría es FEFO el vencimiento es obligatorio.
func (uc *LotUseCase) Create(ctx context.Context, in dto.CreateLotRequest) (*dto.LotResponse, error) {
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var lot *entity.Lot
	err := uc.txRunner.Run(ctx, func(
		catRepo repository.CategoryRepository,
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
	) error {
		category, err := catRepo.GetByID(in.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return domain.ErrNotFound
		}
		categories, err := catRepo.List()
		if err != nil {
			return err
		}
		forest, err := hierarchy.Build(categories)
		if err != nil {
			return err
		}
		if forest.HasChildren(in.CategoryID) {
			return domain.ErrNotLeafCategory
		}
		strategy, err := hierarchy.ResolveStrategy(forest, in.CategoryID)
		if err != nil {
			return err
		}
		if strategy == entity.RemovalFEFO && in.ExpiresAt == nil {
			return domain.ErrExpiryRequired
		}

		now := time.Now()
		receivedAt := in.ReceivedAt
		if receivedAt.IsZero() {
			receivedAt = now
		}
		lot = &entity.Lot{
			ID:             uuid.New().String(),
			CategoryID:     in.CategoryID,
			QuantityOnHand: in.Quantity,
			UnitCost:       in.UnitCost,
			ReceivedAt:     receivedAt,
			ExpiresAt:      in.ExpiresAt,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := lotRepo.Create(lot); err != nil {
			return err
		}
		return movRepo.Create(&entity.Movement{
			ID:         uuid.New().String(),
			LotID:      lot.ID,
			CategoryID: lot.CategoryID,
			Type:       entity.MovementTypeIn,
			Quantity:   in.Quantity,
			Reference:  lot.ID,
			Notes:      "recepción de lote",
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.invalidateUpward(ctx, lot.CategoryID)
	if uc.events != nil {
		uc.events.PublishLotReceived(ctx, lot)
	}
	return toLotResponse(lot), nil
}

// GetByID devuelve un lote por id, o ErrNotFound.
func (uc *LotUseCase) GetByID(_ context.Context, id string) (*dto.LotResponse, error) {
	lot, err := uc.lotRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	return toLotResponse(lot), nil
}

// ListByCategory devuelve los lotes directamente asociados a la categoría,
// agotados incluidos (se conservan para auditoría).
func (uc *LotUseCase) ListByCategory(_ context.Context, categoryID string) ([]dto.LotResponse, error) {
	lots, err := uc.lotRepo.ListByCategories([]string{categoryID})
	if err != nil {
		return nil, err
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for i := range lots {
		out = append(out, *toLotResponse(&lots[i]))
	}
	return out, nil
}

// Movements devuelve el rastro de auditoría de un lote.
func (uc *LotUseCase) Movements(_ context.Context, lotID string) ([]dto.MovementResponse, error) {
	movs, err := uc.movRepo.ListByLot(lotID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovementResponse{
			ID:         m.ID,
			LotID:      m.LotID,
			CategoryID: m.CategoryID,
			Type:       m.Type,
			Quantity:   m.Quantity,
			Reference:  m.Reference,
			Notes:      m.Notes,
			CreatedAt:  m.CreatedAt,
		})
	}
	return out, nil
}

func (uc *LotUseCase) invalidateUpward(ctx context.Context, categoryID string) {
	if uc.cache == nil {
		return
	}
	ids := []string{categoryID}
	if categories, err := uc.catRepo.List(); err == nil {
		if forest, err := hierarchy.Build(categories); err == nil {
			ids = append(ids, forest.AncestorIDs(categoryID)...)
		}
	}
	uc.cache.Invalidate(ctx, ids...)
}

func toLotResponse(l *entity.Lot) *dto.LotResponse {
	return &dto.LotResponse{
		ID:             l.ID,
		CategoryID:     l.CategoryID,
		QuantityOnHand: l.QuantityOnHand,
		UnitCost:       l.UnitCost,
		ReceivedAt:     l.ReceivedAt,
		ExpiresAt:      l.ExpiresAt,
		Exhausted:      l.Exhausted(),
	}
}
