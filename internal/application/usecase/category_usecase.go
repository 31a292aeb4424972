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

// CategoryUseCase casos de uso sobre la jerarquía de categorías.
// Toda mutación corre dentro del TxRunner y revalida el bosque completo con
// hierarchy.Build antes de confirmar: un reparenting que formaría un ciclo
// se rechaza sin tocar el almacén.
type CategoryUseCase struct {
	txRunner ports.TxRunner
	catRepo  repository.CategoryRepository
	lotRepo  repository.LotRepository
	cache    ports.StatsCache
	events   ports.EventPublisher
}

// NewCategoryUseCase construye el caso de uso. cache y events pueden ser nil.
func NewCategoryUseCase(
	txRunner ports.TxRunner,
	catRepo repository.CategoryRepository,
	lotRepo repository.LotRepository,
	cache ports.StatsCache,
	events ports.EventPublisher,
) *CategoryUseCase {
	return &CategoryUseCase{
		txRunner: txRunner,
		catRepo:  catRepo,
		lotRepo:  lotRepo,
		cache:    cache,
		events:   events,
	}
}

// EnsureUncategorized garantiza la categoría raíz reservada "sin categoría"
// (destino de los lotes reasignados en cascada). Idempotente; se llama al
// arrancar la aplicación.
func (uc *CategoryUseCase) EnsureUncategorized(ctx context.Context) error {
	return uc.txRunner.Run(ctx, func(
		catRepo repository.CategoryRepository,
		_ repository.LotRepository,
		_ repository.MovementRepository,
	) error {
		existing, err := catRepo.GetByID(entity.UncategorizedID)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
		now := time.Now()
		return catRepo.Create(&entity.Category{
			ID:        entity.UncategorizedID,
			Name:      "Sin categoría",
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
}

// ListHierarchy devuelve el árbol aplanado en preorden con nivel, estrategia
// efectiva y conteos por subárbol. Los padres inexistentes se reportan en
// Dangling, nunca se corrigen en silencio.
func (uc *CategoryUseCase) ListHierarchy(ctx context.Context) (*dto.HierarchyResponse, error) {
	var resp *dto.HierarchyResponse
	err := uc.txRunner.Run(ctx, func(
		catRepo repository.CategoryRepository,
		lotRepo repository.LotRepository,
		_ repository.MovementRepository,
	) error {
		categories, err := catRepo.List()
		if err != nil {
			return err
		}
		forest, err := hierarchy.Build(categories)
		if err != nil {
			return err
		}
		resp = &dto.HierarchyResponse{Dangling: forest.Dangling}
		for _, fn := range forest.Flatten() {
			strategy, err := hierarchy.ResolveStrategy(forest, fn.Category.ID)
			if err != nil {
				return err
			}
			lots, err := lotRepo.ListByCategories(forest.SubtreeIDs(fn.Category.ID))
			if err != nil {
				return err
			}
			node := dto.HierarchyNodeResponse{
				ID:                fn.Category.ID,
				ParentID:          fn.Category.ParentID,
				Name:              fn.Category.Name,
				Level:             fn.Depth,
				EffectiveStrategy: string(strategy),
			}
			for _, l := range lots {
				if l.Exhausted() {
					continue
				}
				node.LotCount++
				node.TotalQuantity = node.TotalQuantity.Add(l.QuantityOnHand)
			}
			resp.Nodes = append(resp.Nodes, node)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Create agrega una categoría. El nombre es único; el padre debe existir
// (un padre inexistente se rechaza con ErrDanglingParent, no se adopta como raíz).
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	strategy := entity.RemovalStrategy(in.RemovalStrategy)
	if strategy.IsSet() && !strategy.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	var resp *dto.CategoryResponse
	err := uc.txRunner.Run(ctx, func(
		catRepo repository.CategoryRepository,
		lotRepo repository.LotRepository,
		_ repository.MovementRepository,
	) error {
		existing, err := catRepo.GetByName(in.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if in.ParentID != "" {
			parent, err := catRepo.GetByID(in.ParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return &hierarchy.DanglingError{ID: "", ParentID: in.ParentID}
			}
			// Los lotes solo cuelgan de hojas: una categoría con lotes no
			// puede convertirse en padre.
			hasLots, err := lotRepo.ExistsByCategory(in.ParentID)
			if err != nil {
				return err
			}
			if hasLots {
				return domain.ErrHasLots
			}
		}
		now := time.Now()
		category := &entity.Category{
			ID:              uuid.New().String(),
			ParentID:        in.ParentID,
			Name:            in.Name,
			RemovalStrategy: strategy,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := catRepo.Create(category); err != nil {
			return err
		}
		// Revalidar el bosque completo con el nuevo registro incluido.
		categories, err := catRepo.List()
		if err != nil {
			return err
		}
		forest, err := hierarchy.Build(categories)
		if err != nil {
			return err
		}
		resp, err = uc.toResponse(forest, category)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.invalidateUpward(ctx, resp.ID)
	uc.publishCategory(ctx, "created", resp.ID)
	return resp, nil
}

// Update aplica un patch a la categoría. Un reparenting se revalida contra la
// jerarquía completa: si introdujera un ciclo, la transacción se revierte y
// se devuelve el id ofensor.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.RemovalStrategy != nil {
		s := entity.RemovalStrategy(*in.RemovalStrategy)
		if s.IsSet() && !s.IsValid() {
			return nil, domain.ErrInvalidInput
		}
	}
	var resp *dto.CategoryResponse
	err := uc.txRunner.Run(ctx, func(
		catRepo repository.CategoryRepository,
		lotRepo repository.LotRepository,
		_ repository.MovementRepository,
	) error {
		category, err := catRepo.GetByID(id)
		if err != nil {
			return err
		}
		if category == nil {
			return domain.ErrNotFound
		}
		if category.IsProtected() && (in.ParentID != nil || in.Name != nil) {
			return domain.ErrProtectedCategory
		}
		if in.Name != nil && *in.Name != category.Name {
			dup, err := catRepo.GetByName(*in.Name)
			if err != nil {
				return err
			}
			if dup != nil && dup.ID != id {
				return domain.ErrDuplicate
			}
			category.Name = *in.Name
		}
		if in.ParentID != nil && *in.ParentID != category.ParentID {
			if *in.ParentID != "" {
				parent, err := catRepo.GetByID(*in.ParentID)
				if err != nil {
					return err
				}
				if parent == nil {
					return &hierarchy.DanglingError{ID: id, ParentID: *in.ParentID}
				}
				hasLots, err := lotRepo.ExistsByCategory(*in.ParentID)
				if err != nil {
					return err
				}
				if hasLots {
					return domain.ErrHasLots
				}
			}
			category.ParentID = *in.ParentID
		}
		if in.RemovalStrategy != nil {
			category.RemovalStrategy = entity.RemovalStrategy(*in.RemovalStrategy)
		}
		category.UpdatedAt = time.Now()
		if err := catRepo.Update(category); err != nil {
			return err
		}
		categories, err := catRepo.List()
		if err != nil {
			return err
		}
		forest, err := hierarchy.Build(categories)
		if err != nil {
			return err // CycleDetected revierte la tx completa
		}
		resp, err = uc.toResponse(forest, category)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.invalidateUpward(ctx, id)
	uc.publishCategory(ctx, "updated", id)
	return resp, nil
}

// Delete elimina una categoría.
// cascade=false: se rechaza con ErrHasChildren o ErrHasLots.
// cascade=true: los hijos se reparentan al padre del nodo eliminado y los
// lotes se reasignan a la categoría reservada "sin categoría" (no se borran).
func (uc *CategoryUseCase) Delete(ctx context.Context, id string, cascade bool) error {
	err := uc.txRunner.Run(ctx, func(
		catRepo repository.CategoryRepository,
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
	) error {
		category, err := catRepo.GetByID(id)
		if err != nil {
			return err
		}
		if category == nil {
			return domain.ErrNotFound
		}
		if category.IsProtected() {
			return domain.ErrProtectedCategory
		}
		categories, err := catRepo.List()
		if err != nil {
			return err
		}
		forest, err := hierarchy.Build(categories)
		if err != nil {
			return err
		}
		hasLots, err := lotRepo.ExistsByCategory(id)
		if err != nil {
			return err
		}
		if !cascade {
			if forest.HasChildren(id) {
				return domain.ErrHasChildren
			}
			if hasLots {
				return domain.ErrHasLots
			}
			return catRepo.Delete(id)
		}
		// Cascada: reparentar hijos al padre del eliminado.
		if node := forest.Node(id); node != nil {
			for _, child := range node.Children {
				c := child.Category
				c.ParentID = category.ParentID
				c.UpdatedAt = time.Now()
				if err := catRepo.Update(&c); err != nil {
					return err
				}
			}
		}
		// Lotes al bucket reservado, con su movimiento de auditoría.
		if hasLots {
			lots, err := lotRepo.ListByCategories([]string{id})
			if err != nil {
				return err
			}
			if err := lotRepo.ReassignCategory(id, entity.UncategorizedID); err != nil {
				return err
			}
			for _, l := range lots {
				if err := movRepo.Create(&entity.Movement{
					ID:         uuid.New().String(),
					LotID:      l.ID,
					CategoryID: entity.UncategorizedID,
					Type:       entity.MovementTypeReassign,
					Quantity:   l.QuantityOnHand,
					Reference:  id,
					Notes:      "eliminación en cascada de la categoría",
					CreatedAt:  time.Now(),
				}); err != nil {
					return err
				}
			}
		}
		return catRepo.Delete(id)
	})
	if err != nil {
		return err
	}
	uc.invalidateUpward(ctx, id)
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, entity.UncategorizedID)
	}
	uc.publishCategory(ctx, "deleted", id)
	return nil
}

// GetByID devuelve una categoría con su estrategia efectiva.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	var resp *dto.CategoryResponse
	err := uc.txRunner.Run(ctx, func(
		catRepo repository.CategoryRepository,
		_ repository.LotRepository,
		_ repository.MovementRepository,
	) error {
		category, err := catRepo.GetByID(id)
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
		resp, err = uc.toResponse(forest, category)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (uc *CategoryUseCase) toResponse(forest *hierarchy.Forest, c *entity.Category) (*dto.CategoryResponse, error) {
	effective, err := hierarchy.ResolveStrategy(forest, c.ID)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{
		ID:                c.ID,
		ParentID:          c.ParentID,
		Name:              c.Name,
		RemovalStrategy:   string(c.RemovalStrategy),
		EffectiveStrategy: string(effective),
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}, nil
}

// invalidateUpward invalida la caché de agregados de la categoría y de todos
// sus ancestros (sus subárboles contienen al nodo mutado).
func (uc *CategoryUseCase) invalidateUpward(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	categories, err := uc.catRepo.List()
	if err != nil {
		uc.cache.Invalidate(ctx, id)
		return
	}
	forest, err := hierarchy.Build(categories)
	if err != nil {
		uc.cache.Invalidate(ctx, id)
		return
	}
	uc.cache.Invalidate(ctx, append([]string{id}, forest.AncestorIDs(id)...)...)
}

func (uc *CategoryUseCase) publishCategory(ctx context.Context, action, id string) {
	if uc.events == nil {
		return
	}
	uc.events.PublishCategoryChanged(ctx, action, id)
}
