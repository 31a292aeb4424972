package memory

import (
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/categorias-api/internal/domain/entity"
	"github.com/tu-usuario/categorias-api/internal/domain/repository"
)

// Store almacén en memoria compartido por los repositorios y el TxRunner.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.LotRepository      = (*LotRepo)(nil)
	_ repository.MovementRepository = (*MovementRepo)(nil)
)

// CategoryRepo vista de solo-consulta-y-escritura-directa sobre el almacén
// (equivalente a un repositorio atado al pool; las escrituras que requieran
// atomicidad multi-registro deben pasar por el TxRunner).
type CategoryRepo struct {
	store *Store
}

// NewCategoryRepository construye el adaptador de categorías.
func NewCategoryRepository(store *Store) *CategoryRepo {
	return &CategoryRepo{store: store}
}

func (r *CategoryRepo) Create(c *entity.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.st.createCategory(*c)
	return nil
}

func (r *CategoryRepo) GetByID(id string) (*entity.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return getCategory(r.store.st, id), nil
}

func (r *CategoryRepo) GetByName(name string) (*entity.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return getCategoryByName(r.store.st, name), nil
}

func (r *CategoryRepo) Update(c *entity.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.st.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) List() ([]entity.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.st.listCategories(), nil
}

func (r *CategoryRepo) Delete(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.st.deleteCategory(id)
	return nil
}

// LotRepo adaptador de lotes sobre el almacén.
type LotRepo struct {
	store *Store
}

// NewLotRepository construye el adaptador de lotes.
func NewLotRepository(store *Store) *LotRepo {
	return &LotRepo{store: store}
}

func (r *LotRepo) Create(l *entity.Lot) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.st.createLot(*l)
	return nil
}

func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if l, ok := r.store.st.lots[id]; ok {
		cp := l
		return &cp, nil
	}
	return nil, nil
}

func (r *LotRepo) ListByCategories(categoryIDs []string) ([]entity.Lot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.st.listLotsByCategories(categoryIDs), nil
}

// ListByCategoriesForUpdate fuera de una tx no bloquea nada extra: el
// escritor único del TxRunner ya serializa las mutaciones.
func (r *LotRepo) ListByCategoriesForUpdate(categoryIDs []string) ([]entity.Lot, error) {
	return r.ListByCategories(categoryIDs)
}

func (r *LotRepo) UpdateQuantity(id string, qty decimal.Decimal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.st.updateLotQuantity(id, qty)
	return nil
}

func (r *LotRepo) ReassignCategory(fromCategoryID, toCategoryID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.st.reassignLots(fromCategoryID, toCategoryID)
	return nil
}

func (r *LotRepo) ExistsByCategory(categoryID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return existsLotByCategory(r.store.st, categoryID), nil
}

// MovementRepo adaptador del rastro de auditoría.
type MovementRepo struct {
	store *Store
}

// NewMovementRepository construye el adaptador de movimientos.
func NewMovementRepository(store *Store) *MovementRepo {
	return &MovementRepo{store: store}
}

func (r *MovementRepo) Create(m *entity.Movement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.st.movements = append(r.store.st.movements, *m)
	return nil
}

func (r *MovementRepo) ListByLot(lotID string) ([]entity.Movement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []entity.Movement
	for _, m := range r.store.st.movements {
		if m.LotID == lotID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MovementRepo) ListByReference(reference string) ([]entity.Movement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []entity.Movement
	for _, m := range r.store.st.movements {
		if m.Reference == reference {
			out = append(out, m)
		}
	}
	return out, nil
}

func getCategory(st *state, id string) *entity.Category {
	if c, ok := st.categories[id]; ok {
		cp := c
		return &cp
	}
	return nil
}

func getCategoryByName(st *state, name string) *entity.Category {
	for _, id := range st.catOrder {
		if c := st.categories[id]; c.Name == name {
			cp := c
			return &cp
		}
	}
	return nil
}

func existsLotByCategory(st *state, categoryID string) bool {
	for _, l := range st.lots {
		if l.CategoryID == categoryID {
			return true
		}
	}
	return false
}
