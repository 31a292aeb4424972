package memory

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/categorias-api/internal/application/ports"
	"github.com/tu-usuario/categorias-api/internal/domain/entity"
	"github.com/tu-usuario/categorias-api/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner transacciones sobre el almacén en memoria: toma el lock de
// escritura (escritor único), ejecuta fn contra un clon del estado y solo si
// fn no falla publica el clon como estado nuevo. El rollback es gratis: el
// clon se descarta.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner con el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repos atados al clon y hace el swap al confirmar.
// Si el contexto ya está cancelado ni siquiera abre la transacción: las
// asignaciones parciales nunca quedan a medio confirmar.
func (r *TxRunner) Run(ctx context.Context, fn func(
	catRepo repository.CategoryRepository,
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx := r.store.st.clone()
	if err := fn(&txCategoryRepo{st: tx}, &txLotRepo{st: tx}, &txMovementRepo{st: tx}); err != nil {
		return err
	}
	r.store.st = tx
	return nil
}

// Repos atados a la transacción: operan sobre el clon sin tomar locks
// (el lock de escritura del runner ya está tomado).

type txCategoryRepo struct {
	st *state
}

func (r *txCategoryRepo) Create(c *entity.Category) error {
	r.st.createCategory(*c)
	return nil
}

func (r *txCategoryRepo) GetByID(id string) (*entity.Category, error) {
	return getCategory(r.st, id), nil
}

func (r *txCategoryRepo) GetByName(name string) (*entity.Category, error) {
	return getCategoryByName(r.st, name), nil
}

func (r *txCategoryRepo) Update(c *entity.Category) error {
	r.st.categories[c.ID] = *c
	return nil
}

func (r *txCategoryRepo) List() ([]entity.Category, error) {
	return r.st.listCategories(), nil
}

func (r *txCategoryRepo) Delete(id string) error {
	r.st.deleteCategory(id)
	return nil
}

type txLotRepo struct {
	st *state
}

func (r *txLotRepo) Create(l *entity.Lot) error {
	r.st.createLot(*l)
	return nil
}

func (r *txLotRepo) GetByID(id string) (*entity.Lot, error) {
	if l, ok := r.st.lots[id]; ok {
		cp := l
		return &cp, nil
	}
	return nil, nil
}

func (r *txLotRepo) ListByCategories(categoryIDs []string) ([]entity.Lot, error) {
	return r.st.listLotsByCategories(categoryIDs), nil
}

func (r *txLotRepo) ListByCategoriesForUpdate(categoryIDs []string) ([]entity.Lot, error) {
	return r.st.listLotsByCategories(categoryIDs), nil
}

func (r *txLotRepo) UpdateQuantity(id string, qty decimal.Decimal) error {
	r.st.updateLotQuantity(id, qty)
	return nil
}

func (r *txLotRepo) ReassignCategory(fromCategoryID, toCategoryID string) error {
	r.st.reassignLots(fromCategoryID, toCategoryID)
	return nil
}

func (r *txLotRepo) ExistsByCategory(categoryID string) (bool, error) {
	return existsLotByCategory(r.st, categoryID), nil
}

type txMovementRepo struct {
	st *state
}

func (r *txMovementRepo) Create(m *entity.Movement) error {
	r.st.movements = append(r.st.movements, *m)
	return nil
}

func (r *txMovementRepo) ListByLot(lotID string) ([]entity.Movement, error) {
	var out []entity.Movement
	for _, m := range r.st.movements {
		if m.LotID == lotID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *txMovementRepo) ListByReference(reference string) ([]entity.Movement, error) {
	var out []entity.Movement
	for _, m := range r.st.movements {
		if m.Reference == reference {
			out = append(out, m)
		}
	}
	return out, nil
}
