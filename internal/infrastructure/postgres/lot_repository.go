package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/categorias-api/internal/domain"
	"github.com/tu-usuario/categorias-api/internal/domain/entity"
	"github.com/tu-usuario/categorias-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre PostgreSQL.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, category_id, quantity_on_hand, unit_cost, received_at, expires_at, created_at, updated_at`

// Create inserta el lote.
func (r *LotRepo) Create(l *entity.Lot) error {
	query := `
		INSERT INTO lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.CategoryID, l.QuantityOnHand, l.UnitCost, l.ReceivedAt, l.ExpiresAt, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por id; nil si no existe.
func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1`
	l, err := scanLot(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return l, nil
}

// ListByCategories devuelve los lotes de las categorías dadas en orden
// estable por id (determinismo de los planes de asignación).
func (r *LotRepo) ListByCategories(categoryIDs []string) ([]entity.Lot, error) {
	return r.list(categoryIDs, false)
}

// ListByCategoriesForUpdate igual que ListByCategories pero bloqueando las
// filas (SELECT FOR UPDATE). El ORDER BY id fija el orden de adquisición de
// los locks: dos asignaciones concurrentes no pueden abrazarse en deadlock.
func (r *LotRepo) ListByCategoriesForUpdate(categoryIDs []string) ([]entity.Lot, error) {
	return r.list(categoryIDs, true)
}

func (r *LotRepo) list(categoryIDs []string, forUpdate bool) ([]entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE category_id = ANY($1) ORDER BY id`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := r.q.Query(context.Background(), query, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	var out []entity.Lot
	for rows.Next() {
		var l entity.Lot
		if err := rows.Scan(&l.ID, &l.CategoryID, &l.QuantityOnHand, &l.UnitCost, &l.ReceivedAt, &l.ExpiresAt, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// UpdateQuantity fija las existencias restantes. El CHECK de la tabla
// (quantity_on_hand >= 0) respalda el invariante del dominio.
func (r *LotRepo) UpdateQuantity(id string, qty decimal.Decimal) error {
	query := `UPDATE lots SET quantity_on_hand = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, qty)
	if err != nil {
		return fmt.Errorf("update lot quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReassignCategory mueve todos los lotes de una categoría a otra.
func (r *LotRepo) ReassignCategory(fromCategoryID, toCategoryID string) error {
	query := `UPDATE lots SET category_id = $2, updated_at = now() WHERE category_id = $1`
	_, err := r.q.Exec(context.Background(), query, fromCategoryID, toCategoryID)
	if err != nil {
		return fmt.Errorf("reassign lots: %w", err)
	}
	return nil
}

// ExistsByCategory indica si la categoría tiene algún lote asociado.
func (r *LotRepo) ExistsByCategory(categoryID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM lots WHERE category_id = $1)`, categoryID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists lots: %w", err)
	}
	return exists, nil
}

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	err := row.Scan(&l.ID, &l.CategoryID, &l.QuantityOnHand, &l.UnitCost, &l.ReceivedAt, &l.ExpiresAt, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
