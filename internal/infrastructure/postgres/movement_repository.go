package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/categorias-api/internal/domain/entity"
	"github.com/tu-usuario/categorias-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del rastro de auditoría sobre PostgreSQL.
// Solo INSERT y SELECT: los movimientos nunca se editan.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de movimientos.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta el movimiento.
func (r *MovementRepo) Create(m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, lot_id, category_id, type, quantity, reference, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.LotID, m.CategoryID, m.Type, m.Quantity, m.Reference, m.Notes, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// ListByLot devuelve los movimientos de un lote, del más antiguo al más reciente.
func (r *MovementRepo) ListByLot(lotID string) ([]entity.Movement, error) {
	return r.list(`lot_id = $1`, lotID)
}

// ListByReference devuelve los movimientos de una referencia (plan de
// asignación, recepción).
func (r *MovementRepo) ListByReference(reference string) ([]entity.Movement, error) {
	return r.list(`reference = $1`, reference)
}

func (r *MovementRepo) list(where string, arg any) ([]entity.Movement, error) {
	query := `
		SELECT id, lot_id, category_id, type, quantity, reference, notes, created_at
		FROM movements WHERE ` + where + ` ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, arg)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.LotID, &m.CategoryID, &m.Type, &m.Quantity, &m.Reference, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
