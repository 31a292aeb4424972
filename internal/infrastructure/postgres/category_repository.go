package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/categorias-api/internal/domain"
	"github.com/tu-usuario/categorias-api/internal/domain/entity"
	"github.com/tu-usuario/categorias-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL
// (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create inserta la categoría. parent_id NULL marca una raíz y
// removal_strategy NULL hereda del padre.
func (r *CategoryRepo) Create(c *entity.Category) error {
	query := `
		INSERT INTO categories (id, parent_id, name, removal_strategy, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.ParentID, c.Name, string(c.RemovalStrategy), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por id; nil si no existe.
func (r *CategoryRepo) GetByID(id string) (*entity.Category, error) {
	query := `
		SELECT id, COALESCE(parent_id, ''), name, COALESCE(removal_strategy, ''), created_at, updated_at
		FROM categories WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByName obtiene una categoría por nombre exacto; nil si no existe.
func (r *CategoryRepo) GetByName(name string) (*entity.Category, error) {
	query := `
		SELECT id, COALESCE(parent_id, ''), name, COALESCE(removal_strategy, ''), created_at, updated_at
		FROM categories WHERE name = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, name))
}

// Update actualiza nombre, padre y estrategia.
func (r *CategoryRepo) Update(c *entity.Category) error {
	query := `
		UPDATE categories
		SET name = $2, parent_id = NULLIF($3, ''), removal_strategy = NULLIF($4, ''), updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, c.ParentID, string(c.RemovalStrategy), c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve el conjunto plano completo en orden de creación: los
// hermanos conservan el orden de entrada para el aplanado en preorden.
func (r *CategoryRepo) List() ([]entity.Category, error) {
	query := `
		SELECT id, COALESCE(parent_id, ''), name, COALESCE(removal_strategy, ''), created_at, updated_at
		FROM categories ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []entity.Category
	for rows.Next() {
		var c entity.Category
		var strategy string
		if err := rows.Scan(&c.ID, &c.ParentID, &c.Name, &strategy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.RemovalStrategy = entity.RemovalStrategy(strategy)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete elimina la categoría por id.
func (r *CategoryRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) scanOne(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	var strategy string
	err := row.Scan(&c.ID, &c.ParentID, &c.Name, &strategy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	c.RemovalStrategy = entity.RemovalStrategy(strategy)
	return &c, nil
}
