package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/categorias-api/internal/application/ports"
	"github.com/tu-usuario/categorias-api/internal/domain"
	"github.com/tu-usuario/categorias-api/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// El bloqueo de filas lo aportan los repos atados a la tx
// (LotRepo.ListByCategoriesForUpdate); un conflicto de serialización o
// deadlock se traduce a domain.ErrConcurrentModification para que el caso de
// uso reintente.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Si el contexto ya venció no abre la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(
	catRepo repository.CategoryRepository,
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	catRepo := NewCategoryRepository(tx)
	lotRepo := NewLotRepository(tx)
	movRepo := NewMovementRepository(tx)

	if err := fn(catRepo, lotRepo, movRepo); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("%w: %v", domain.ErrConcurrentModification, err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("%w: %v", domain.ErrConcurrentModification, err)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
