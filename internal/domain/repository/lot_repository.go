package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/categorias-api/internal/domain/entity"
)

// LotRepository define el puerto de persistencia para Lot.
// Usado dentro de transacciones para garantizar consistencia del motor de
// asignación (ver ListByCategoriesForUpdate).
type LotRepository interface {
	Create(lot *entity.Lot) error
	GetByID(id string) (*entity.Lot, error)
	// ListByCategories devuelve los lotes de las categorías dadas,
	// agotados incluidos, en orden estable por id.
	ListByCategories(categoryIDs []string) ([]entity.Lot, error)
	// ListByCategoriesForUpdate igual que ListByCategories pero bloquea las
	// filas para update (SELECT FOR UPDATE). Solo tiene sentido en una tx.
	ListByCategoriesForUpdate(categoryIDs []string) ([]entity.Lot, error)
	// UpdateQuantity fija las existencias restantes de un lote.
	UpdateQuantity(id string, quantity decimal.Decimal) error
	// ReassignCategory mueve todos los lotes de una categoría a otra
	// (eliminación en cascada hacia la categoría reservada).
	ReassignCategory(fromCategoryID, toCategoryID string) error
	// ExistsByCategory indica si la categoría tiene algún lote asociado.
	ExistsByCategory(categoryID string) (bool, error)
}
