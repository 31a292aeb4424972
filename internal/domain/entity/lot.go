package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot representa un lote de inventario: una recepción concreta de stock con
// su cantidad restante, fecha de recepción y vencimiento opcional.
// Un lote agotado (QuantityOnHand == 0) se conserva para auditoría pero
// queda excluido de la selección.
type Lot struct {
	ID             string
	CategoryID     string // categoría hoja propietaria (relación débil por id)
	QuantityOnHand decimal.Decimal
	UnitCost       decimal.Decimal
	ReceivedAt     time.Time
	ExpiresAt      *time.Time // nil = no vence
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Exhausted indica si el lote ya no tiene existencias.
func (l Lot) Exhausted() bool { return !l.QuantityOnHand.IsPositive() }

// HasExpiry indica si el lote declara fecha de vencimiento.
func (l Lot) HasExpiry() bool { return l.ExpiresAt != nil }
