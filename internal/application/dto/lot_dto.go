package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLotRequest recepción de un lote en una categoría hoja.
// ExpiresAt es obligatorio si la estrategia efectiva de la categoría es FEFO.
type CreateLotRequest struct {
	CategoryID string          `json:"category_id" validate:"required,max=64"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	ReceivedAt time.Time       `json:"received_at"`
	ExpiresAt  *time.Time      `json:"expires_at"`
}

// LotResponse lote con sus existencias actuales.
type LotResponse struct {
	ID             string          `json:"id"`
	CategoryID     string          `json:"category_id"`
	QuantityOnHand decimal.Decimal `json:"quantity_on_hand"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	ReceivedAt     time.Time       `json:"received_at"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	Exhausted      bool            `json:"exhausted"`
}

// MovementResponse movimiento del rastro de auditoría de un lote.
type MovementResponse struct {
	ID         string          `json:"id"`
	LotID      string          `json:"lot_id"`
	CategoryID string          `json:"category_id"`
	Type       string          `json:"type"`
	Quantity   decimal.Decimal `json:"quantity"`
	Reference  string          `json:"reference,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
