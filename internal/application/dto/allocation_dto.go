package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocateRequest solicitud de retiro contra una categoría (y descendientes).
type AllocateRequest struct {
	CategoryID string          `json:"category_id" validate:"required,max=64"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
}

// AllocationEntryResponse toma de un lote dentro del plan.
type AllocationEntryResponse struct {
	LotID    string          `json:"lot_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// AllocationPlanResponse plan de asignación confirmado.
// Status PARTIAL indica cumplimiento incompleto: el llamador debe revisar
// Unfulfilled en lugar de esperar un error.
type AllocationPlanResponse struct {
	ID          string                    `json:"id"`
	CategoryID  string                    `json:"category_id"`
	Strategy    string                    `json:"strategy"`
	Status      string                    `json:"status"`
	Requested   decimal.Decimal           `json:"requested"`
	Unfulfilled decimal.Decimal           `json:"unfulfilled"`
	Entries     []AllocationEntryResponse `json:"entries"`
	CreatedAt   time.Time                 `json:"created_at"`
}
