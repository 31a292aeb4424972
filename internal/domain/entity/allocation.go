package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estado de un plan de asignación.
type AllocationStatus string

const (
	AllocationComplete AllocationStatus = "COMPLETE" // cantidad solicitada cubierta por completo
	AllocationPartial  AllocationStatus = "PARTIAL"  // stock insuficiente; Unfulfilled > 0
)

// AllocationEntry una toma concreta: cantidad consumida de un lote.
type AllocationEntry struct {
	LotID    string
	Quantity decimal.Decimal
}

// AllocationPlan resultado del motor de asignación: la secuencia ordenada de
// tomas que satisface (total o parcialmente) una solicitud de retiro.
// Invariante: suma de Entries.Quantity + Unfulfilled == Requested.
type AllocationPlan struct {
	ID          string
	CategoryID  string
	Strategy    RemovalStrategy // estrategia efectiva aplicada
	Entries     []AllocationEntry
	Requested   decimal.Decimal
	Unfulfilled decimal.Decimal
	Status      AllocationStatus
	CreatedAt   time.Time
}

// Allocated devuelve la cantidad total tomada por el plan.
func (p AllocationPlan) Allocated() decimal.Decimal {
	total := decimal.Zero
	for _, e := range p.Entries {
		total = total.Add(e.Quantity)
	}
	return total
}
