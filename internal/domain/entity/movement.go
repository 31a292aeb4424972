package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario sobre lotes.
const (
	MovementTypeIn       = "in"       // recepción de lote
	MovementTypeOut      = "out"      // consumo por asignación
	MovementTypeReassign = "reassign" // cambio de categoría (eliminación en cascada)
)

// Movement registra un movimiento sobre un lote. Es el rastro de auditoría
// de asignaciones y recepciones; nunca se edita ni se elimina.
type Movement struct {
	ID         string
	LotID      string
	CategoryID string
	Type       string
	Quantity   decimal.Decimal // positiva; el tipo indica la dirección
	Reference  string          // id del plan de asignación, recepción, etc.
	Notes      string
	CreatedAt  time.Time
}
