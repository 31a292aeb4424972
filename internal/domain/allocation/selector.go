// Package allocation implementa el motor de selección de lotes: dado el
// conjunto de lotes elegibles y la estrategia efectiva, produce el plan de
// consumo (servicio de dominio puro, sin efectos).
package allocation

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/categorias-api/internal/domain"
	"github.com/tu-usuario/categorias-api/internal/domain/entity"
)

// Select recorre los lotes en el orden que dicta la estrategia y toma
// min(restante, existencias) de cada uno hasta cubrir la solicitud o agotar
// los lotes. No muta los lotes de entrada; aplicar los descuentos es
// responsabilidad del llamador (dentro de su transacción).
//
// El cumplimiento parcial no es un error: si el stock se agota antes de
// cubrir la solicitud, el plan vuelve con Status PARTIAL y Unfulfilled > 0.
// Cantidades no positivas fallan con ErrInvalidInput.
//
// Determinismo: ante el mismo snapshot de lotes y los mismos argumentos el
// plan de salida es idéntico salvo por su id (requisito de auditoría); los
// empates de orden se resuelven siempre por id de lote.
func Select(categoryID string, lots []entity.Lot, strategy entity.RemovalStrategy, requested decimal.Decimal, now time.Time) (*entity.AllocationPlan, error) {
	if !requested.IsPositive() {
		return nil, fmt.Errorf("cantidad solicitada %s: %w", requested, domain.ErrInvalidInput)
	}
	if !strategy.IsValid() {
		return nil, fmt.Errorf("estrategia %q: %w", strategy, domain.ErrInvalidInput)
	}

	eligible := make([]entity.Lot, 0, len(lots))
	for _, l := range lots {
		if !l.Exhausted() {
			eligible = append(eligible, l)
		}
	}
	orderLots(eligible, strategy)

	plan := &entity.AllocationPlan{
		ID:         uuid.New().String(),
		CategoryID: categoryID,
		Strategy:   strategy,
		Requested:  requested,
		CreatedAt:  now,
	}
	remaining := requested
	for _, l := range eligible {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, l.QuantityOnHand)
		plan.Entries = append(plan.Entries, entity.AllocationEntry{LotID: l.ID, Quantity: take})
		remaining = remaining.Sub(take)
	}
	plan.Unfulfilled = remaining
	if remaining.IsPositive() {
		plan.Status = entity.AllocationPartial
	} else {
		plan.Status = entity.AllocationComplete
	}
	return plan, nil
}

// orderLots ordena in-place según la estrategia:
//
//	FIFO: ReceivedAt ascendente, empates por id ascendente.
//	LIFO: ReceivedAt descendente, empates por id descendente.
//	FEFO: ExpiresAt ascendente; los lotes sin vencimiento van después de
//	      todos los que vencen ("nunca vence" es lo menos urgente);
//	      empates por ReceivedAt ascendente y luego id ascendente.
func orderLots(lots []entity.Lot, strategy entity.RemovalStrategy) {
	switch strategy {
	case entity.RemovalFIFO:
		sort.SliceStable(lots, func(i, j int) bool {
			if !lots[i].ReceivedAt.Equal(lots[j].ReceivedAt) {
				return lots[i].ReceivedAt.Before(lots[j].ReceivedAt)
			}
			return lots[i].ID < lots[j].ID
		})
	case entity.RemovalLIFO:
		sort.SliceStable(lots, func(i, j int) bool {
			if !lots[i].ReceivedAt.Equal(lots[j].ReceivedAt) {
				return lots[i].ReceivedAt.After(lots[j].ReceivedAt)
			}
			return lots[i].ID > lots[j].ID
		})
	case entity.RemovalFEFO:
		sort.SliceStable(lots, func(i, j int) bool {
			li, lj := lots[i], lots[j]
			switch {
			case li.HasExpiry() && lj.HasExpiry():
				if !li.ExpiresAt.Equal(*lj.ExpiresAt) {
					return li.ExpiresAt.Before(*lj.ExpiresAt)
				}
			case li.HasExpiry():
				return true
			case lj.HasExpiry():
				return false
			}
			if !li.ReceivedAt.Equal(lj.ReceivedAt) {
				return li.ReceivedAt.Before(lj.ReceivedAt)
			}
			return li.ID < lj.ID
		})
	}
}
