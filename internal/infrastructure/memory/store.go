// Package memory implementa los puertos de persistencia sobre mapas en
// memoria protegidos por un RWMutex. Se usa en tests y en modo desarrollo
// (DB_DRIVER=memory); el escritor único del mutex cumple la serialización
// que el adaptador de PostgreSQL logra con transacciones y FOR UPDATE.
package memory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/categorias-api/internal/domain/entity"
)

// state snapshot completo del almacén. catOrder y lotOrder preservan el
// orden de inserción: ListHierarchy depende de que los hermanos conserven
// el orden de entrada.
type state struct {
	categories map[string]entity.Category
	catOrder   []string
	lots       map[string]entity.Lot
	lotOrder   []string
	movements  []entity.Movement
}

func newState() *state {
	return &state{
		categories: make(map[string]entity.Category),
		lots:       make(map[string]entity.Lot),
	}
}

// clone copia profunda del snapshot (los valores son structs, basta copiar
// mapas y slices).
func (s *state) clone() *state {
	c := &state{
		categories: make(map[string]entity.Category, len(s.categories)),
		catOrder:   append([]string(nil), s.catOrder...),
		lots:       make(map[string]entity.Lot, len(s.lots)),
		lotOrder:   append([]string(nil), s.lotOrder...),
		movements:  append([]entity.Movement(nil), s.movements...),
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.lots {
		c.lots[k] = v
	}
	return c
}

func (s *state) listCategories() []entity.Category {
	out := make([]entity.Category, 0, len(s.catOrder))
	for _, id := range s.catOrder {
		out = append(out, s.categories[id])
	}
	return out
}

func (s *state) listLotsByCategories(categoryIDs []string) []entity.Lot {
	wanted := make(map[string]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		wanted[id] = true
	}
	var out []entity.Lot
	for _, id := range s.lotOrder {
		l := s.lots[id]
		if wanted[l.CategoryID] {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *state) createCategory(c entity.Category) {
	s.categories[c.ID] = c
	s.catOrder = append(s.catOrder, c.ID)
}

func (s *state) deleteCategory(id string) {
	delete(s.categories, id)
	for i, cid := range s.catOrder {
		if cid == id {
			s.catOrder = append(s.catOrder[:i], s.catOrder[i+1:]...)
			break
		}
	}
}

func (s *state) createLot(l entity.Lot) {
	s.lots[l.ID] = l
	s.lotOrder = append(s.lotOrder, l.ID)
}

func (s *state) updateLotQuantity(id string, qty decimal.Decimal) bool {
	l, ok := s.lots[id]
	if !ok {
		return false
	}
	l.QuantityOnHand = qty
	l.UpdatedAt = time.Now()
	s.lots[id] = l
	return true
}

func (s *state) reassignLots(fromCategoryID, toCategoryID string) {
	for _, id := range s.lotOrder {
		l := s.lots[id]
		if l.CategoryID == fromCategoryID {
			l.CategoryID = toCategoryID
			l.UpdatedAt = time.Now()
			s.lots[id] = l
		}
	}
}
