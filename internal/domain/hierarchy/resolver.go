package hierarchy

import (
	"fmt"

	"github.com/tu-usuario/categorias-api/internal/domain"
	"github.com/tu-usuario/categorias-api/internal/domain/entity"
)

// ResolveStrategy devuelve la estrategia de retiro efectiva de una categoría:
// la primera declarada explícitamente subiendo hacia la raíz, o FIFO si
// ninguna lo hace. Es una lectura pura: la herencia se calcula bajo demanda
// y nunca se escribe de vuelta, de modo que cambiar la estrategia de un padre
// cambia al instante la efectiva de todos los descendientes que no la
// sobreescriben. Termina siempre: el bosque ya rechazó los ciclos.
func ResolveStrategy(f *Forest, categoryID string) (entity.RemovalStrategy, error) {
	cur, ok := f.byID[categoryID]
	if !ok {
		return "", fmt.Errorf("categoría %q: %w", categoryID, domain.ErrNotFound)
	}
	for {
		if cur.RemovalStrategy.IsSet() {
			return cur.RemovalStrategy, nil
		}
		parent, ok := f.byID[cur.ParentID]
		if !ok {
			return entity.DefaultRemovalStrategy, nil
		}
		cur = parent
	}
}
