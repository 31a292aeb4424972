package repository

import "github.com/tu-usuario/categorias-api/internal/domain/entity"

// CategoryRepository define el puerto de persistencia para Category (DIP).
// List devuelve el conjunto plano completo: la jerarquía se reconstruye con
// hierarchy.Build en cada operación, no se persiste como árbol.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	GetByName(name string) (*entity.Category, error)
	Update(category *entity.Category) error
	List() ([]entity.Category, error)
	Delete(id string) error
}
