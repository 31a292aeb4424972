package entity

import "time"

// Estrategias de retiro de inventario (value object conceptual).
type RemovalStrategy string

const (
	RemovalFIFO RemovalStrategy = "FIFO" // primero en entrar, primero en salir
	RemovalLIFO RemovalStrategy = "LIFO" // último en entrar, primero en salir
	RemovalFEFO RemovalStrategy = "FEFO" // primero en vencer, primero en salir
)

// DefaultRemovalStrategy estrategia del sistema cuando ningún ancestro declara una.
const DefaultRemovalStrategy = RemovalFIFO

// IsValid indica si el valor es una estrategia conocida.
func (s RemovalStrategy) IsValid() bool {
	switch s {
	case RemovalFIFO, RemovalLIFO, RemovalFEFO:
		return true
	}
	return false
}

// IsSet indica si la categoría declara estrategia propia (vacío = hereda del padre).
func (s RemovalStrategy) IsSet() bool { return s != "" }

// UncategorizedID id reservado de la categoría raíz "sin categoría".
// Es el destino de los lotes cuando su categoría se elimina en cascada.
const UncategorizedID = "uncategorized"

// Category representa una categoría de productos (jerárquica).
// ParentID vacío marca una raíz. RemovalStrategy vacía hereda la del
// ancestro más cercano que la declare; FIFO si ninguno lo hace.
type Category struct {
	ID              string
	ParentID        string
	Name            string
	RemovalStrategy RemovalStrategy
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsRoot indica si la categoría no tiene padre.
func (c Category) IsRoot() bool { return c.ParentID == "" }

// IsProtected indica si es la categoría reservada del sistema.
func (c Category) IsProtected() bool { return c.ID == UncategorizedID }
