// Package hierarchy construye y consulta el bosque de categorías a partir del
// conjunto plano de registros (servicio de dominio, sin estado propio).
package hierarchy

import (
	"fmt"

	"github.com/tu-usuario/categorias-api/internal/domain"
	"github.com/tu-usuario/categorias-api/internal/domain/entity"
)

// Node nodo del árbol de categorías.
type Node struct {
	Category entity.Category
	Depth    int
	Children []*Node
}

// FlatNode entrada del recorrido en preorden (para consumo tipo tabla).
type FlatNode struct {
	Category entity.Category
	Depth    int
}

// Forest bosque validado de categorías.
// Dangling lista los ids cuyo ParentID no existe en el conjunto; esos nodos
// se tratan como raíces pero se reportan para que el llamador decida.
type Forest struct {
	Roots    []*Node
	Dangling []string

	nodes  map[string]*Node
	byID   map[string]entity.Category
	childs map[string][]string // adyacencia id -> hijos en orden de entrada
}

// CycleError nombra la categoría donde se detectó el ciclo.
type CycleError struct {
	ID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("ciclo detectado en la categoría %q", e.ID)
}

// Unwrap permite errors.Is(err, domain.ErrCycleDetected).
func (e *CycleError) Unwrap() error { return domain.ErrCycleDetected }

// DanglingError nombra la categoría con padre inexistente.
type DanglingError struct {
	ID       string
	ParentID string
}

func (e *DanglingError) Error() string {
	return fmt.Sprintf("la categoría %q referencia al padre inexistente %q", e.ID, e.ParentID)
}

func (e *DanglingError) Unwrap() error { return domain.ErrDanglingParent }

// Build construye el bosque desde el conjunto plano. Es una función pura:
// se reconstruye completo en cada mutación en lugar de parchear incrementalmente
// (los conteos esperados son de decenas a pocos miles de categorías).
//
// Ante cualquier ciclo (incluido el auto-padre) devuelve CycleError y ningún
// árbol parcial. Los padres inexistentes no son error aquí: el nodo se trata
// como raíz y su id se reporta en Forest.Dangling.
func Build(categories []entity.Category) (*Forest, error) {
	f := &Forest{
		nodes:  make(map[string]*Node, len(categories)),
		byID:   make(map[string]entity.Category, len(categories)),
		childs: make(map[string][]string, len(categories)),
	}
	for _, c := range categories {
		if _, dup := f.byID[c.ID]; dup {
			return nil, fmt.Errorf("categoría %q: %w", c.ID, domain.ErrDuplicate)
		}
		f.byID[c.ID] = c
	}

	// Mapa de adyacencia id -> hijos, preservando el orden de entrada
	// de los hermanos. Las raíces incluyen los padres inexistentes.
	var rootIDs []string
	for _, c := range categories {
		if c.ParentID == c.ID {
			return nil, &CycleError{ID: c.ID}
		}
		if c.ParentID == "" {
			rootIDs = append(rootIDs, c.ID)
			continue
		}
		if _, ok := f.byID[c.ParentID]; !ok {
			f.Dangling = append(f.Dangling, c.ID)
			rootIDs = append(rootIDs, c.ID)
			continue
		}
		f.childs[c.ParentID] = append(f.childs[c.ParentID], c.ID)
	}

	onPath := make(map[string]bool, len(categories))
	visited := make(map[string]bool, len(categories))
	for _, id := range rootIDs {
		node, err := f.attach(id, 0, onPath, visited)
		if err != nil {
			return nil, err
		}
		f.Roots = append(f.Roots, node)
	}

	// Un nodo no alcanzado desde ninguna raíz solo puede estar dentro de un
	// ciclo puro (A -> B -> A): cada nodo tiene un único padre, así que todo
	// nodo fuera de un ciclo cuelga transitivamente de una raíz.
	if len(visited) != len(categories) {
		for _, c := range categories {
			if !visited[c.ID] {
				return nil, &CycleError{ID: c.ID}
			}
		}
	}
	return f, nil
}

// attach cuelga recursivamente los hijos de id, vigilando el camino actual
// para detectar revisitas (recursión acotada por la profundidad validada).
func (f *Forest) attach(id string, depth int, onPath, visited map[string]bool) (*Node, error) {
	if onPath[id] {
		return nil, &CycleError{ID: id}
	}
	onPath[id] = true
	defer delete(onPath, id)
	visited[id] = true

	node := &Node{Category: f.byID[id], Depth: depth}
	f.nodes[id] = node
	for _, childID := range f.childs[id] {
		child, err := f.attach(childID, depth+1, onPath, visited)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// Node devuelve el nodo de una categoría, o nil si no existe.
func (f *Forest) Node(id string) *Node {
	return f.nodes[id]
}

// Contains indica si la categoría pertenece al bosque.
func (f *Forest) Contains(id string) bool {
	_, ok := f.byID[id]
	return ok
}

// Flatten devuelve el recorrido en preorden: todo padre precede a sus hijos
// y los hermanos conservan el orden de entrada.
func (f *Forest) Flatten() []FlatNode {
	out := make([]FlatNode, 0, len(f.byID))
	var walk func(n *Node)
	walk = func(n *Node) {
		out = append(out, FlatNode{Category: n.Category, Depth: n.Depth})
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range f.Roots {
		walk(r)
	}
	return out
}

// SubtreeIDs devuelve el id dado más todos sus descendientes en preorden.
// Devuelve nil si la categoría no existe.
func (f *Forest) SubtreeIDs(id string) []string {
	root := f.nodes[id]
	if root == nil {
		return nil
	}
	var out []string
	var walk func(n *Node)
	walk = func(n *Node) {
		out = append(out, n.Category.ID)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return out
}

// AncestorIDs devuelve los ancestros de la categoría, del padre hacia la raíz.
func (f *Forest) AncestorIDs(id string) []string {
	var out []string
	cur, ok := f.byID[id]
	if !ok {
		return nil
	}
	for cur.ParentID != "" {
		parent, ok := f.byID[cur.ParentID]
		if !ok {
			break // padre inexistente: el nodo actuó como raíz
		}
		out = append(out, parent.ID)
		cur = parent
	}
	return out
}

// HasChildren indica si la categoría tiene subcategorías.
func (f *Forest) HasChildren(id string) bool {
	n := f.nodes[id]
	return n != nil && len(n.Children) > 0
}
