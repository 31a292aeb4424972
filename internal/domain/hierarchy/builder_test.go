package hierarchy_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/categorias-api/internal/domain"
	"github.com/tu-usuario/categorias-api/internal/domain/entity"
	"github.com/tu-usuario/categorias-api/internal/domain/hierarchy"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// cat construye una categoría mínima para los tests del bosque.
func cat(id, parentID string) entity.Category {
	return entity.Category{ID: id, ParentID: parentID, Name: "cat-" + id}
}

func flatIDs(f *hierarchy.Forest) []string {
	flat := f.Flatten()
	out := make([]string, 0, len(flat))
	for _, fn := range flat {
		out = append(out, fn.Category.ID)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Construcción y recorrido
// ──────────────────────────────────────────────────────────────────────────────

func TestBuild_ArbolSimple(t *testing.T) {
	f, err := hierarchy.Build([]entity.Category{
		cat("electronica", ""),
		cat("computadores", "electronica"),
		cat("portatiles", "computadores"),
		cat("audio", "electronica"),
	})
	require.NoError(t, err)

	require.Len(t, f.Roots, 1)
	assert.Equal(t, "electronica", f.Roots[0].Category.ID)
	assert.Empty(t, f.Dangling)

	assert.Equal(t, 0, f.Node("electronica").Depth)
	assert.Equal(t, 1, f.Node("computadores").Depth)
	assert.Equal(t, 2, f.Node("portatiles").Depth)
	assert.Equal(t, 1, f.Node("audio").Depth)
}

func TestFlatten_PreordenPadresAntesQueHijos(t *testing.T) {
	f, err := hierarchy.Build([]entity.Category{
		cat("a", ""),
		cat("a1", "a"),
		cat("a1x", "a1"),
		cat("a2", "a"),
		cat("b", ""),
		cat("b1", "b"),
	})
	require.NoError(t, err)

	got := flatIDs(f)
	assert.Equal(t, []string{"a", "a1", "a1x", "a2", "b", "b1"}, got)

	// Propiedad de preorden: todo padre aparece antes que cualquiera de
	// sus descendientes.
	pos := make(map[string]int, len(got))
	for i, id := range got {
		pos[id] = i
	}
	for _, fn := range f.Flatten() {
		if fn.Category.ParentID == "" {
			continue
		}
		assert.Less(t, pos[fn.Category.ParentID], pos[fn.Category.ID],
			"el padre %q debe preceder a %q", fn.Category.ParentID, fn.Category.ID)
	}
}

func TestFlatten_HermanosConservanOrdenDeEntrada(t *testing.T) {
	f, err := hierarchy.Build([]entity.Category{
		cat("raiz", ""),
		cat("zeta", "raiz"),
		cat("alfa", "raiz"),
		cat("media", "raiz"),
	})
	require.NoError(t, err)

	// No se reordena alfabéticamente: el orden de entrada manda.
	assert.Equal(t, []string{"raiz", "zeta", "alfa", "media"}, flatIDs(f))
}

func TestBuild_BosqueConVariasRaices(t *testing.T) {
	f, err := hierarchy.Build([]entity.Category{
		cat("r1", ""),
		cat("r2", ""),
		cat("h1", "r2"),
	})
	require.NoError(t, err)
	require.Len(t, f.Roots, 2)
	assert.Equal(t, "r1", f.Roots[0].Category.ID)
	assert.Equal(t, "r2", f.Roots[1].Category.ID)
}

func TestBuild_ConjuntoVacio(t *testing.T) {
	f, err := hierarchy.Build(nil)
	require.NoError(t, err)
	assert.Empty(t, f.Roots)
	assert.Empty(t, f.Flatten())
}

func TestBuild_IDDuplicado(t *testing.T) {
	_, err := hierarchy.Build([]entity.Category{
		cat("x", ""),
		cat("x", ""),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclos
// ──────────────────────────────────────────────────────────────────────────────

func TestBuild_AutoPadreEsCiclo(t *testing.T) {
	_, err := hierarchy.Build([]entity.Category{cat("solo", "solo")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCycleDetected)

	var cerr *hierarchy.CycleError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "solo", cerr.ID)
}

func TestBuild_CicloPuroSinRaiz(t *testing.T) {
	// A -> B -> A: ningún nodo es raíz, el ciclo solo se ve al comprobar
	// los no visitados.
	_, err := hierarchy.Build([]entity.Category{
		cat("a", "b"),
		cat("b", "a"),
	})
	assert.ErrorIs(t, err, domain.ErrCycleDetected)
}

func TestBuild_CicloLargoConNodosSanos(t *testing.T) {
	// El ciclo c1 -> c2 -> c3 -> c1 convive con un árbol sano; aun así
	// Build rechaza el conjunto completo, sin árbol parcial.
	_, err := hierarchy.Build([]entity.Category{
		cat("sano", ""),
		cat("hijo", "sano"),
		cat("c1", "c3"),
		cat("c2", "c1"),
		cat("c3", "c2"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCycleDetected)

	var cerr *hierarchy.CycleError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, []string{"c1", "c2", "c3"}, cerr.ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Padres inexistentes
// ──────────────────────────────────────────────────────────────────────────────

func TestBuild_PadreInexistenteSeReportaComoRaiz(t *testing.T) {
	f, err := hierarchy.Build([]entity.Category{
		cat("a", ""),
		cat("huerfano", "fantasma"),
		cat("nieto", "huerfano"),
	})
	require.NoError(t, err, "un padre inexistente no es error de construcción")

	assert.Equal(t, []string{"huerfano"}, f.Dangling)
	require.Len(t, f.Roots, 2)
	// El huérfano actúa como raíz y conserva su subárbol.
	assert.Equal(t, 0, f.Node("huerfano").Depth)
	assert.Equal(t, 1, f.Node("nieto").Depth)
}

func TestDanglingError_EnvuelveSentinela(t *testing.T) {
	var err error = &hierarchy.DanglingError{ID: "hijo", ParentID: "fantasma"}
	assert.ErrorIs(t, err, domain.ErrDanglingParent)

	var derr *hierarchy.DanglingError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "fantasma", derr.ParentID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas sobre el bosque
// ──────────────────────────────────────────────────────────────────────────────

func TestSubtreeIDs(t *testing.T) {
	f, err := hierarchy.Build([]entity.Category{
		cat("a", ""),
		cat("a1", "a"),
		cat("a1x", "a1"),
		cat("a2", "a"),
		cat("b", ""),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "a1", "a1x", "a2"}, f.SubtreeIDs("a"))
	assert.Equal(t, []string{"a1", "a1x"}, f.SubtreeIDs("a1"))
	assert.Equal(t, []string{"b"}, f.SubtreeIDs("b"))
	assert.Nil(t, f.SubtreeIDs("no-existe"))
}

func TestAncestorIDs(t *testing.T) {
	f, err := hierarchy.Build([]entity.Category{
		cat("a", ""),
		cat("a1", "a"),
		cat("a1x", "a1"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a1", "a"}, f.AncestorIDs("a1x"), "del padre hacia la raíz")
	assert.Empty(t, f.AncestorIDs("a"))
	assert.Nil(t, f.AncestorIDs("no-existe"))
}

func TestHasChildrenYContains(t *testing.T) {
	f, err := hierarchy.Build([]entity.Category{
		cat("padre", ""),
		cat("hoja", "padre"),
	})
	require.NoError(t, err)

	assert.True(t, f.HasChildren("padre"))
	assert.False(t, f.HasChildren("hoja"))
	assert.False(t, f.HasChildren("no-existe"))
	assert.True(t, f.Contains("hoja"))
	assert.False(t, f.Contains("no-existe"))
}
