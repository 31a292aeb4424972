package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/categorias-api/internal/application/dto"
	"github.com/tu-usuario/categorias-api/internal/application/ports"
	"github.com/tu-usuario/categorias-api/internal/application/usecase"
	"github.com/tu-usuario/categorias-api/internal/domain"
	"github.com/tu-usuario/categorias-api/internal/infrastructure/memory"
)

// fakeCache implementación en memoria del puerto de caché para observar
// hits, sets e invalidaciones.
type fakeCache struct {
	entries     map[string]*dto.CategoryStatsResponse
	hits        int
	invalidated []string
}

var _ ports.StatsCache = (*fakeCache)(nil)

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*dto.CategoryStatsResponse)}
}

func (c *fakeCache) Get(_ context.Context, categoryID string) (*dto.CategoryStatsResponse, bool) {
	s, ok := c.entries[categoryID]
	if ok {
		c.hits++
	}
	return s, ok
}

func (c *fakeCache) Set(_ context.Context, categoryID string, stats *dto.CategoryStatsResponse) {
	c.entries[categoryID] = stats
}

func (c *fakeCache) Invalidate(_ context.Context, categoryIDs ...string) {
	for _, id := range categoryIDs {
		delete(c.entries, id)
		c.invalidated = append(c.invalidated, id)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Agregados por subárbol
// ──────────────────────────────────────────────────────────────────────────────

func TestStats_SumaElSubarbolCompleto(t *testing.T) {
	e := newEnv(t)
	raiz := e.mustCreateCategory(t, "Raíz", "", "")
	hijoA := e.mustCreateCategory(t, "Hijo A", raiz.ID, "")
	hijoB := e.mustCreateCategory(t, "Hijo B", raiz.ID, "")
	e.mustCreateLot(t, hijoA.ID, 10) // costo 100
	e.mustCreateLot(t, hijoB.ID, 5)  // costo 100

	stats, err := e.statsUC.Stats(context.Background(), raiz.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.LotCount)
	assert.True(t, stats.TotalQuantity.Equal(decimal.NewFromInt(15)))
	assert.True(t, stats.TotalValue.Equal(decimal.NewFromInt(1500)), "cantidad × costo unitario")
}

func TestStats_SubarbolIntermedioNoVeAlHermano(t *testing.T) {
	e := newEnv(t)
	raiz := e.mustCreateCategory(t, "Raíz", "", "")
	hijoA := e.mustCreateCategory(t, "Hijo A", raiz.ID, "")
	hijoB := e.mustCreateCategory(t, "Hijo B", raiz.ID, "")
	e.mustCreateLot(t, hijoA.ID, 10)
	e.mustCreateLot(t, hijoB.ID, 5)

	stats, err := e.statsUC.Stats(context.Background(), hijoA.ID)
	require.NoError(t, err)
	assert.True(t, stats.TotalQuantity.Equal(decimal.NewFromInt(10)))
}

func TestStats_IgnoraLotesAgotados(t *testing.T) {
	e := newEnv(t)
	hoja := e.mustCreateCategory(t, "Hoja", "", "")
	vivo := e.mustCreateLot(t, hoja.ID, 10)
	agotado := e.mustCreateLot(t, hoja.ID, 4)
	require.NoError(t, e.lotRepo.UpdateQuantity(agotado.ID, decimal.Zero))

	stats, err := e.statsUC.Stats(context.Background(), hoja.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.LotCount)
	assert.True(t, stats.TotalQuantity.Equal(vivo.QuantityOnHand))
}

func TestStats_Idempotente(t *testing.T) {
	e := newEnv(t)
	hoja := e.mustCreateCategory(t, "Hoja", "", "")
	e.mustCreateLot(t, hoja.ID, 8)

	s1, err := e.statsUC.Stats(context.Background(), hoja.ID)
	require.NoError(t, err)
	s2, err := e.statsUC.Stats(context.Background(), hoja.ID)
	require.NoError(t, err)

	assert.Equal(t, s1.LotCount, s2.LotCount)
	assert.True(t, s1.TotalQuantity.Equal(s2.TotalQuantity))
	assert.True(t, s1.TotalValue.Equal(s2.TotalValue))
}

func TestStats_CategoriaInexistente(t *testing.T) {
	e := newEnv(t)
	_, err := e.statsUC.Stats(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Caché
// ──────────────────────────────────────────────────────────────────────────────

func TestStats_SegundaLecturaSaleDeCache(t *testing.T) {
	store := memory.NewStore()
	catRepo := memory.NewCategoryRepository(store)
	lotRepo := memory.NewLotRepository(store)
	movRepo := memory.NewMovementRepository(store)
	txRunner := memory.NewTxRunner(store)
	cache := newFakeCache()

	catUC := usecase.NewCategoryUseCase(txRunner, catRepo, lotRepo, cache, nil)
	lotUC := usecase.NewLotUseCase(txRunner, lotRepo, movRepo, catRepo, cache, nil)
	statsUC := usecase.NewStatsUseCase(catRepo, lotRepo, cache)
	ctx := context.Background()

	hoja, err := catUC.Create(ctx, dto.CreateCategoryRequest{Name: "Hoja"})
	require.NoError(t, err)
	_, err = lotUC.Create(ctx, dto.CreateLotRequest{
		CategoryID: hoja.ID,
		Quantity:   decimal.NewFromInt(6),
	})
	require.NoError(t, err)

	_, err = statsUC.Stats(ctx, hoja.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.hits, "primera lectura recalcula")

	_, err = statsUC.Stats(ctx, hoja.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits, "segunda lectura sale de la caché")
}

func TestStats_RecibirLoteInvalidaCategoriaYAncestros(t *testing.T) {
	store := memory.NewStore()
	catRepo := memory.NewCategoryRepository(store)
	lotRepo := memory.NewLotRepository(store)
	movRepo := memory.NewMovementRepository(store)
	txRunner := memory.NewTxRunner(store)
	cache := newFakeCache()

	catUC := usecase.NewCategoryUseCase(txRunner, catRepo, lotRepo, cache, nil)
	lotUC := usecase.NewLotUseCase(txRunner, lotRepo, movRepo, catRepo, cache, nil)
	statsUC := usecase.NewStatsUseCase(catRepo, lotRepo, cache)
	ctx := context.Background()

	raiz, err := catUC.Create(ctx, dto.CreateCategoryRequest{Name: "Raíz"})
	require.NoError(t, err)
	hoja, err := catUC.Create(ctx, dto.CreateCategoryRequest{Name: "Hoja", ParentID: raiz.ID})
	require.NoError(t, err)

	// Calentar la caché de la raíz.
	antes, err := statsUC.Stats(ctx, raiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, antes.LotCount)

	_, err = lotUC.Create(ctx, dto.CreateLotRequest{
		CategoryID: hoja.ID,
		Quantity:   decimal.NewFromInt(9),
	})
	require.NoError(t, err)

	assert.Contains(t, cache.invalidated, hoja.ID)
	assert.Contains(t, cache.invalidated, raiz.ID, "los agregados del ancestro incluyen al hijo")

	// La relectura ya ve el lote nuevo, sin servir datos rancios.
	despues, err := statsUC.Stats(ctx, raiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, despues.LotCount)
	assert.True(t, despues.TotalQuantity.Equal(decimal.NewFromInt(9)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reporte
// ──────────────────────────────────────────────────────────────────────────────

func TestReport_FilasEnPreordenConEstrategiaEfectiva(t *testing.T) {
	e := newEnv(t)
	raiz := e.mustCreateCategory(t, "Raíz", "", "LIFO")
	hoja := e.mustCreateCategory(t, "Hoja", raiz.ID, "")
	e.mustCreateLot(t, hoja.ID, 12)

	rows, err := e.statsUC.Report(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Raíz", rows[0].Name)
	assert.Equal(t, 0, rows[0].Level)
	assert.Equal(t, "LIFO", rows[0].EffectiveStrategy)
	assert.True(t, rows[0].TotalQuantity.Equal(decimal.NewFromInt(12)))

	assert.Equal(t, "Hoja", rows[1].Name)
	assert.Equal(t, 1, rows[1].Level)
	assert.Equal(t, "LIFO", rows[1].EffectiveStrategy, "heredada en el reporte")
	assert.Equal(t, 1, rows[1].LotCount)
}
