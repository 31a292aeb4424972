package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/categorias-api/internal/domain/entity"
	"github.com/tu-usuario/categorias-api/internal/domain/repository"
	"github.com/tu-usuario/categorias-api/internal/infrastructure/memory"
)

func newCat(id, parentID string) *entity.Category {
	now := time.Now()
	return &entity.Category{ID: id, ParentID: parentID, Name: "cat-" + id, CreatedAt: now, UpdatedAt: now}
}

func newLot(id, categoryID string, qty int64) *entity.Lot {
	now := time.Now()
	return &entity.Lot{
		ID:             id,
		CategoryID:     categoryID,
		QuantityOnHand: decimal.NewFromInt(qty),
		ReceivedAt:     now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestStore_CRUDBasico(t *testing.T) {
	store := memory.NewStore()
	catRepo := memory.NewCategoryRepository(store)

	require.NoError(t, catRepo.Create(newCat("a", "")))

	got, err := catRepo.GetByID("a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "cat-a", got.Name)

	byName, err := catRepo.GetByName("cat-a")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, "a", byName.ID)

	missing, err := catRepo.GetByID("zz")
	require.NoError(t, err)
	assert.Nil(t, missing, "ausencia se reporta como nil, no como error")

	require.NoError(t, catRepo.Delete("a"))
	got, err = catRepo.GetByID("a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ListConservaOrdenDeInsercion(t *testing.T) {
	store := memory.NewStore()
	catRepo := memory.NewCategoryRepository(store)

	for _, id := range []string{"zeta", "alfa", "media"} {
		require.NoError(t, catRepo.Create(newCat(id, "")))
	}

	list, err := catRepo.List()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "zeta", list[0].ID)
	assert.Equal(t, "alfa", list[1].ID)
	assert.Equal(t, "media", list[2].ID)
}

func TestTxRunner_CommitPublicaElEstado(t *testing.T) {
	store := memory.NewStore()
	catRepo := memory.NewCategoryRepository(store)
	runner := memory.NewTxRunner(store)

	err := runner.Run(context.Background(), func(
		txCat repository.CategoryRepository,
		_ repository.LotRepository,
		_ repository.MovementRepository,
	) error {
		return txCat.Create(newCat("a", ""))
	})
	require.NoError(t, err)

	got, err := catRepo.GetByID("a")
	require.NoError(t, err)
	assert.NotNil(t, got, "el commit es visible fuera de la transacción")
}

func TestTxRunner_ErrorDescartaTodosLosCambios(t *testing.T) {
	store := memory.NewStore()
	catRepo := memory.NewCategoryRepository(store)
	lotRepo := memory.NewLotRepository(store)
	runner := memory.NewTxRunner(store)

	require.NoError(t, catRepo.Create(newCat("base", "")))
	require.NoError(t, lotRepo.Create(newLot("l1", "base", 10)))

	boom := errors.New("boom")
	err := runner.Run(context.Background(), func(
		txCat repository.CategoryRepository,
		txLot repository.LotRepository,
		_ repository.MovementRepository,
	) error {
		if err := txCat.Create(newCat("nueva", "")); err != nil {
			return err
		}
		if err := txLot.UpdateQuantity("l1", decimal.Zero); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Nada de la transacción fallida se publicó.
	got, err := catRepo.GetByID("nueva")
	require.NoError(t, err)
	assert.Nil(t, got)

	lot, err := lotRepo.GetByID("l1")
	require.NoError(t, err)
	require.NotNil(t, lot)
	assert.True(t, lot.QuantityOnHand.Equal(decimal.NewFromInt(10)), "la cantidad no se tocó")
}

func TestTxRunner_LecturasDentroDeLaTxVenSusPropiasEscrituras(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)

	err := runner.Run(context.Background(), func(
		txCat repository.CategoryRepository,
		_ repository.LotRepository,
		_ repository.MovementRepository,
	) error {
		if err := txCat.Create(newCat("a", "")); err != nil {
			return err
		}
		got, err := txCat.GetByID("a")
		if err != nil {
			return err
		}
		require.NotNil(t, got, "read-your-writes dentro de la tx")
		return nil
	})
	require.NoError(t, err)
}

func TestTxRunner_ContextoCanceladoNoAbreLaTx(t *testing.T) {
	store := memory.NewStore()
	catRepo := memory.NewCategoryRepository(store)
	runner := memory.NewTxRunner(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := runner.Run(ctx, func(
		txCat repository.CategoryRepository,
		_ repository.LotRepository,
		_ repository.MovementRepository,
	) error {
		called = true
		return txCat.Create(newCat("a", ""))
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called, "fn ni siquiera se ejecuta")

	got, err := catRepo.GetByID("a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ReassignCategoryMueveTodosLosLotes(t *testing.T) {
	store := memory.NewStore()
	lotRepo := memory.NewLotRepository(store)

	require.NoError(t, lotRepo.Create(newLot("l1", "vieja", 5)))
	require.NoError(t, lotRepo.Create(newLot("l2", "vieja", 3)))
	require.NoError(t, lotRepo.Create(newLot("l3", "otra", 1)))

	require.NoError(t, lotRepo.ReassignCategory("vieja", "nueva"))

	moved, err := lotRepo.ListByCategories([]string{"nueva"})
	require.NoError(t, err)
	assert.Len(t, moved, 2)

	exists, err := lotRepo.ExistsByCategory("vieja")
	require.NoError(t, err)
	assert.False(t, exists)

	untouched, err := lotRepo.ListByCategories([]string{"otra"})
	require.NoError(t, err)
	assert.Len(t, untouched, 1)
}
