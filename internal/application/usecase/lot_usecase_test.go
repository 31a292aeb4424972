package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/categorias-api/internal/application/dto"
	"github.com/tu-usuario/categorias-api/internal/domain"
	"github.com/tu-usuario/categorias-api/internal/domain/entity"
)

func TestLotCreate_RegistraMovimientoDeEntrada(t *testing.T) {
	e := newEnv(t)
	hoja := e.mustCreateCategory(t, "Hoja", "", "")

	lote := e.mustCreateLot(t, hoja.ID, 30)
	assert.False(t, lote.Exhausted)
	assert.False(t, lote.ReceivedAt.IsZero(), "sin receivedAt explícito se usa ahora")

	movs, err := e.lotUC.Movements(context.Background(), lote.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIn, movs[0].Type)
	assert.True(t, movs[0].Quantity.Equal(decimal.NewFromInt(30)))
}

func TestLotCreate_SoloEnCategoriasHoja(t *testing.T) {
	e := newEnv(t)
	padre := e.mustCreateCategory(t, "Padre", "", "")
	e.mustCreateCategory(t, "Hijo", padre.ID, "")

	_, err := e.lotUC.Create(context.Background(), dto.CreateLotRequest{
		CategoryID: padre.ID,
		Quantity:   decimal.NewFromInt(5),
	})
	assert.ErrorIs(t, err, domain.ErrNotLeafCategory)
}

func TestLotCreate_FEFOExigeVencimiento(t *testing.T) {
	e := newEnv(t)
	perecederos := e.mustCreateCategory(t, "Perecederos", "", "FEFO")

	_, err := e.lotUC.Create(context.Background(), dto.CreateLotRequest{
		CategoryID: perecederos.ID,
		Quantity:   decimal.NewFromInt(5),
	})
	assert.ErrorIs(t, err, domain.ErrExpiryRequired)

	exp := time.Now().AddDate(0, 1, 0)
	lote, err := e.lotUC.Create(context.Background(), dto.CreateLotRequest{
		CategoryID: perecederos.ID,
		Quantity:   decimal.NewFromInt(5),
		ExpiresAt:  &exp,
	})
	require.NoError(t, err)
	require.NotNil(t, lote.ExpiresAt)
}

func TestLotCreate_FEFOHeredadoTambienExigeVencimiento(t *testing.T) {
	// La regla aplica sobre la estrategia EFECTIVA: una hoja sin estrategia
	// propia bajo un padre FEFO también exige vencimiento.
	e := newEnv(t)
	padre := e.mustCreateCategory(t, "Padre FEFO", "", "FEFO")
	hoja := e.mustCreateCategory(t, "Hoja", padre.ID, "")

	_, err := e.lotUC.Create(context.Background(), dto.CreateLotRequest{
		CategoryID: hoja.ID,
		Quantity:   decimal.NewFromInt(5),
	})
	assert.ErrorIs(t, err, domain.ErrExpiryRequired)
}

func TestLotCreate_CantidadNoPositiva(t *testing.T) {
	e := newEnv(t)
	hoja := e.mustCreateCategory(t, "Hoja", "", "")

	for _, q := range []int64{0, -3} {
		_, err := e.lotUC.Create(context.Background(), dto.CreateLotRequest{
			CategoryID: hoja.ID,
			Quantity:   decimal.NewFromInt(q),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad %d", q)
	}
}

func TestLotCreate_CostoNegativo(t *testing.T) {
	e := newEnv(t)
	hoja := e.mustCreateCategory(t, "Hoja", "", "")

	_, err := e.lotUC.Create(context.Background(), dto.CreateLotRequest{
		CategoryID: hoja.ID,
		Quantity:   decimal.NewFromInt(5),
		UnitCost:   decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLotCreate_CategoriaInexistente(t *testing.T) {
	e := newEnv(t)

	_, err := e.lotUC.Create(context.Background(), dto.CreateLotRequest{
		CategoryID: "fantasma",
		Quantity:   decimal.NewFromInt(5),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLotListByCategory_IncluyeAgotados(t *testing.T) {
	e := newEnv(t)
	hoja := e.mustCreateCategory(t, "Hoja", "", "")
	e.mustCreateLot(t, hoja.ID, 10)
	agotado := e.mustCreateLot(t, hoja.ID, 1)

	// Vaciar el segundo lote como lo haría una asignación.
	require.NoError(t, e.lotRepo.UpdateQuantity(agotado.ID, decimal.Zero))

	lots, err := e.lotUC.ListByCategory(context.Background(), hoja.ID)
	require.NoError(t, err)
	require.Len(t, lots, 2, "los agotados se conservan para auditoría")

	exhausted := 0
	for _, l := range lots {
		if l.Exhausted {
			exhausted++
		}
	}
	assert.Equal(t, 1, exhausted)
}

func TestLotGetByID_NoExiste(t *testing.T) {
	e := newEnv(t)
	_, err := e.lotUC.GetByID(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
