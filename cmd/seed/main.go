// Comando de siembra: carga un árbol de categorías y lotes de demostración
// en PostgreSQL (útil para probar la API y el reporte en local).
package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/categorias-api/internal/domain/entity"
	"github.com/tu-usuario/categorias-api/internal/infrastructure/postgres"
	"github.com/tu-usuario/categorias-api/pkg/config"
	"github.com/tu-usuario/categorias-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})
	if cfg.DB.Driver != "postgres" {
		log.Fatal().Msg("la siembra requiere DB_DRIVER=postgres o DATABASE_URL")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	catRepo := postgres.NewCategoryRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)

	now := time.Now()
	newCat := func(name, parentID string, strategy entity.RemovalStrategy) *entity.Category {
		return &entity.Category{
			ID:              uuid.New().String(),
			ParentID:        parentID,
			Name:            name,
			RemovalStrategy: strategy,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
	}

	alimentos := newCat("Alimentos", "", entity.RemovalFEFO)
	lacteos := newCat("Lácteos", alimentos.ID, "")
	enlatados := newCat("Enlatados", alimentos.ID, entity.RemovalFIFO)
	ferreteria := newCat("Ferretería", "", entity.RemovalLIFO)
	tornillos := newCat("Tornillería", ferreteria.ID, "")

	for _, c := range []*entity.Category{alimentos, lacteos, enlatados, ferreteria, tornillos} {
		if err := catRepo.Create(c); err != nil {
			log.Fatal().Err(err).Str("name", c.Name).Msg("crear categoría")
		}
		log.Info().Str("id", c.ID).Str("name", c.Name).Msg("categoría creada")
	}

	day := func(d int) time.Time { return now.AddDate(0, 0, d) }
	exp := func(d int) *time.Time { t := day(d); return &t }
	newLot := func(categoryID string, qty int64, cost string, receivedDaysAgo int, expiresAt *time.Time) *entity.Lot {
		unitCost, _ := decimal.NewFromString(cost)
		return &entity.Lot{
			ID:             uuid.New().String(),
			CategoryID:     categoryID,
			QuantityOnHand: decimal.NewFromInt(qty),
			UnitCost:       unitCost,
			ReceivedAt:     day(-receivedDaysAgo),
			ExpiresAt:      expiresAt,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	}

	lots := []*entity.Lot{
		newLot(lacteos.ID, 40, "2500.00", 10, exp(5)),
		newLot(lacteos.ID, 25, "2600.00", 3, exp(12)),
		newLot(enlatados.ID, 100, "1800.00", 30, exp(300)),
		newLot(enlatados.ID, 60, "1750.00", 7, exp(280)),
		newLot(tornillos.ID, 500, "120.00", 60, nil),
		newLot(tornillos.ID, 350, "130.00", 15, nil),
	}
	for _, l := range lots {
		if err := lotRepo.Create(l); err != nil {
			log.Fatal().Err(err).Str("id", l.ID).Msg("crear lote")
		}
	}
	log.Info().Int("lotes", len(lots)).Msg("siembra completada")
}
