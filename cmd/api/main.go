package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	appallocation "github.com/tu-usuario/categorias-api/internal/application/allocation"
	"github.com/tu-usuario/categorias-api/internal/application/ports"
	"github.com/tu-usuario/categorias-api/internal/application/usecase"
	"github.com/tu-usuario/categorias-api/internal/domain/repository"
	"github.com/tu-usuario/categorias-api/internal/infrastructure/events"
	"github.com/tu-usuario/categorias-api/internal/infrastructure/memory"
	"github.com/tu-usuario/categorias-api/internal/infrastructure/pdf"
	"github.com/tu-usuario/categorias-api/internal/infrastructure/postgres"
	"github.com/tu-usuario/categorias-api/internal/infrastructure/rediscache"
	httpRouter "github.com/tu-usuario/categorias-api/internal/interfaces/http"
	"github.com/tu-usuario/categorias-api/pkg/config"
	"github.com/tu-usuario/categorias-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Almacén: PostgreSQL en producción, memoria para desarrollo/demos.
	var (
		catRepo  repository.CategoryRepository
		lotRepo  repository.LotRepository
		movRepo  repository.MovementRepository
		txRunner ports.TxRunner
	)
	switch cfg.DB.Driver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		catRepo = postgres.NewCategoryRepository(pool)
		lotRepo = postgres.NewLotRepository(pool)
		movRepo = postgres.NewMovementRepository(pool)
		txRunner = postgres.NewTxRunner(pool)
	default:
		store := memory.NewStore()
		catRepo = memory.NewCategoryRepository(store)
		lotRepo = memory.NewLotRepository(store)
		movRepo = memory.NewMovementRepository(store)
		txRunner = memory.NewTxRunner(store)
	}

	// Caché de agregados (opcional).
	var statsCache ports.StatsCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("Redis no disponible; agregados sin caché")
		} else {
			statsCache = rediscache.New(rdb, log)
			defer rdb.Close()
		}
	}

	// Publicación de eventos (opcional).
	var eventPub ports.EventPublisher
	if cfg.AMQP.URL != "" {
		pub, err := events.New(cfg.AMQP.URL, log)
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ no disponible; eventos desactivados")
		} else {
			eventPub = pub
			defer pub.Close()
		}
	}

	categoryUC := usecase.NewCategoryUseCase(txRunner, catRepo, lotRepo, statsCache, eventPub)
	lotUC := usecase.NewLotUseCase(txRunner, lotRepo, movRepo, catRepo, statsCache, eventPub)
	statsUC := usecase.NewStatsUseCase(catRepo, lotRepo, statsCache)
	allocateUC := appallocation.NewUseCase(txRunner, catRepo, statsCache, eventPub)

	// Bucket reservado para la eliminación en cascada.
	if err := categoryUC.EnsureUncategorized(ctx); err != nil {
		log.Fatal().Err(err).Msg("asegurar categoría reservada")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Categorías API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CategoryUC: categoryUC,
		LotUC:      lotUC,
		StatsUC:    statsUC,
		AllocateUC: allocateUC,
		ReportGen:  pdf.NewMarotoReportGenerator(),
		JWTSecret:  cfg.JWT.Secret,
	})

	// Apagado limpio: SIGINT/SIGTERM drenan las conexiones antes de salir.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("apagando servidor")
		_ = app.Shutdown()
	}()

	addr := cfg.HTTP.Addr()
	log.Info().Str("addr", addr).Msg("escuchando")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("servidor HTTP")
	}
	log.Info().Msg("servidor detenido")
}
