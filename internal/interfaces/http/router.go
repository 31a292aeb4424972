package http

import (
	"github.com/gofiber/fiber/v2"
	appallocation "github.com/tu-usuario/categorias-api/internal/application/allocation"
	"github.com/tu-usuario/categorias-api/internal/application/usecase"
	"github.com/tu-usuario/categorias-api/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC *usecase.CategoryUseCase
	LotUC      *usecase.LotUseCase
	StatsUC    *usecase.StatsUseCase
	AllocateUC *appallocation.UseCase
	ReportGen  *pdf.MarotoReportGenerator
	JWTSecret  string
}

// Router registra las rutas de la API. Las lecturas son públicas; las
// mutaciones exigen Bearer Token cuando hay JWT_SECRET configurado.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	lotHandler := NewLotHandler(deps.LotUC)
	statsHandler := NewStatsHandler(deps.StatsUC, deps.ReportGen)
	allocationHandler := NewAllocationHandler(deps.AllocateUC)

	auth := AuthMiddleware(deps.JWTSecret)

	// Categories
	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Get("/:id/lots", lotHandler.ListByCategory)
	categories.Get("/:id/stats", statsHandler.Stats)
	categories.Post("/", auth, categoryHandler.Create)
	categories.Put("/:id", auth, categoryHandler.Update)
	categories.Delete("/:id", auth, categoryHandler.Delete)

	// Lots
	lots := api.Group("/lots")
	lots.Get("/:id", lotHandler.GetByID)
	lots.Get("/:id/movements", lotHandler.Movements)
	lots.Post("/", auth, lotHandler.Create)

	// Allocations
	api.Post("/allocations", auth, allocationHandler.Allocate)

	// Reports
	api.Get("/reports/categories.pdf", statsHandler.Report)
}
