package router

import (
	"time"

	"batchtrace/internal/config"
	"batchtrace/internal/handler"
	"batchtrace/internal/infra"
	"batchtrace/internal/middleware"
	"batchtrace/internal/repository"
	"batchtrace/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Deps bundles everything the HTTP layer needs. Built once in main, shared
// with the worker pool setup.
type Deps struct {
	Cfg         *config.Config
	DB          *gorm.DB
	RDB         *redis.Client
	MailBreaker *infra.CircuitBreaker

	Auth         service.AuthService
	Batches      service.BatchService
	Movements    service.MovementService
	Positions    service.PositionService
	Reservations service.ReservationService
	Lineage      service.LineageService
	Reports      service.ReportService
	Alerts       service.AlertService
	MasterData   service.MasterDataService
}

// BuildDeps wires repositories and services against the shared connections.
func BuildDeps(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher service.JobDispatcher) *Deps {
	batches := repository.NewBatchRepository(db)
	movements := repository.NewMovementRepository(db)
	reservations := repository.NewReservationRepository(db)
	lineage := repository.NewLineageRepository(db)
	products := repository.NewProductRepository(db)
	suppliers := repository.NewSupplierRepository(db)
	warehouses := repository.NewWarehouseRepository(db)
	units := repository.NewUnitRepository(db)
	users := repository.NewUserRepository(db)
	reports := repository.NewReportRepository(db)

	lineageSvc := service.NewLineageService(lineage, batches)

	return &Deps{
		Cfg:          cfg,
		DB:           db,
		RDB:          rdb,
		MailBreaker:  infra.NewCircuitBreaker("smtp", 5, 30*time.Second),
		Auth:         service.NewAuthService(users, cfg),
		Batches:      service.NewBatchService(batches, products, suppliers),
		Movements:    service.NewMovementService(movements, batches, warehouses),
		Positions:    service.NewPositionService(batches, movements, reservations, warehouses),
		Reservations: service.NewReservationService(db, batches, movements, reservations, warehouses),
		Lineage:      lineageSvc,
		Reports:      service.NewReportService(reports, batches, lineageSvc, dispatcher, cfg),
		Alerts:       service.NewAlertService(batches, dispatcher, cfg),
		MasterData:   service.NewMasterDataService(products, suppliers, warehouses, units, rdb),
	}
}

// New assembles the gin engine with the full middleware chain and routes.
func New(d *Deps) *gin.Engine {
	if d.Cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimiter(d.RDB, 300))

	healthHandler := handler.NewHealthHandler(d.DB, d.RDB, d.MailBreaker)
	authHandler := handler.NewAuthHandler(d.Auth)
	batchHandler := handler.NewBatchHandler(d.Batches, d.Positions, d.Lineage, d.Reports)
	movementHandler := handler.NewMovementHandler(d.Movements)
	reservationHandler := handler.NewReservationHandler(d.Reservations)
	lineageHandler := handler.NewLineageHandler(d.Lineage)
	reportHandler := handler.NewReportHandler(d.Reports)
	masterDataHandler := handler.NewMasterDataHandler(d.MasterData)

	r.GET("/health", healthHandler.Check)
	r.GET("/swagger/*any", ginswagger.WrapHandler(swaggerfiles.Handler))

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(d.Cfg.JWTSecret))
	{
		protected.POST("/auth/users", middleware.RequireRole("admin"), authHandler.CreateUser)

		batches := protected.Group("/batches")
		{
			batches.POST("", middleware.RequireRole("operator"), batchHandler.Create)
			batches.GET("", batchHandler.Search)
			batches.GET("/number/:number", batchHandler.GetByNumber)
			batches.GET("/:id", batchHandler.Get)
			batches.PUT("/:id/status", middleware.RequireRole("quality"), batchHandler.SetStatus)
			batches.GET("/:id/position", batchHandler.Position)
			batches.GET("/:id/trace/forward", batchHandler.TraceForward)
			batches.GET("/:id/trace/backward", batchHandler.TraceBackward)
			batches.POST("/:id/reports", batchHandler.RequestReport)
			batches.GET("/:id/reports", batchHandler.ListReports)
		}

		movements := protected.Group("/movements")
		{
			movements.POST("", middleware.RequireRole("operator"), movementHandler.Post)
			movements.GET("", movementHandler.List)
			movements.GET("/:id", movementHandler.Get)
		}

		reservations := protected.Group("/reservations")
		{
			reservations.POST("", middleware.RequireRole("operator"), reservationHandler.Create)
			reservations.GET("", reservationHandler.List)
			reservations.GET("/:id", reservationHandler.Get)
			reservations.PATCH("/:id", middleware.RequireRole("operator"), reservationHandler.Update)
		}

		protected.POST("/lineage", middleware.RequireRole("operator"), lineageHandler.Link)

		reports := protected.Group("/reports")
		{
			reports.GET("/:id", reportHandler.Get)
			reports.GET("/:id/pdf", reportHandler.Download)
		}

		protected.GET("/products", masterDataHandler.ListProducts)
		protected.GET("/suppliers", masterDataHandler.ListSuppliers)
		protected.GET("/warehouses", masterDataHandler.ListWarehouses)
		protected.GET("/units", masterDataHandler.ListUnits)
	}

	return r
}
