package router

import (
	"time"

	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/config"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/handler"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/middleware"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/repository"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/service"
	"github.com/JosueSPizarro/gas-sistema-2025-sub001/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	productoRepo := repository.NewProductoRepository(db)
	corredorRepo := repository.NewCorredorRepository(db)
	salidaRepo := repository.NewSalidaRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	productoSvc := service.NewProductoService(productoRepo, movimientoStockRepo)
	corredorSvc := service.NewCorredorService(corredorRepo)
	salidaSvc := service.NewSalidaService(salidaRepo, productoRepo, corredorRepo, movimientoStockRepo)
	ventaSvc := service.NewVentaService(ventaRepo, salidaRepo, productoRepo)
	liquidacionSvc := service.NewLiquidacionService(salidaRepo, productoRepo, movimientoStockRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productosH := handler.NewProductosHandler(productoSvc)
	corredoresH := handler.NewCorredoresHandler(corredorSvc)
	salidasH := handler.NewSalidasHandler(salidaSvc, liquidacionSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		prods := v1.Group("/productos")
		{
			prods.POST("", productosH.Crear)
			prods.GET("", productosH.Listar)
			prods.GET("/:id", productosH.Obtener)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
			prods.PATCH("/:id/stock", productosH.AjustarStock)
			prods.GET("/:id/movimientos", productosH.Movimientos)
		}

		corredores := v1.Group("/corredores")
		{
			corredores.POST("", corredoresH.Crear)
			corredores.GET("", corredoresH.Listar)
			corredores.GET("/:id", corredoresH.Obtener)
			corredores.PUT("/:id", corredoresH.Actualizar)
			corredores.DELETE("/:id", corredoresH.Desactivar)
		}

		salidas := v1.Group("/salidas")
		{
			salidas.POST("", salidasH.Crear)
			salidas.GET("", salidasH.Listar)
			salidas.GET("/:id", salidasH.Obtener)
			salidas.GET("/:id/reporte", salidasH.Reporte)
			salidas.GET("/:id/efectivo-esperado", salidasH.EfectivoEsperado)
			salidas.POST("/:id/reabastecimientos", salidasH.Reabastecer)
			salidas.POST("/:id/gastos", salidasH.RegistrarGasto)
			salidas.POST("/:id/cancelar", salidasH.Cancelar)
			salidas.POST("/:id/liquidacion", salidasH.Liquidar)
			salidas.GET("/:id/ventas", ventasH.ListarPorSalida)
		}

		ventas := v1.Group("/ventas")
		{
			ventas.POST("", ventasH.Registrar)
			ventas.GET("/:id", ventasH.Obtener)
			ventas.PATCH("/:id", ventasH.Actualizar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
