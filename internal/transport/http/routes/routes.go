package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/wynresh/sunem/internal/infra/config"
	"github.com/wynresh/sunem/internal/infra/redis"
	"github.com/wynresh/sunem/internal/infra/security"
	"github.com/wynresh/sunem/internal/transport/http/handlers"
	"github.com/wynresh/sunem/internal/transport/http/middleware"
	"github.com/wynresh/sunem/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth        *usecase.AuthService
	Users       *usecase.UserService
	Stores      *usecase.StoreService
	Catalog     *usecase.CatalogService
	Inventory   *usecase.InventoryService
	Procurement *usecase.ProcurementService
	Promotions  *usecase.PromotionService
	Customers   *usecase.CustomerService
	Sales       *usecase.SalesService
	Audit       *usecase.AuditRecorder
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Tokens      *security.TokenService
	Services    ServiceSet
	Database    *pgxpool.Pool
	Cache       *redis.Client
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	healthHandler := handlers.NewHealthHandler(deps.Database, deps.Cache)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Ready)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.RequireAuth(deps.Tokens)
	pagination := deps.Config.Pagination

	api := r.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(deps.Services.Auth)

		authGroup := api.Group("/auth")
		authGroup.POST("/sign", withRateLimit(deps, registerRule(deps), authHandler.Sign)...)
		authGroup.GET("/signup/:token", authHandler.CompleteSignUp)
		authGroup.POST("/signup/:token", authHandler.CompleteSignUp)
		authGroup.POST("/signin", withRateLimit(deps, loginRule(deps), authHandler.SignIn)...)

		// Declared surface whose flows are not built yet.
		authGroup.POST("/signout", authHandler.NotImplemented)
		authGroup.POST("/forgot-password", authHandler.NotImplemented)
		authGroup.POST("/reset-password", authHandler.NotImplemented)
		authGroup.POST("/otp/verify", authHandler.NotImplemented)
		authGroup.POST("/otp/resend", authHandler.NotImplemented)
		authGroup.POST("/refresh", authHandler.NotImplemented)
		authGroup.POST("/password/change", authHandler.NotImplemented)
		authGroup.POST("/2fa/enable", authHandler.NotImplemented)
		authGroup.POST("/2fa/disable", authHandler.NotImplemented)
		authGroup.POST("/2fa/verify", authHandler.NotImplemented)

		userHandler := handlers.NewUserHandler(deps.Services.Users, pagination)
		userGroup := api.Group("/users")
		userGroup.Use(authMiddleware)
		userGroup.GET("", userHandler.List)
		userGroup.GET("/:id", userHandler.Get)
		userGroup.PUT("/:id", userHandler.Update)
		userGroup.DELETE("/:id", userHandler.Delete)

		roleGroup := api.Group("/roles")
		roleGroup.Use(authMiddleware)
		roleGroup.POST("", userHandler.CreateRole)
		roleGroup.GET("", userHandler.ListRoles)
		roleGroup.GET("/:id", userHandler.GetRole)

		storeHandler := handlers.NewStoreHandler(deps.Services.Stores, pagination)
		storeGroup := api.Group("/stores")
		storeGroup.Use(authMiddleware)
		storeGroup.POST("", storeHandler.Create)
		storeGroup.GET("", storeHandler.List)
		storeGroup.GET("/:id", storeHandler.Get)
		storeGroup.PUT("/:id", storeHandler.Update)
		storeGroup.DELETE("/:id", storeHandler.Delete)

		catalogHandler := handlers.NewCatalogHandler(deps.Services.Catalog, pagination)
		categoryGroup := api.Group("/categories")
		categoryGroup.Use(authMiddleware)
		categoryGroup.POST("", catalogHandler.CreateCategory)
		categoryGroup.GET("", catalogHandler.ListCategories)
		categoryGroup.GET("/:id", catalogHandler.GetCategory)
		categoryGroup.PUT("/:id", catalogHandler.UpdateCategory)
		categoryGroup.DELETE("/:id", catalogHandler.DeleteCategory)

		productGroup := api.Group("/products")
		productGroup.Use(authMiddleware)
		productGroup.POST("", catalogHandler.CreateProduct)
		productGroup.GET("", catalogHandler.ListProducts)
		productGroup.GET("/ean/:ean", catalogHandler.GetProductByEAN)
		productGroup.GET("/:id", catalogHandler.GetProduct)
		productGroup.PUT("/:id", catalogHandler.UpdateProduct)
		productGroup.DELETE("/:id", catalogHandler.DeleteProduct)

		inventoryHandler := handlers.NewInventoryHandler(deps.Services.Inventory, pagination)
		inventoryGroup := api.Group("/inventory")
		inventoryGroup.Use(authMiddleware)
		inventoryGroup.PUT("/levels", inventoryHandler.SetLevel)
		inventoryGroup.GET("/levels", inventoryHandler.Get)
		inventoryGroup.POST("/adjust", inventoryHandler.Adjust)
		inventoryGroup.GET("/stores/:storeId", inventoryHandler.ListByStore)
		inventoryGroup.GET("/movements", inventoryHandler.ListMovements)

		procurementHandler := handlers.NewProcurementHandler(deps.Services.Procurement, pagination)
		supplierGroup := api.Group("/suppliers")
		supplierGroup.Use(authMiddleware)
		supplierGroup.POST("", procurementHandler.CreateSupplier)
		supplierGroup.GET("", procurementHandler.ListSuppliers)
		supplierGroup.GET("/:id", procurementHandler.GetSupplier)
		supplierGroup.PUT("/:id", procurementHandler.UpdateSupplier)
		supplierGroup.DELETE("/:id", procurementHandler.DeleteSupplier)

		orderGroup := api.Group("/purchase-orders")
		orderGroup.Use(authMiddleware)
		orderGroup.POST("", procurementHandler.CreateOrder)
		orderGroup.GET("", procurementHandler.ListOrders)
		orderGroup.GET("/:id", procurementHandler.GetOrder)
		orderGroup.POST("/:id/submit", procurementHandler.SubmitOrder)
		orderGroup.POST("/:id/receive", procurementHandler.ReceiveOrder)
		orderGroup.POST("/:id/cancel", procurementHandler.CancelOrder)

		promotionHandler := handlers.NewPromotionHandler(deps.Services.Promotions, pagination)
		promotionGroup := api.Group("/promotions")
		promotionGroup.Use(authMiddleware)
		promotionGroup.POST("", promotionHandler.Create)
		promotionGroup.GET("", promotionHandler.List)
		promotionGroup.GET("/code/:code", promotionHandler.GetByCode)
		promotionGroup.GET("/:id", promotionHandler.Get)
		promotionGroup.PUT("/:id", promotionHandler.Update)
		promotionGroup.DELETE("/:id", promotionHandler.Delete)

		customerHandler := handlers.NewCustomerHandler(deps.Services.Customers, pagination)
		customerGroup := api.Group("/customers")
		customerGroup.Use(authMiddleware)
		customerGroup.POST("", customerHandler.Create)
		customerGroup.GET("", customerHandler.List)
		customerGroup.GET("/code/:code", customerHandler.GetByCode)
		customerGroup.GET("/:id", customerHandler.Get)
		customerGroup.PUT("/:id", customerHandler.Update)
		customerGroup.DELETE("/:id", customerHandler.Delete)
		customerGroup.GET("/:id/points", customerHandler.ListPoints)
		customerGroup.GET("/:id/points/balance", customerHandler.PointBalance)

		programGroup := api.Group("/loyalty-programs")
		programGroup.Use(authMiddleware)
		programGroup.POST("", customerHandler.CreateProgram)
		programGroup.GET("", customerHandler.ListPrograms)
		programGroup.GET("/:id", customerHandler.GetProgram)

		salesHandler := handlers.NewSalesHandler(deps.Services.Sales, pagination)
		salesGroup := api.Group("/sales")
		salesGroup.Use(authMiddleware)
		salesGroup.POST("", salesHandler.Record)
		salesGroup.GET("", salesHandler.List)
		salesGroup.GET("/:id", salesHandler.Get)
		salesGroup.POST("/:id/refund", salesHandler.Refund)

		auditHandler := handlers.NewAuditHandler(deps.Services.Audit, pagination)
		auditGroup := api.Group("/audit-logs")
		auditGroup.Use(authMiddleware)
		auditGroup.GET("", auditHandler.List)
	}

	return r
}

func loginRule(deps Dependencies) *middleware.RateLimitRule {
	return ipRule(deps, "auth_signin_ip", deps.Config.RateLimit.LoginMaxAttempts)
}

func registerRule(deps Dependencies) *middleware.RateLimitRule {
	return ipRule(deps, "auth_sign_ip", deps.Config.RateLimit.RegisterMaxAttempts)
}

func ipRule(deps Dependencies, name string, limit int) *middleware.RateLimitRule {
	if deps.RateLimiter == nil || limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	return &middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}
}

func withRateLimit(deps Dependencies, rule *middleware.RateLimitRule, handler gin.HandlerFunc) []gin.HandlerFunc {
	if rule == nil {
		return []gin.HandlerFunc{handler}
	}
	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(*rule), handler}
}
