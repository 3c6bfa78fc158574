package router

import (
	"time"

	"github.com/pedroaraujox/Viza-Stock/internal/config"
	"github.com/pedroaraujox/Viza-Stock/internal/handler"
	"github.com/pedroaraujox/Viza-Stock/internal/middleware"
	"github.com/pedroaraujox/Viza-Stock/internal/model"
	"github.com/pedroaraujox/Viza-Stock/internal/repository"
	"github.com/pedroaraujox/Viza-Stock/internal/service"
	"github.com/pedroaraujox/Viza-Stock/internal/worker"

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
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	stockSvc := service.NewStockService(productRepo, recipeRepo, movementRepo)
	recipeSvc := service.NewRecipeService(productRepo, recipeRepo)
	productionSvc := service.NewProductionService(productRepo, recipeRepo, movementRepo, dispatcher)
	orderSvc := service.NewOrderService(orderRepo, productRepo, recipeRepo, productionSvc)
	preferenceSvc := service.NewPreferenceService(preferenceRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(stockSvc)
	recipesH := handler.NewRecipesHandler(recipeSvc)
	productionH := handler.NewProductionHandler(productionSvc)
	ordersH := handler.NewOrdersHandler(orderSvc, orderRepo, recipeRepo, cfg.PDFStoragePath)
	usersH := handler.NewUsersHandler(authSvc)
	preferencesH := handler.NewPreferencesHandler(preferenceSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleOperator)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		// Product ledger — both roles read, move stock; only admin creates/deletes
		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/:code", anyRole, productsH.Get)
		v1.GET("/products/:code/movements", anyRole, productsH.Movements)
		v1.POST("/products", adminOnly, productsH.Create)
		v1.DELETE("/products/:code", adminOnly, productsH.Delete)
		v1.POST("/products/:code/receipts", anyRole, productsH.Receive)
		v1.POST("/products/:code/issues", anyRole, productsH.Issue)

		// Recipes
		v1.GET("/recipes", anyRole, recipesH.List)
		v1.GET("/products/:code/recipe", anyRole, recipesH.Get)
		v1.PUT("/products/:code/recipe", adminOnly, recipesH.Define)

		// Production
		v1.POST("/production/check", anyRole, productionH.Check)
		v1.POST("/production/execute", anyRole, productionH.Execute)

		// Production orders
		orders := v1.Group("/orders", anyRole)
		{
			orders.POST("", ordersH.Create)
			orders.GET("", ordersH.List)
			orders.GET("/:id", ordersH.Get)
			orders.PATCH("/:id/status", ordersH.UpdateStatus)
			orders.GET("/:id/document", ordersH.Document)
		}

		// Users — admin only
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}

		// Preferences
		v1.GET("/preferences/me", anyRole, preferencesH.GetMine)
		v1.PUT("/preferences/me", anyRole, preferencesH.SaveMine)
		v1.GET("/preferences/system", anyRole, preferencesH.GetSystem)
		v1.PUT("/preferences/system", adminOnly, preferencesH.SaveSystem)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
