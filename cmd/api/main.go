package main

import (
	"fmt"
	"net/http"
	"os"

	"spenza/internal/config"
	"spenza/internal/database"
	"spenza/internal/handlers"
	"spenza/internal/logger"
	"spenza/internal/middleware"
	"spenza/internal/services"
	"spenza/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "spenza/internal/docs" // Import swagger docs
)

// @title           Spenza API
// @version         1.0
// @description     Spenza is a multi-tenant expense tracking service: users submit expenses tagged by category and zone, and administrators manage users, categories, zones, and aggregate reports.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom validators with the binding engine
	validator.Register()

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	auditService := services.NewAuditService(db)
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	zoneService := services.NewZoneService(db)
	expenseService := services.NewExpenseService(db)
	reportService := services.NewReportService(expenseService, appConfig.ReportQueryTimeout)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	zoneHandler := handlers.NewZoneHandler(zoneService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, zoneService, auditService)
	reportHandler := handlers.NewReportHandler(reportService, zoneService)

	// Initialize Gin router
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/categories", categoryHandler.ListCategories)
	protected.GET("/zones", zoneHandler.ListZones)

	protected.POST("/expenses", expenseHandler.CreateExpense)
	protected.GET("/expenses", expenseHandler.ListExpenses)
	protected.GET("/expenses/:id", expenseHandler.GetExpense)

	protected.GET("/reports", reportHandler.GetReport)

	// Admin routes
	admin := v1.Group("/")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireAdmin())

	admin.GET("/users", userHandler.ListUsers)
	admin.PUT("/users/:id/role", userHandler.UpdateRole)
	admin.DELETE("/users/:id", userHandler.DeleteUser)

	admin.POST("/categories", categoryHandler.CreateCategory)
	admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
	admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	admin.POST("/zones", zoneHandler.CreateZone)
	admin.PUT("/zones/:id", zoneHandler.UpdateZone)
	admin.DELETE("/zones/:id", zoneHandler.DeleteZone)
	admin.POST("/zones/:id/members", zoneHandler.AssignMember)
	admin.DELETE("/zones/:id/members/:userID", zoneHandler.RemoveMember)

	admin.PUT("/expenses/:id", expenseHandler.UpdateExpense)
	admin.DELETE("/expenses/:id", expenseHandler.DeleteExpense)

	// Start server
	addr := ":" + appConfig.Port
	log.Infof("Starting Spenza API on %s", addr)
	return router.Run(addr)
}
