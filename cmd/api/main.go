package main

import (
	_ "backend/api/swagger" // swagger docs
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/mailer"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"
	"backend/internal/workflow"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Requisition Management API
// @version         1.0
// @description     Multi-store inventory and material requisition backend with a sequential role-gated approval chain (JE, AEE, EEE, ESE, CE).
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	var logger *zap.Logger
	var err error
	if os.Getenv("GIN_MODE") == "release" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Logger initialization failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	logger.Info("connected to PostgreSQL")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(logger)
	go wsHub.Run()

	// Approval engine with the standard chain
	engine, err := workflow.NewEngine(workflow.DefaultChain())
	if err != nil {
		logger.Fatal("workflow engine initialization failed", zap.Error(err))
	}

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	requisitionRepo := repository.NewRequisitionRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	statisticsRepo := repository.NewStatisticsRepository(db)

	smtpMailer := mailer.NewSMTPMailer()

	userService := service.NewUserService(userRepo, storeRepo, auditRepo, txManager, smtpMailer, logger)
	storeService := service.NewStoreService(storeRepo, auditRepo, txManager)
	inventoryService := service.NewInventoryService(inventoryRepo, storeRepo, auditRepo, txManager)
	categoryService := service.NewCategoryService(categoryRepo, auditRepo, txManager)
	unitService := service.NewUnitService(unitRepo, auditRepo, txManager)
	requisitionService := service.NewRequisitionService(engine, requisitionRepo, auditRepo, txManager, wsHub, logger)
	auditService := service.NewAuditService(auditRepo)
	statisticsService := service.NewStatisticsService(statisticsRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	storeHandler := handler.NewStoreHandler(storeService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	unitHandler := handler.NewUnitHandler(unitService)
	requisitionHandler := handler.NewRequisitionHandler(requisitionService)
	auditHandler := handler.NewAuditHandler(auditService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)

	// Set up Gin Router
	router := gin.New()
	router.Use(middleware.RequestLogger(logger), gin.Recovery())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	storeHandler.RegisterRoutes(router.Group(""))
	inventoryHandler.RegisterRoutes(router.Group(""))
	categoryHandler.RegisterRoutes(router.Group(""))
	unitHandler.RegisterRoutes(router.Group(""))
	requisitionHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))
	statisticsHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("server listening", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
