package main

import (
	"context"
	"log"
	"os"

	_ "github.com/umarabbas75/fly-inn-app-sub004/api/swagger" // swagger docs
	"github.com/umarabbas75/fly-inn-app-sub004/internal/cache"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/database"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/handler"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/middleware"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/refund"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/repository"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/service"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Fly-Inn Booking API
// @version         1.0
// @description     Booking marketplace backend with policy-driven cancellation refunds.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

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
		dbName = "flyinn"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Redis is optional; with REDIS_ADDR unset the policy cache degrades
	// to straight repository reads.
	rdb, err := cache.Connect(context.Background(), os.Getenv("REDIS_ADDR"))
	if err != nil {
		log.Printf("Redis unavailable, continuing without policy cache: %v", err)
	}
	policyCache := cache.NewPolicyCache(rdb)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	policyRepo := repository.NewPolicyRepository(db)
	stayRepo := repository.NewStayRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	userService := service.NewUserService(userRepo)
	policyService := service.NewPolicyService(policyRepo, auditRepo, policyCache, wsHub)
	stayService := service.NewStayService(stayRepo, auditRepo)
	bookingService := service.NewBookingService(bookingRepo, stayRepo, policyService,
		auditRepo, txManager, refund.NewCalculator(), wsHub)
	statisticsService := service.NewStatisticsService(bookingRepo)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	policyHandler := handler.NewPolicyHandler(policyService)
	stayHandler := handler.NewStayHandler(stayService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

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
	policyHandler.RegisterRoutes(router.Group(""))
	stayHandler.RegisterRoutes(router.Group(""))
	bookingHandler.RegisterRoutes(router.Group(""))
	statisticsHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
