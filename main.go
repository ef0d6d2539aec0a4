package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/aquadrop/commission_backend/config"
	"github.com/aquadrop/commission_backend/controllers"
	"github.com/aquadrop/commission_backend/middleware"
	"github.com/aquadrop/commission_backend/repositories"
	"github.com/aquadrop/commission_backend/routes"
	"github.com/aquadrop/commission_backend/services"
	"github.com/aquadrop/commission_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis
	redisClient := config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "aquadrop"
	}
	db := client.Database(dbName)

	// Create WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "AquaDrop Commission Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Initialize repositories
	policyRepo := repositories.NewPolicyRepository(db)
	commissionRepo := repositories.NewCommissionRepository(db)
	withdrawalRepo := repositories.NewWithdrawalRepository(db)
	earnerRepo := repositories.NewEarnerRepository(db)

	// Initialize services
	var locker services.EarnerLocker
	if redisClient != nil {
		locker = services.NewRedisEarnerLocker(redisClient)
	} else {
		locker = services.NewLocalEarnerLocker()
	}

	policyService := services.NewPolicyService(policyRepo)
	commissionService := services.NewCommissionService(policyService, commissionRepo, earnerRepo)
	withdrawalService := services.NewWithdrawalService(policyService, commissionRepo, withdrawalRepo, locker)

	// Initialize controllers
	authController := controllers.NewAuthController(earnerRepo)
	earnerController := controllers.NewEarnerController(earnerRepo)
	policyController := controllers.NewPolicyController(policyService)
	commissionController := controllers.NewCommissionController(commissionService, wsHub)
	withdrawalController := controllers.NewWithdrawalController(withdrawalService, earnerRepo, wsHub)

	// Register routes
	routes.RegisterAuthRoutes(e, authController)
	routes.RegisterSalesRoutes(e, commissionController)
	routes.RegisterEarnerRoutes(e, commissionController, withdrawalController, wsHub)
	routes.RegisterAdminRoutes(e, policyController, earnerController, withdrawalController)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
