package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/compasscar/compass-car-api/config"
	"github.com/compasscar/compass-car-api/controllers"
	"github.com/compasscar/compass-car-api/middleware"
	"github.com/compasscar/compass-car-api/models"
	"github.com/compasscar/compass-car-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Compass Car API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(&models.User{}, &models.Client{}, &models.Car{}, &models.CarItem{}, &models.Order{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize S3-backed photo storage when a bucket is configured
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitImageService(s3Service)
		log.Println("S3 photo storage initialized")
	} else {
		log.Println("AWS_S3_BUCKET not set, car photo uploads disabled")
	}

	router := setupRouter()

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with all routes registered. Everything
// except the root, health and login endpoints sits behind the auth
// middleware.
func setupRouter() *gin.Engine {
	cfg := config.GetConfig()

	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/", root)
	router.GET("/health", healthCheck)

	router.POST("/auth/login", controllers.Login)

	authenticated := router.Group("/", middleware.EnsureValidToken(cfg))
	{
		authenticated.POST("/cars", controllers.CreateCar)
		authenticated.GET("/cars", controllers.ListCars)
		authenticated.GET("/cars/:id", controllers.GetCar)
		authenticated.PUT("/cars/:id", controllers.UpdateCar)
		authenticated.DELETE("/cars/:id", controllers.DeleteCar)
		authenticated.POST("/cars/:id/photo", controllers.UploadCarPhoto)

		authenticated.POST("/clients", controllers.CreateClient)
		authenticated.GET("/clients", controllers.ListClients)
		authenticated.GET("/clients/:id", controllers.GetClient)
		authenticated.PUT("/clients/:id", controllers.UpdateClient)
		authenticated.DELETE("/clients/:id", controllers.DeleteClient)

		authenticated.POST("/orders", controllers.CreateOrder)
		authenticated.GET("/orders", controllers.ListOrders)
		authenticated.GET("/orders/:id", controllers.GetOrder)
		authenticated.PUT("/orders/:id", controllers.UpdateOrder)
		authenticated.DELETE("/orders/:id", controllers.DeleteOrder)

		authenticated.POST("/users/create", controllers.CreateUser)
		authenticated.GET("/users/", controllers.ListUsers)
		authenticated.GET("/users/:id", controllers.GetUser)
		authenticated.PATCH("/users/update/:id", controllers.UpdateUser)
		authenticated.DELETE("/users/delete/:id", controllers.DeleteUser)
	}

	return router
}

// root handles the unauthenticated root route
func root(c *gin.Context) {
	c.String(http.StatusOK, "API CompassCar is running!")
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Compass Car API is running",
	})
}
