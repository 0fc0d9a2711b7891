package main

import (
	"log"
	"os"
	"time"

	"github.com/EkilibriumTechnologies/jeepadventures/internal/database"
	"github.com/EkilibriumTechnologies/jeepadventures/internal/handlers"
	"github.com/EkilibriumTechnologies/jeepadventures/internal/middleware"
	"github.com/EkilibriumTechnologies/jeepadventures/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis (unlock-gate session store)
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize Storage (S3 or local fallback)
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	vehicleController := services.NewVehicleController()

	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "Stripe-Signature"}
	r.Use(cors.New(config))

	// Serve locally stored uploads when S3 is not configured
	if !services.IsUsingS3() {
		r.Static("/uploads", services.LocalUploadDir())
	}

	// Routes
	api := r.Group("/api")
	{
		// Rental flow: scan plate, verify guest email, checkout
		api.GET("/cars/:plate", handlers.GetCarByPlate(db))

		checkout := api.Group("/checkout")
		{
			checkout.GET("/quote", handlers.GetRentalQuote())
			checkout.POST("/send-otp", handlers.SendOTP(db))
			checkout.POST("/verify-otp", handlers.VerifyOTP(db))
			checkout.POST("/check-user", handlers.CheckUser(db))
		}
		api.POST("/checkout", handlers.CreateCheckout(db))

		// Booking status page (passwordless link access)
		booking := api.Group("/booking")
		{
			booking.GET("/:id", handlers.GetBooking(db))
			booking.POST("/:id/generate-access-token", handlers.GenerateAccessToken(db))
		}

		// Pickup: license, inspection photos, unlock gate
		activeRental := api.Group("/active-rental")
		{
			activeRental.POST("/upload-license", handlers.UploadLicense(db))
			activeRental.GET("/:id/unlock-state", handlers.GetUnlockState(db))
			activeRental.POST("/:id/unlock", handlers.UnlockVehicle(db, vehicleController))
			activeRental.DELETE("/:id/photos/:side", handlers.ResetPhotoSlot(db))
		}

		// Trip: inspections and finalize
		trip := api.Group("/trip")
		{
			trip.POST("/upload-inspection", handlers.UploadInspection(db))
			trip.POST("/upload-exit-inspection", handlers.UploadExitInspection(db))
			trip.POST("/:id/finalize", handlers.FinalizeTrip(db))
		}

		// Payment reconciliation
		api.POST("/webhooks/stripe", handlers.StripeWebhook(db))

		// Ops API
		admin := api.Group("/admin")
		{
			admin.POST("/login", handlers.AdminLogin(db))

			protected := admin.Group("/")
			protected.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
			{
				protected.GET("/bookings", handlers.ListBookings(db))
				protected.GET("/cars", handlers.ListCars(db))
				protected.POST("/cars", handlers.CreateCar(db))
				protected.PATCH("/cars/:plate/status", handlers.UpdateCarStatus(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
