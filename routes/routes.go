package routes

import (
	"CarePoint/cache"
	"CarePoint/config"
	"CarePoint/controllers"
	"CarePoint/handlers"
	"CarePoint/middlewares"
	"CarePoint/repositories"
	"CarePoint/services"
	"CarePoint/utils"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	// Apply Bearer token validation to all routes
	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://www.example.com", "https://example-dev.com"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15,
		Burst:             30,
	}))

	router.Use(middlewares.LoggingMiddleware())

	// Repositories
	appointmentRepo := repositories.NewAppointmentRepository(cache)
	billingRepo := repositories.NewBillingRepository(cache)
	prescriptionRepo := repositories.NewPrescriptionRepository(cache)
	patientRepo := repositories.NewPatientRepository(cache)
	clinicianRepo := repositories.NewClinicianRepository(cache)
	userRepo := repositories.NewUserRepository(db, cache)

	locker := services.NewRedisLocker()

	// Booking notifications are best-effort. A nil mailer disables them.
	var notifier services.Notifier
	mailer, err := utils.NewMailer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword)
	if err != nil {
		log.Printf("Mailer disabled: %v", err)
	} else {
		notifier = mailer
	}

	// Services
	schedulerService := services.NewSchedulerService(appointmentRepo, clinicianRepo, patientRepo, locker, notifier)
	billingService := services.NewBillingService(billingRepo, locker)
	prescriptionService := services.NewPrescriptionService(prescriptionRepo, locker)
	userService := services.NewUserService(userRepo, locker)

	// Handlers
	appointmentHandler := handlers.NewAppointmentHandler(schedulerService)
	billingHandler := handlers.NewBillingHandler(billingService)
	prescriptionHandler := handlers.NewPrescriptionHandler(prescriptionService)
	patientHandler := handlers.NewPatientHandler(patientRepo)
	clinicianHandler := handlers.NewClinicianHandler(clinicianRepo)
	authHandler := handlers.NewAuthHandler(userService, mailer)

	// Register routes
	clinicalController := controllers.NewClinicalController(
		appointmentHandler,
		billingHandler,
		prescriptionHandler,
		patientHandler,
		clinicianHandler,
	)
	clinicalController.RegisterRoutes(router)

	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(router)

	controllers.SetupRootRoute(router)

	return router
}
