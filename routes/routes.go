package routes

import (
	"net/http"
	"time"

	"emviapp/handlers"
	"emviapp/middleware"
	"emviapp/models"
	"emviapp/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers client account endpoints.
func RegisterUserRoutes(r *gin.Engine) {
	api := r.Group("/api/users")
	{
		api.POST("/register", handlers.RegisterUser)
		api.POST("/login", handlers.LoginUser)

		// Protected routes (require authentication).
		api.Use(middleware.JWTAuthMiddleware(string(models.ActorCustomer)))
		api.GET("/me", handlers.GetCurrentUser)
		api.POST("/logout", handlers.LogoutUser)
	}
}

// RegisterArtistRoutes registers artist profile and calendar endpoints.
func RegisterArtistRoutes(r *gin.Engine) {
	api := r.Group("/api/artists")
	{
		api.POST("/register", handlers.RegisterArtist)
		api.POST("/login", handlers.LoginArtist)

		// Public profile and availability reads.
		api.GET("/:id", handlers.GetArtist)
		api.GET("/:id/availability", handlers.GetAvailability)

		// Endpoints that modify artist data require strict authentication.
		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(string(models.ActorArtist)))
		protected.PUT("/me/working-hours", handlers.SetWorkingHours)
		protected.PUT("/me/services", handlers.SetServices)
		protected.PUT("/me/accepts-bookings", handlers.SetAcceptsBookings)
		protected.POST("/logout", handlers.LogoutArtist)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine) {
	api := r.Group("/api/bookings")
	{
		// Reschedule and cancel accept either a session or a booking-scoped
		// management token, so the handlers resolve identity themselves.
		api.POST("/reschedule", handlers.RescheduleBooking)
		api.POST("/:id/cancel", handlers.CancelBooking)

		api.POST("", middleware.JWTAuthMiddleware(string(models.ActorCustomer), string(models.ActorArtist), string(models.ActorAdmin)), handlers.CreateBooking)
		api.GET("/:id", middleware.JWTAuthMiddleware(), handlers.GetBooking)
		api.POST("/:id/confirm", middleware.JWTAuthMiddleware(string(models.ActorArtist), string(models.ActorAdmin)), handlers.ConfirmBooking)
		api.POST("/:id/complete", middleware.JWTAuthMiddleware(string(models.ActorArtist), string(models.ActorAdmin)), handlers.CompleteBooking)
	}
}

// RegisterPaymentRoutes sets up Stripe checkout and webhook endpoints.
func RegisterPaymentRoutes(r *gin.Engine) {
	api := r.Group("/api/payments")
	{
		// The webhook authenticates via Stripe signature, not a session.
		api.POST("/webhook", handlers.StripeWebhook)

		api.POST("/checkout", middleware.JWTAuthMiddleware(), handlers.CreateListingCheckout)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())
	r.Use(utils.ErrorHandler())

	RegisterUserRoutes(r)
	RegisterArtistRoutes(r)
	RegisterBookingRoutes(r)
	RegisterPaymentRoutes(r)
	RegisterHealthRoute(r)
}
