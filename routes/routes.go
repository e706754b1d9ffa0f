package routes

import (
	"net/http"
	"time"

	userRepoPkg "drutaseva/database/repository/user"
	"drutaseva/handlers"
	"drutaseva/middleware"
	"drutaseva/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the endpoint handlers and the repositories the auth
// middleware needs.
type HandlerBundle struct {
	UserRepo userRepoPkg.UserRepository

	Booking *handlers.BookingHandler
	Rescue  *handlers.RescueHandler
	User    *handlers.UserHandler
}

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.User.Register)
		api.POST("/login", hb.User.Authenticate)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.GET("/me", hb.User.GetProfile)
		api.DELETE("/revoke", hb.User.RevokeToken)
	}
}

// RegisterOTPRoutes registers the phone sign-in endpoints. Public: these ARE
// the sign-in flow.
func RegisterOTPRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/otp")
	{
		api.POST("/send", hb.User.SendOTPHandler)
		api.POST("/verify", hb.User.VerifyOTPHandler)
	}
}

// RegisterBookingRoutes sets up the booking wizard endpoints. The catalog and
// the intent draft are public so an anonymous rider can fill in the wizard
// before signing in; everything that touches a live session is auth-gated.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	bookingGroup := r.Group("/api/booking")
	{
		bookingGroup.GET("/catalog", hb.Booking.GetCatalog)
		bookingGroup.POST("/intent", hb.Booking.SaveIntent)

		bookingGroup.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		bookingGroup.GET("/intent/:deviceID", hb.Booking.ClaimIntent)
		bookingGroup.POST("/session", hb.Booking.StartSession)
		bookingGroup.GET("/session/:sessionID", hb.Booking.GetSession)
		bookingGroup.PUT("/session/:sessionID/location", hb.Booking.SetLocation)
		bookingGroup.PUT("/session/:sessionID/service", hb.Booking.SelectAmbulance)
		bookingGroup.POST("/session/:sessionID/confirm", hb.Booking.ConfirmPayment)
		bookingGroup.POST("/session/:sessionID/gateway-callback", hb.Booking.GatewayCallback)
		bookingGroup.DELETE("/session/:sessionID", hb.Booking.CancelSession)
	}
}

// RegisterRescueRoutes sets up the booking status view endpoints.
func RegisterRescueRoutes(r *gin.Engine, hb *HandlerBundle) {
	rescueGroup := r.Group("/api/rescue")
	{
		rescueGroup.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		rescueGroup.GET("/active", hb.Rescue.GetActive)
		rescueGroup.GET("/history", hb.Rescue.GetHistory)
		rescueGroup.GET("/:bookingID", hb.Rescue.GetByID)
		rescueGroup.DELETE("/:bookingID", hb.Rescue.Cancel)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterUserRoutes(r, hb)
	RegisterOTPRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterRescueRoutes(r, hb)
	RegisterHealthRoute(r)
}
