package routes

import (
	"net/http"
	"time"

	"theeyouspace/handlers"
	"theeyouspace/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle collects the handlers the router wires up.
type HandlerBundle struct {
	Booking      *handlers.BookingHandler
	Payment      *handlers.PaymentHandler
	SlotAdmin    *handlers.SlotAdminHandler
	Export       *handlers.ExportHandler
	Professional *handlers.ProfessionalHandler
}

// RegisterBookingRoutes registers the public booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/booking")
	{
		api.GET("/slots", hb.Booking.GetSlots)
		api.GET("/pricing", hb.Booking.GetPricing)
		api.POST("/create-order", hb.Booking.CreateOrder)
	}
}

// RegisterPaymentRoutes registers verification, failure, and webhook
// endpoints.
func RegisterPaymentRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/payment")
	{
		api.POST("/verify", hb.Payment.VerifyPayment)
		api.POST("/failure", hb.Payment.PaymentFailure)
		api.POST("/webhook", hb.Payment.Webhook)
	}
}

// RegisterSlotAdminRoutes registers the API-key-protected slot management
// endpoints.
func RegisterSlotAdminRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/slots")
	{
		api.Use(middleware.RequireAPIKey())
		api.POST("/upload", hb.SlotAdmin.Upload)
		api.GET("/status", hb.SlotAdmin.Status)
		api.DELETE("/clear", hb.SlotAdmin.Clear)
		api.POST("/sync", hb.SlotAdmin.Sync)
	}
}

// RegisterExportRoutes registers the API-key-protected CSV export.
func RegisterExportRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/export")
	{
		api.Use(middleware.RequireAPIKey())
		api.GET("/bookings", hb.Export.ExportBookings)
	}
}

// RegisterProfessionalRoutes registers the public professionals directory.
func RegisterProfessionalRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/professionals")
	{
		api.GET("", hb.Professional.List)
		api.GET("/:name", hb.Professional.Get)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Thee You Space"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-API-Key"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterSlotAdminRoutes(r, hb)
	RegisterExportRoutes(r, hb)
	RegisterProfessionalRoutes(r, hb)
}
