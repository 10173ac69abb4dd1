package routes

import (
	"os"
	"strings"

	"bookpilot-backend/config"
	"bookpilot-backend/controllers"
	"bookpilot-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(mailer *controllers.MailerController) *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	// Booking action links live outside /api: email clients hit them with no
	// token. GET renders HTML, POST answers JSON.
	links := r.Group("/bookings")
	{
		links.GET("/confirm", controllers.ConfirmBookingLink)
		links.GET("/cancel", controllers.CancelBookingLink)
		links.POST("/confirm", controllers.ConfirmBooking)
		links.POST("/cancel", controllers.CancelBooking)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		contacts := api.Group("/contacts")
		{
			contacts.POST("", controllers.CreateContact)
			contacts.GET("", controllers.GetContacts)
			contacts.GET("/:id", controllers.GetContact)
			contacts.PUT("/:id", controllers.UpdateContact)
			contacts.DELETE("/:id", controllers.DeleteContact)
		}

		services := api.Group("/services")
		{
			services.POST("", controllers.CreateService)
			services.GET("", controllers.GetServices)
			services.GET("/:id", controllers.GetService)
			services.PUT("/:id", controllers.UpdateService)
			services.DELETE("/:id", controllers.DeleteService)
		}

		technicians := api.Group("/technicians")
		{
			technicians.POST("", controllers.CreateTechnician)
			technicians.GET("", controllers.GetTechnicians)
			technicians.DELETE("/:id", controllers.DeleteTechnician)
		}

		campaigns := api.Group("/campaigns")
		{
			campaigns.POST("", controllers.CreateCampaign)
			campaigns.GET("", controllers.GetCampaigns)
			campaigns.GET("/:id", controllers.GetCampaign)
			campaigns.PUT("/:id", controllers.UpdateCampaign)
			campaigns.DELETE("/:id", controllers.DeleteCampaign)
		}

		bookings := api.Group("/bookings")
		{
			bookings.POST("", controllers.CreateBooking)
			bookings.GET("", controllers.GetBookings)
			bookings.GET("/:id", controllers.GetBooking)
			bookings.POST("/send-reminders", mailer.SendBookingReminders)
		}

		mail := api.Group("/mailer")
		{
			mail.POST("/bulk-send", mailer.BulkSend)
			mail.POST("/reminders/run", mailer.RunReminders)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/mail-provider", controllers.GetMailProvider)
			settings.PUT("/mail-provider", controllers.UpdateMailProvider)
			settings.POST("/mail-provider/verify", mailer.VerifyMailProvider)
		}
	}

	return r
}
