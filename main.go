package main

import (
	"fmt"
	"log"
	"os"

	"bookpilot-backend/config"
	"bookpilot-backend/controllers"
	"bookpilot-backend/models"
	"bookpilot-backend/routes"
	"bookpilot-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()
	config.LoadMailConfig()

	config.DB.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Contact{},
		&models.Technician{},
		&models.Service{},
		&models.Booking{},
		&models.BookingAddOn{},
		&models.Campaign{},
		&models.ReminderLog{},
		&models.MailProviderConfig{},
		&models.ContactActivity{},
	)
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	personalizer := &services.Personalizer{BaseURL: config.Mail.PublicBaseURL}
	resolver := services.NewResolver(config.DB, config.Mail)
	dispatcher := services.NewDispatcher(resolver, &services.GormContacts{DB: config.DB}, personalizer)

	reminders := services.NewReminderService(config.DB, dispatcher, personalizer, smsNotifier())
	reminders.Start()
	defer reminders.Stop()

	mailer := &controllers.MailerController{
		Dispatcher: dispatcher,
		Providers:  resolver,
		Reminders:  reminders,
	}

	r := routes.SetupRouter(mailer)
	printRoutes(r)
	r.Run(":" + port)
}

// smsNotifier keeps the nil-interface pitfall out of main: a nil *TwilioNotifier
// must become a nil SMSNotifier, not a non-nil interface around nil.
func smsNotifier() services.SMSNotifier {
	if t := services.NewTwilioNotifier(); t != nil {
		return t
	}
	return nil
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
