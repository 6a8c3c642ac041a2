package main

import (
	"fmt"
	"log"
	"os"

	"fieldpro-backend/config"
	"fieldpro-backend/models"
	"fieldpro-backend/routes"
	"fieldpro-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Employee{},
		&models.Customer{},
		&models.Unit{},
		&models.WorkOrder{},
		&models.WorkOrderAssignment{},
		&models.WorkOrderImage{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.SequenceCounter{},
		&models.ReminderLog{},
	)

	// Sequence categories must exist before the first intake
	if err := services.ProvisionSequences(config.DB); err != nil {
		log.Fatalf("Failed to provision sequences: %v", err)
	}
}

func main() {

	reminders := services.NewReminderService(config.DB)
	reminders.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
