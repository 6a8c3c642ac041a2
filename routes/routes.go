package routes

import (
	"os"

	"fieldpro-backend/config"
	"fieldpro-backend/controllers"
	"fieldpro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		allowedOrigins = append(allowedOrigins, frontend)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
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

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
		}

		// Unit routes
		units := api.Group("/units")
		{
			units.POST("", controllers.CreateUnit)
			units.GET("", controllers.GetUnits)
			units.GET("/:id", controllers.GetUnit)
			units.PUT("/:id", controllers.UpdateUnit)
			units.DELETE("/:id", controllers.DeleteUnit)
		}

		// Work order routes
		workOrders := api.Group("/work-orders")
		{
			workOrders.POST("", controllers.CreateWorkOrder)
			workOrders.GET("", controllers.GetWorkOrders)
			workOrders.GET("/:id", controllers.GetWorkOrder)
			workOrders.PUT("/:id", controllers.UpdateWorkOrder)
			workOrders.PUT("/:id/assignments", controllers.AssignEmployees)
			workOrders.POST("/:id/complete", controllers.CompleteWorkOrder)
			workOrders.POST("/:id/tip", controllers.DistributeTip)
			workOrders.POST("/:id/images", controllers.UploadWorkOrderImages)

			// Invoice lifecycle, anchored at the work order
			workOrders.GET("/:id/invoice", controllers.GetWorkOrderInvoice)
			workOrders.PUT("/:id/invoice/charges", controllers.RecordCharges)
			workOrders.PUT("/:id/invoice/links", controllers.LinkWorkOrders)
			workOrders.POST("/:id/invoice/close", controllers.CloseInvoice)
			workOrders.GET("/:id/invoice/document", controllers.RenderInvoiceDocument)
			workOrders.GET("/:id/invoice/combined-document", controllers.RenderCombinedInvoiceDocument)
		}

		// Reports routes
		reportController := controllers.ReportController{}
		reports := api.Group("/reports")
		{
			reports.GET("/invoices", reportController.GetInvoiceList)
			reports.GET("/cost-totals", reportController.GetCostTotals)
			reports.GET("/tip-totals", reportController.GetTipTotals)
		}

		// Dashboard routes
		api.GET("/dashboard", reportController.GetOverview)
	}

	return r
}
