// Package server assembles the HTTP API: services, handlers, middleware and
// the route table.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"cineorca/internal/config"
	"cineorca/internal/handlers"
	"cineorca/internal/middleware"
	"cineorca/internal/services"
)

// NewRouter wires every service and handler against db and returns the
// configured engine.
func NewRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Services
	userService := services.NewUserService(db)
	configService := services.NewConfigService(db)
	clientService := services.NewClientService(db)
	freelancerService := services.NewFreelancerService(db)
	equipmentService := services.NewEquipmentService(db)
	budgetService := services.NewBudgetService(db)
	dashboardService := services.NewDashboardService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	configHandler := handlers.NewConfigHandler(configService, auditService)
	clientHandler := handlers.NewClientHandler(clientService, auditService)
	freelancerHandler := handlers.NewFreelancerHandler(freelancerService, auditService)
	equipmentHandler := handlers.NewEquipmentHandler(equipmentService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Sessions(cfg))

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/profile", authHandler.GetProfile)

	protected.GET("/onboarding", configHandler.GetOnboarding)
	protected.POST("/onboarding", configHandler.CompleteOnboarding)
	protected.GET("/settings", configHandler.GetSettings)
	protected.PUT("/settings", configHandler.UpdateSettings)

	protected.GET("/dashboard", dashboardHandler.GetDashboard)

	budgets := protected.Group("/budgets")
	budgets.GET("/options", budgetHandler.GetBudgetOptions)
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("/:id", budgetHandler.GetBudgetByID)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/print", budgetHandler.PrintBudget)
	budgets.POST("/:id/status/:status", budgetHandler.ChangeStatus)

	clients := protected.Group("/clients")
	clients.POST("", clientHandler.CreateClient)
	clients.POST("/quick", clientHandler.QuickSaveClient)
	clients.GET("", clientHandler.GetClients)
	clients.GET("/:id", clientHandler.GetClientByID)
	clients.PUT("/:id", clientHandler.UpdateClient)
	clients.DELETE("/:id", clientHandler.DeleteClient)

	freelancers := protected.Group("/freelancers")
	freelancers.POST("", freelancerHandler.CreateFreelancer)
	freelancers.GET("", freelancerHandler.GetFreelancers)
	freelancers.GET("/:id", freelancerHandler.GetFreelancerByID)
	freelancers.PUT("/:id", freelancerHandler.UpdateFreelancer)
	freelancers.DELETE("/:id", freelancerHandler.DeleteFreelancer)

	equipment := protected.Group("/equipment")
	equipment.POST("", equipmentHandler.CreateEquipment)
	equipment.GET("", equipmentHandler.GetEquipment)
	equipment.GET("/:id", equipmentHandler.GetEquipmentByID)
	equipment.PUT("/:id", equipmentHandler.UpdateEquipment)
	equipment.DELETE("/:id", equipmentHandler.DeleteEquipment)

	return router
}
