package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/legal-sheba/legal-sheba-api/config"
	"github.com/legal-sheba/legal-sheba-api/controllers"
	"github.com/legal-sheba/legal-sheba-api/middleware"
	"github.com/legal-sheba/legal-sheba-api/models"
	"github.com/legal-sheba/legal-sheba-api/services"
)

// setupRouter wires services, controllers and middleware into a Gin engine
func setupRouter(cfg *config.Config, db *gorm.DB, store services.FileStore, logger *slog.Logger) (*gin.Engine, error) {
	codec, err := services.NewTokenCodec(services.TokenConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build token codec: %w", err)
	}

	controllers.RegisterValidators()

	accounts := services.NewAccountService(db, codec, services.NewPasswordHasher(cfg.BcryptCost))
	authController := controllers.NewAuthController(accounts)
	lawyerController := controllers.NewLawyerController(services.NewLawyerService(db))
	appointmentController := controllers.NewAppointmentController(services.NewAppointmentService(db))
	messageController := controllers.NewMessageController(
		services.NewMessageService(db),
		services.NewAttachmentService(store),
	)
	infohubController := controllers.NewInfoHubController(services.NewInfoHubService(db))

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		gin.Recovery(),
		middleware.SecurityHeaders(),
		cors.New(corsConfig(cfg)),
	)

	router.GET("/health", healthCheck)
	router.GET("/database/status", databaseStatus(db))

	anyRole := middleware.Authorize(codec, models.RoleClient, models.RoleLawyer)
	clientOnly := middleware.Authorize(codec, models.RoleClient)
	lawyerOnly := middleware.Authorize(codec, models.RoleLawyer)

	auth := router.Group("/auth")
	{
		limiter := middleware.NewRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)
		auth.POST("/signup", middleware.RateLimit(limiter), authController.Signup)
		auth.POST("/login", middleware.RateLimit(limiter), authController.Login)
		auth.GET("/user/:id", authController.GetUser)
	}

	lawyers := router.Group("/lawyers")
	{
		lawyers.GET("", lawyerController.Search)
		lawyers.POST("/profile", lawyerOnly, lawyerController.CreateProfile)
		lawyers.PUT("/profile/:id", lawyerOnly, lawyerController.UpdateProfile)
		lawyers.GET("/profile/exists/:user_id", lawyerController.ProfileExists)
		lawyers.GET("/by_user/:user_id", lawyerController.GetProfileByUser)
		lawyers.GET("/:id", lawyerController.GetProfile)
	}

	appointments := router.Group("/appointments")
	{
		appointments.POST("/new", clientOnly, appointmentController.Create)
		appointments.GET("", clientOnly, appointmentController.ListMine)
		appointments.GET("/lawyer", lawyerOnly, appointmentController.ListForLawyer)
		appointments.GET("/:id", clientOnly, appointmentController.Get)
		appointments.PUT("/:id", lawyerOnly, appointmentController.Update)
		appointments.POST("/:id/cancel", clientOnly, appointmentController.Cancel)
	}

	messages := router.Group("/messages")
	{
		messages.POST("/send", anyRole, messageController.Send)
		messages.POST("/upload", anyRole, messageController.Upload)
		messages.GET("/appointment/:id", anyRole, messageController.ListForAppointment)
		messages.POST("/:id/read", anyRole, messageController.MarkRead)
		if cfg.FilesRequireAuth {
			messages.GET("/file/:filename", anyRole, messageController.Download)
		} else {
			messages.GET("/file/:filename", messageController.Download)
		}
	}

	infohub := router.Group("/infohub")
	{
		infohub.GET("", infohubController.ListAll)
		infohub.POST("", lawyerOnly, infohubController.Create)
		infohub.GET("/titles", infohubController.ListTitles)
		infohub.GET("/titles/:category", infohubController.ListTitlesByCategory)
		infohub.GET("/contents/:id", infohubController.GetContent)
	}

	return router, nil
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range cfg.CORSAllowedOrigins {
		if origin == "*" {
			corsCfg.AllowAllOrigins = true
			return corsCfg
		}
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}

	corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	corsCfg.AllowCredentials = true
	return corsCfg
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Legal Sheba API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get the underlying SQL database to check connection
		sqlDB, err := db.DB()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to get database instance",
				"code":    "DATABASE_ERROR",
			})
			return
		}

		if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Database connection failed",
				"code":    "DATABASE_CONNECTION_ERROR",
			})
			return
		}

		tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to query tables",
				"code":    "DATABASE_QUERY_ERROR",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Database connected",
			"dialect": db.Dialector.Name(),
			"tables":  tables,
		})
	}
}
