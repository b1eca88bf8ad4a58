package main

import (
	"aruanda-service/internal/auth"
	"aruanda-service/internal/handler"
	"aruanda-service/internal/middleware"
	"aruanda-service/internal/store"
	"aruanda-service/pkg/config"
	"aruanda-service/pkg/database"
	"aruanda-service/pkg/jwtutil"
	"aruanda-service/pkg/logger"
	"aruanda-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting aruanda service...", cfg.LogConfig()...)

	// Initialize the persistence backend
	var st store.Store
	switch cfg.Store.Driver {
	case config.StorePostgres:
		if err := database.InitDB(cfg); err != nil {
			log.Fatal("Failed to initialize database", zap.Error(err))
		}
		st = store.NewGormStore(database.GetDB())
		log.Info("Database connection established")
	default:
		mem, err := store.NewMemoryStore(cfg.Store.DataDir, log)
		if err != nil {
			log.Fatal("Failed to initialize memory store", zap.Error(err))
		}
		st = mem
		log.Info("Memory store initialized", zap.String("data_dir", cfg.Store.DataDir))
	}

	if cfg.Store.SeedDemo {
		if err := store.SeedDemoTemple(st, log); err != nil {
			log.Fatal("Failed to seed demo temple", zap.Error(err))
		}
	}

	if temples, err := st.ListActiveTemples(); err == nil {
		prometheus.SetActiveTemples(len(temples))
	}

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Build the auth service and handlers
	authSvc := auth.NewService(st, cfg, log)
	h := handler.New(authSvc, st, cfg)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes - these don't belong under /api since they're for getting access to the API
	authGroup := e.Group("/auth")
	authGroup.POST("/login", h.Login)
	authGroup.POST("/register", h.Register)
	authGroup.POST("/reset-password", h.ResetPassword)
	authGroup.GET("/temples", h.SelectableTemples)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Own profile
	users := api.Group("/users")
	users.GET("/profile", h.GetProfile)
	users.PATCH("/profile", h.UpdateProfile)
	users.POST("/change-password", h.ChangePassword)

	// Temple directory - management is master admin only
	temples := api.Group("/temples")
	temples.GET("", h.ListTemples)
	temples.GET("/:id", h.GetTemple)
	temples.POST("", h.CreateTemple)
	temples.PUT("/:id", h.UpdateTemple)
	temples.DELETE("/:id", h.DeleteTemple)

	// User directory - approval workflow and role management
	users.GET("", h.ListUsers)
	users.POST("", h.AddTempleAdmin)
	users.PUT("/:id", h.UpdateTempleAdmin)
	users.DELETE("/:id", h.DeleteTempleAdmin)
	users.POST("/:id/approve", h.ApproveUser)
	users.POST("/:id/reject", h.RejectUser)
	users.POST("/:id/promote", h.PromoteUser)
	users.POST("/:id/demote", h.DemoteUser)

	// Temple-scoped collections - require tenant context
	scoped := api.Group("", middleware.RequireTempleContext)

	mediums := scoped.Group("/mediums")
	mediums.GET("", h.ListMediums)
	mediums.GET("/:id", h.GetMedium)
	mediums.POST("", h.CreateMedium)
	mediums.PUT("/:id", h.UpdateMedium)
	mediums.DELETE("/:id", h.DeleteMedium)

	suppliers := scoped.Group("/suppliers")
	suppliers.GET("", h.ListSuppliers)
	suppliers.GET("/:id", h.GetSupplier)
	suppliers.POST("", h.CreateSupplier)
	suppliers.PUT("/:id", h.UpdateSupplier)
	suppliers.DELETE("/:id", h.DeleteSupplier)

	financial := scoped.Group("/financial-records")
	financial.GET("", h.ListFinancialRecords)
	financial.GET("/:id", h.GetFinancialRecord)
	financial.POST("", h.CreateFinancialRecord)
	financial.PUT("/:id", h.UpdateFinancialRecord)
	financial.DELETE("/:id", h.DeleteFinancialRecord)

	events := scoped.Group("/events")
	events.GET("", h.ListEvents)
	events.GET("/:id", h.GetEvent)
	events.POST("", h.CreateEvent)
	events.PUT("/:id", h.UpdateEvent)
	events.DELETE("/:id", h.DeleteEvent)

	notifications := scoped.Group("/notifications")
	notifications.GET("", h.ListNotifications)
	notifications.POST("", h.CreateNotification)
	notifications.POST("/:id/read", h.MarkNotificationRead)
	notifications.DELETE("/:id", h.DeleteNotification)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
