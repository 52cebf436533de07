package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cloud-panel/internal/config"
	"cloud-panel/internal/database"
	"cloud-panel/internal/handlers"
	"cloud-panel/internal/middleware"
	"cloud-panel/internal/models"
	"cloud-panel/internal/services/firewall"
	"cloud-panel/internal/services/provider"
	"cloud-panel/internal/services/settings"
)

func main() {
	// Load .env file if exists
	godotenv.Load()

	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Override with .env PORT if set
	if envPort := os.Getenv("PORT"); envPort != "" {
		if port, err := strconv.Atoi(envPort); err == nil {
			cfg.Server.Port = port
		}
	}

	// Connect to database
	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate models
	if err := database.AutoMigrate(
		&models.User{},
		&models.Setting{},
		&models.ActivityLog{},
		&models.FirewallRule{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create default admin user if not exists
	createDefaultAdmin(cfg)

	// Wire the firewall services
	settingsSvc := settings.NewService(db)
	store := firewall.NewStore(db)
	gateway := firewall.NewGateway(provider.NewClient(), settingsSvc)
	firewallSvc := firewall.NewService(store, gateway)
	reconciler := firewall.NewReconciler(store, gateway, settingsSvc,
		cfg.Sync.Interval, cfg.Sync.StartupDelay)
	if err := reconciler.Start(); err != nil {
		log.Fatalf("Failed to start firewall sync: %v", err)
	}
	defer reconciler.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: false,
	}))

	// Routes
	setupRoutes(app, settingsSvc, firewallSvc, gateway, reconciler)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Cloud Panel starting on http://%s", addr)
	log.Fatal(app.Listen(addr))
}

func setupRoutes(app *fiber.App, settingsSvc *settings.Service,
	firewallSvc *firewall.Service, gateway *firewall.Gateway, reconciler *firewall.Reconciler) {

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes - Public
	api := app.Group("/api")
	api.Post("/auth/login", handlers.Login)

	// API routes - Protected
	protected := api.Group("/", middleware.AuthRequired())
	protected.Post("/auth/logout", handlers.Logout)
	protected.Get("/auth/profile", handlers.GetProfile)
	protected.Post("/auth/2fa/setup", handlers.Setup2FA)
	protected.Post("/auth/2fa/verify", handlers.Verify2FA)
	protected.Post("/auth/2fa/disable", handlers.Disable2FA)

	// Firewall API
	protected.Get("/firewall/rules", handlers.GetFirewallRules(firewallSvc))
	protected.Post("/firewall/rules", handlers.AddFirewallRule(firewallSvc))
	protected.Get("/firewall/rules/:id", handlers.GetFirewallRule(firewallSvc))
	protected.Put("/firewall/rules/:id", handlers.UpdateFirewallRule(firewallSvc))
	protected.Delete("/firewall/rules/:id", handlers.DeleteFirewallRule(firewallSvc))

	protected.Post("/firewall/sync", handlers.SyncFirewallRules(reconciler))
	protected.Get("/firewall/provider", handlers.GetProviderState(gateway))
	protected.Delete("/firewall/acl-entries/:number", handlers.DeleteACLEntry(gateway))

	// Provider settings (admin only)
	admin := protected.Group("/firewall/settings", middleware.AdminRequired())
	admin.Get("/", handlers.GetProviderSettings(settingsSvc))
	admin.Put("/", handlers.SaveProviderSettings(settingsSvc))
}

func createDefaultAdmin(cfg *config.Config) {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	admin := models.User{
		Username: cfg.Admin.Username,
		Email:    cfg.Admin.Email,
		Role:     "admin",
	}
	admin.SetPassword(cfg.Admin.Password)

	if err := database.DB.Create(&admin).Error; err != nil {
		log.Printf("Failed to create default admin: %v", err)
	} else {
		log.Printf("✅ Default admin user created: %s", cfg.Admin.Username)
	}
}
