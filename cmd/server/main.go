package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/kelseyhightower/envconfig"

	"github.com/branch-messaging/backend/api/handlers"
	"github.com/branch-messaging/backend/internal/db"
	"github.com/branch-messaging/backend/internal/hub"
	"github.com/branch-messaging/backend/internal/repository"
	"github.com/branch-messaging/backend/internal/seed"
)

// config is loaded from the environment: PORT, DB_PATH, CORS_ORIGINS,
// SEED_CSV.
type config struct {
	Port        string   `default:"8080"`
	DBPath      string   `envconfig:"DB_PATH" default:"data/branch_messaging.db"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://127.0.0.1:3000"`
	SeedCSV     string   `envconfig:"SEED_CSV"`
}

func main() {
	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Ensure the data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	// Initialize database
	database, err := db.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	// Seed initial data on an empty database
	ctx := context.Background()
	seeder := seed.New(database)
	if err := seeder.Seed(ctx); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	if cfg.SeedCSV != "" {
		if err := seeder.ImportCSV(ctx, cfg.SeedCSV); err != nil {
			log.Fatalf("Failed to import messages from %s: %v", cfg.SeedCSV, err)
		}
	}

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(database)
	agentRepo := repository.NewAgentRepository(database)
	conversationRepo := repository.NewConversationRepository(database)
	messageRepo := repository.NewMessageRepository(database)
	cannedRepo := repository.NewCannedMessageRepository(database)

	// Initialize the connection/presence hub
	agentHub := hub.New()
	defer agentHub.Close()

	// Initialize handlers
	customerHandler := handlers.NewCustomerHandler(customerRepo)
	agentHandler := handlers.NewAgentHandler(agentRepo, agentHub)
	conversationHandler := handlers.NewConversationHandler(conversationRepo, messageRepo, customerRepo, agentHub)
	messageHandler := handlers.NewMessageHandler(messageRepo, conversationRepo, customerRepo, agentRepo, agentHub)
	cannedHandler := handlers.NewCannedMessageHandler(cannedRepo)
	searchHandler := handlers.NewSearchHandler(conversationRepo, customerRepo)
	wsHandler := handlers.NewWebSocketHandler(hub.NewHandler(agentHub))

	// Initialize Gin router
	r := gin.Default()
	r.Use(corsMiddleware(cfg.CORSOrigins))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "healthy",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		customerHandler.RegisterRoutes(api)
		agentHandler.RegisterRoutes(api)
		conversationHandler.RegisterRoutes(api)
		messageHandler.RegisterRoutes(api)
		cannedHandler.RegisterRoutes(api)
		searchHandler.RegisterRoutes(api)
	}

	// WebSocket route
	wsHandler.RegisterRoutes(r)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down server...")
		agentHub.Close()
		db.CloseDB()
		os.Exit(0)
	}()

	// Start server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// corsMiddleware allows the configured frontend origins.
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowed[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
