package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"matching-service/internal/cache"
	"matching-service/internal/config"
	"matching-service/internal/database/mongo"
	"matching-service/internal/event"
	"matching-service/internal/handlers"
	"matching-service/internal/repository"
	"matching-service/internal/service"
	"matching-service/pkg/discovery"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

func setupLogging() (*os.File, error) {
	logDir := filepath.Join("/evolvia", "log", "matching_service")
	err := os.MkdirAll(logDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.ServiceConfig

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"*"},
	}))

	app.Get("/health", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Matching Service is healthy")
	})

	// Initialize repositories
	agentRepo := repository.NewAgentRepository(mongo.Mongo_Database)
	gigRepo := repository.NewGigRepository(mongo.Mongo_Database)
	gigAgentRepo := repository.NewGigAgentRepository(mongo.Mongo_Database)

	// Create database indexes
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := agentRepo.CreateIndexes(ctx); err != nil {
		log.Printf("Warning: Failed to create agent indexes: %v", err)
	}
	if err := gigRepo.CreateIndexes(ctx); err != nil {
		log.Printf("Warning: Failed to create gig indexes: %v", err)
	}
	if err := gigAgentRepo.CreateIndexes(ctx); err != nil {
		log.Printf("Warning: Failed to create relationship indexes: %v", err)
	}
	cancel()
	log.Println("Database index setup complete")

	viewCache := cache.NewViewCache(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Matching.ViewCacheTTL)

	eventPublisher, err := event.NewEventPublisher(cfg.RabbitMQ.URI)
	if err != nil {
		log.Printf("Warning: Failed to initialize event publisher: %v", err)
		eventPublisher, _ = event.NewEventPublisher("")
	}

	// Initialize services
	syncService := service.NewSyncService(agentRepo, gigRepo, gigAgentRepo, viewCache)
	matchService := service.NewMatchService(agentRepo, gigRepo, gigAgentRepo, eventPublisher)
	enrollmentService := service.NewEnrollmentService(agentRepo, gigRepo, gigAgentRepo, syncService, eventPublisher, cfg.Matching.InvitationTTL)

	eventConsumer, err := event.NewEventConsumer(cfg.RabbitMQ.URI, matchService)
	if err != nil {
		log.Printf("Warning: Failed to initialize event consumer: %v", err)
	} else {
		if err := eventConsumer.Start(); err != nil {
			log.Printf("Warning: Failed to start event consumer: %v", err)
			eventConsumer.Close()
		} else {
			log.Println("Successfully started event consumer")
			defer eventConsumer.Close()
		}
	}

	// Initialize and register handlers
	gigAgentHandler := handlers.NewGigAgentHandler(enrollmentService, syncService)
	gigAgentHandler.RegisterRoutes(app)

	matchHandler := handlers.NewMatchHandler(matchService)
	matchHandler.RegisterRoutes(app)

	shutdownChan := make(chan os.Signal, 1)
	doneChan := make(chan bool, 1)

	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := app.Listen(fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
		doneChan <- true
	}()

	<-shutdownChan
	log.Println("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	// Close event publisher
	if eventPublisher != nil {
		if err := eventPublisher.Close(); err != nil {
			log.Printf("Error closing event publisher: %v", err)
		}
	}

	if err := viewCache.Close(); err != nil {
		log.Printf("Error closing view cache: %v", err)
	}

	// Disconnect from MongoDB
	mongo.DisconnectMongo()

	// Deregister from service discovery
	if discovery.ServiceDiscovery != nil {
		if err := discovery.ServiceDiscovery.Deregister(); err != nil {
			log.Printf("Error deregistering from service discovery: %v", err)
		}
	}

	<-doneChan
	log.Println("Server shutdown complete")
}
