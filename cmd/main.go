package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/lib/pq"

	"github.com/lTzHorus/Carne/internal/config"
	"github.com/lTzHorus/Carne/internal/handlers"
	"github.com/lTzHorus/Carne/internal/httpx"
	"github.com/lTzHorus/Carne/internal/messaging"
	"github.com/lTzHorus/Carne/internal/repository"
	"github.com/lTzHorus/Carne/internal/service"
)

func main() {
	log.Println("🚀 Carne payment tracker starting...")

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("No DATABASE_URL set for the payments store")
	}

	db, err := initDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}
	defer db.Close()

	if err := repository.RunMigrations(db); err != nil {
		log.Fatalf("Migration error: %v", err)
	}

	// Event feed is optional: a broker failure must not keep payments down.
	var publisher service.EventPublisher
	if cfg.MessagingEnabled {
		rabbitClient := messaging.NewRabbitMQClient(messaging.NewRabbitMQConfig())
		if err := rabbitClient.Connect(); err != nil {
			log.Printf("RabbitMQ unavailable, event feed disabled: %v", err)
		} else {
			defer rabbitClient.Close()
			publisher = messaging.NewPublisher(rabbitClient)
		}
	}

	paymentRepo := repository.NewPostgresPaymentRepository(db)
	paymentService := service.NewPaymentService(paymentRepo, publisher)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	app := setupFiberApp(cfg)
	paymentHandler.RegisterRoutes(app)

	// Companion frontend
	app.Static("/", cfg.StaticDir)

	app.Use(func(c *fiber.Ctx) error {
		return httpx.Error(c, fiber.StatusNotFound, "Route not found")
	})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("🛑 Carne payment tracker closing...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("🌍 Listening on http://localhost:%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server start error: %v", err)
	}
}

func initDatabase(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("database open error: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("database ping error: %v", err)
	}

	log.Println("✅ Database connection success")
	return db, nil
}

func setupFiberApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Carne Payment Tracker v1.0",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} - ${latency} | IP: ${ip}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	return app
}

// errorHandler keeps driver and framework details out of client responses.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	log.Printf("Error: %v", err)

	return httpx.Error(c, code, message)
}
