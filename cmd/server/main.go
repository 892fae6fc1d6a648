package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/example/taskflow/internal/config"
	"github.com/example/taskflow/internal/database"
	"github.com/example/taskflow/internal/logging"
	"github.com/example/taskflow/internal/middleware"
	"github.com/example/taskflow/internal/repository"
	"github.com/example/taskflow/internal/routes"
)

func main() {
	cfg := config.Load()
	appLog := logging.New(os.Stdout, cfg.LogLevel)

	var store repository.AccountStore
	if cfg.UsesMemoryStore() {
		log.Printf("using in-memory account store; data is lost on restart")
		store = repository.NewMemoryAccountStore()
	} else {
		store = repository.NewGormAccountStore(database.Connect(cfg.DatabaseURL, cfg.DBLogSQL))
	}

	deps, err := routes.NewDependencies(cfg, store, appLog)
	if err != nil {
		log.Fatalf("wiring error: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "Taskflow Identity",
		ErrorHandler: middleware.ErrorHandler(appLog),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.Register(app, deps)

	go func() {
		log.Printf("Starting server on :%s", cfg.AppPort)
		if err := app.Listen(":" + cfg.AppPort); err != nil {
			log.Fatalf("fiber.Listen error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
