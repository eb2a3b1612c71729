package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"apiexplorer/internal/catalog"
	"apiexplorer/internal/config"
	"apiexplorer/internal/db"
	"apiexplorer/internal/email"
	"apiexplorer/internal/handlers/api"
	"apiexplorer/internal/jobs"
	"apiexplorer/internal/metrics"
	"apiexplorer/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Seed an empty catalog
	seed, err := config.LoadSeedCatalog(cfg.SeedFile)
	if err != nil {
		log.Fatalf("Failed to load seed catalog %s: %v", cfg.SeedFile, err)
	}
	if seed == nil {
		seed = config.DefaultSeedCatalog()
	}
	n, err := database.SeedEntries(ctx, seed.NewEntries())
	if err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}
	if n > 0 {
		log.Printf("Seeded catalog with %d APIs", n)
	}

	svc := catalog.New(database)
	notifier := email.NewNotifier(cfg)
	svc.SetNotifier(notifier)
	if !cfg.IsEmailEnabled() {
		log.Println("Email notifications are disabled. Set SMTP_ENABLED and SMTP_HOST to enable.")
	}

	metrics.Init(database)

	// Link health checks
	var prober api.HealthProber
	if cfg.HealthCheckInterval > 0 {
		checker := jobs.NewHealthChecker(database, cfg.HealthCheckInterval, cfg.HealthCheckMaxAge)
		checker.SetNotifier(notifier)
		go checker.Start(ctx)
		prober = checker
	}

	srv := server.New(cfg, "./views")
	if err := srv.RegisterRoutes(ctx, server.Deps{
		Catalog: svc,
		DB:      database,
		Prober:  prober,
	}); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
