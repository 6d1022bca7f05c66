package main

import (
	"log"

	"sealtrack/internal/api"
	"sealtrack/internal/config"
	"sealtrack/internal/database"
	"sealtrack/internal/events"
	"sealtrack/internal/logger"
	"sealtrack/internal/session"
	"sealtrack/internal/tracking"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}

	store := session.NewGormStore(db.DB)
	gate := tracking.NewGormGate(db.DB)
	publisher := events.NewPublisher(cfg)
	defer publisher.Close()

	// Initialize API server
	server := api.New(cfg, logger, store, gate, publisher)

	// Start server
	logger.Info("Starting API server on port " + cfg.APIPort)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
