package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-numeral-engine/api"
	"github.com/gcbaptista/go-numeral-engine/config"
	"github.com/gcbaptista/go-numeral-engine/internal/analytics"
	"github.com/gcbaptista/go-numeral-engine/internal/engine"
)

func main() {
	// Define command-line flags
	var (
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
		port       = flag.String("port", "", "Port to run the server on (overrides config)")
		dataDir    = flag.String("data-dir", "", "Directory to store engine data (overrides config)")
		configPath = flag.String("config", "config.yaml", "Path to the YAML configuration file")
	)

	flag.Parse()

	// Handle help flag
	if *help {
		fmt.Printf("Numeral Engine - Correlates reference numerals in description text with drawing detections\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                           # Start server on default port 8080\n", os.Args[0])
		fmt.Printf("  %s --port 9000               # Start server on port 9000\n", os.Args[0])
		fmt.Printf("  %s --data-dir /tmp/numerals  # Use custom data directory\n", os.Args[0])
		return
	}

	// Handle version flag
	if *version {
		fmt.Printf("Numeral Engine v1.0.0\n")
		fmt.Printf("Reference-numeral extraction, OCR digit correction, and detection correlation\n")
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration from %s: %v", *configPath, err)
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting numeral engine",
		zap.String("port", cfg.Port),
		zap.String("data_dir", cfg.DataDir))

	numeralEngine, err := engine.NewEngine(cfg.DataDir, cfg.Engine, logger)
	if err != nil {
		logger.Fatal("failed to initialize engine", zap.Error(err))
	}
	defer numeralEngine.Close()

	analyticsService := analytics.NewService(cfg.DataDir, numeralEngine, logger)

	// Initialize Gin router
	router := gin.Default()
	router.Use(api.CORSMiddleware())
	router.Use(api.RequestSizeLimitMiddleware(10 << 20))
	router.Use(api.RequestLoggingMiddleware(logger))

	// Setup API routes
	api.SetupRoutes(router, numeralEngine, numeralEngine, analyticsService, logger)

	// Start the server
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
