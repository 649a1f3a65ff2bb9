package main

import (
	"log"

	"BooksApp/app/config"
	"BooksApp/app/database"
	"BooksApp/app/logger"
	"BooksApp/app/services"
	"BooksApp/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; the defaults cover a fresh install.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := logger.Setup(logger.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	}); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	mainLog := logger.WithComponent("main")

	if err := database.Initialize(cfg); err != nil {
		mainLog.Fatal().Err(err).Msg("failed to open store")
	}
	defer database.Close()

	// Business codes are normalized on every start so stores written by
	// older versions converge to a stable, non-conflicting set.
	if err := services.NewSequenceService().RepairAllCodes(); err != nil {
		mainLog.Fatal().Err(err).Msg("business code repair failed")
	}

	if cfg.FirstRun {
		if err := services.NewSettingsService().EnsureDefaults(); err != nil {
			mainLog.Fatal().Err(err).Msg("failed to seed default settings")
		}
	}

	cmd.Execute(cfg)
}
