package main

import (
	"log"
	"runtime"

	"localmind-desktop/internal/app"
	"localmind-desktop/internal/config"
	"localmind-desktop/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}

	appLogger := logger.New(cfg.LogLevel, cfg.LogJSON)
	appLogger.Info("Application", "starting application", map[string]interface{}{
		"version":    config.AppVersion,
		"app_id":     cfg.AppID,
		"go_version": runtime.Version(),
		"log_level":  cfg.LogLevel,
	})

	if err := app.Default(cfg, appLogger).Run(); err != nil {
		log.Fatalf("error while running application: %v", err)
	}
}
