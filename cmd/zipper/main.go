package main

import (
	"context"
	"log"
	"os"

	"zip_compression/config"
	"zip_compression/entity"
	"zip_compression/internal/app"
	"zip_compression/pkg/logger"
)

func main() {
	// Configuration
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("App error: %s", err)
	}

	// Run
	if err := a.Run(context.Background(), cfg); err != nil {
		if entity.IsErrorKind(err, entity.ErrInputReadFailed) {
			logger.New(cfg.Log.Level).Fatal(err)
		}
		os.Exit(1)
	}
}
