package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/gewnthar/icd10pipe/internal/config"
	"github.com/gewnthar/icd10pipe/internal/logging"
	"github.com/gewnthar/icd10pipe/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: probe config.yaml, config/config.yaml)")
	flag.Parse()

	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := logging.Setup(cfg.Logging)
	logger.Info("starting ICD-10 WHO pipeline")

	if err := pipeline.Run(context.Background(), cfg, logger); err != nil {
		logger.Error("ICD-10 WHO processing failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ICD-10 WHO processing completed successfully")
}
