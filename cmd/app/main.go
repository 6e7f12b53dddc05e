package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"BtcPulse/internal/di"
	"BtcPulse/pkg/config"
)

func main() {
	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s port=%d refresh=%s", cfg.Environment, cfg.Server.Port, cfg.Refresh.Interval)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run blocks until signal
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
