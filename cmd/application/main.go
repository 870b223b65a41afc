package main

import (
	"context"
	"ktrend_api/config"
	"ktrend_api/internal/trends/app"
	"log"
	"os"
	"os/signal"
	"syscall"
)

const defaultConfigPath = "config/ktrend.yaml"

func main() {
	path := os.Getenv("KTREND_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Fatalf("load config %s: %v", path, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("\nStarted app\n")
	if err := app.NewTrendsServer(cfg, os.Stdout).Run(ctx); err != nil {
		log.Printf("server stopped: %v", err)
		os.Exit(1)
	}
}
