package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/valuepm-backend/internal/app"
	"github.com/yungbote/valuepm-backend/internal/platform/logger"
	"github.com/yungbote/valuepm-backend/internal/seed"
)

func main() {
	var (
		force  = flag.Bool("force", false, "seed even when projects already exist")
		dryRun = flag.Bool("dry-run", false, "build the sample data without writing it")
	)
	flag.Parse()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := app.LoadConfig(log)
	if err != nil {
		log.Error("Config invalid", "error", err)
		os.Exit(1)
	}
	if cfg.StoreDriver == app.StoreDriverMemory {
		log.Warn("STORE_DRIVER=memory; seeded data will not outlive this process")
	}
	clients, err := app.OpenClients(log, cfg)
	if err != nil {
		log.Error("Open store failed", "error", err)
		os.Exit(1)
	}
	defer clients.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := seed.Run(ctx, clients.Store, log, seed.Options{Force: *force, DryRun: *dryRun})
	if err != nil {
		log.Error("Seeding failed", "error", err)
		stop()
		clients.Close()
		os.Exit(1)
	}
	_ = json.NewEncoder(os.Stdout).Encode(sum)
}
