package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"library_rental/pkg/config"
	"library_rental/pkg/database"
	"library_rental/pkg/rental"
)

const defaultSchedule = "0 3 * * *"

func main() {
	log.Println("Starting rental sweeper...")

	cfg := config.Load()
	schedule := cfg.SweepSchedule
	if schedule == "" {
		schedule = defaultSchedule
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	sweeper, err := rental.NewSweeper(schedule, rental.NewManager(db), cfg.SweepGraceDays)
	if err != nil {
		log.Fatalf("Invalid sweep schedule %q: %v", schedule, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper.Start()
	log.Printf("Rental sweeper scheduled: %s (grace %d days)", schedule, cfg.SweepGraceDays)

	<-ctx.Done()
	log.Println("Shutting down rental sweeper...")
	sweeper.Stop()
}
