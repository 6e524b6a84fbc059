// Command seed writes the demo users and posts into the remote store.
package main

import (
	"context"
	"flag"
	"log"

	"openwall/internal/config"
	"openwall/internal/database"
	"openwall/internal/remote"
	"openwall/internal/seed"
)

func main() {
	shouldClean := flag.Bool("clean", false, "Remove existing users and posts before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	store, err := remote.NewGormStore(db)
	if err != nil {
		log.Fatalf("Failed to initialize remote store: %v", err)
	}

	ctx := context.Background()
	if err := seed.Seed(ctx, store, seed.Options{ShouldClean: *shouldClean}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Done.")
}
