package main

import (
	"flag"
	"log"

	"github.com/supermart/billing-engine/internal/config"
	"github.com/supermart/billing-engine/internal/infrastructure/database"
)

func main() {
	seed := flag.Bool("seed", false, "seed demo products and customers after migrating")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if *seed {
		if err := database.SeedDemoData(db); err != nil {
			log.Printf("Warning: Failed to seed demo data: %v", err)
		}
	}

	log.Printf("Database ready for %s (%s)", cfg.App.Name, cfg.App.Env)
}
