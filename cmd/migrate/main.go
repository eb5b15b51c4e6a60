package main

import (
	"context" // Seeding context
	"flag"    // Command line flags

	"ecommerce_api/internal/config" // Custom import path (Config)
	"ecommerce_api/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Structured logging
)

// Main entry point for migration
func main() {
	seed := flag.Bool("seed", false, "insert roles, users, categories and sample products into empty tables")
	flag.Parse()

	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	database, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	if err := db.Migrate(database); err != nil {
		logrus.Fatalf("%v", err)
	}
	if *seed {
		if err := db.Seed(context.Background(), database); err != nil {
			logrus.Fatalf("seeding failed: %v", err)
		}
	}
}
