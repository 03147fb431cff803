// Command main runs the database seeder for Diplomat Corner.
package main

import (
	"flag"
	"log"

	"diplomat/internal/config"
	"diplomat/internal/database"
	"diplomat/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 30, "Number of users to create")
	numListings := flag.Int("listings", 100, "Number of listings to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d users, %d listings, clean=%v\n", *numUsers, *numListings, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.SeedMarketplace(*numUsers, *numListings); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
