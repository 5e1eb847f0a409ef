// Command seed fills the database with demo students and relationships.
package main

import (
	"context"
	"flag"
	"log"

	"informatch/internal/config"
	"informatch/internal/database"
	"informatch/internal/seed"
)

func main() {
	profiles := flag.Int("profiles", 50, "Number of demo students to create")
	clean := flag.Bool("clean", true, "Delete existing data before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed for repeatable data (0 = random)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	summary, err := seed.Seed(context.Background(), db, seed.Options{
		Profiles: *profiles,
		Clean:    *clean,
		RandSeed: *randSeed,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ Done: %d students. Mint a token for any of them with ./cmd/devtoken.", summary.Students)
}
