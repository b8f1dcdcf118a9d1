// Command seed fills the configured database with fake development data.
package main

import (
	"flag"
	"log"

	"chirp/config"
	"chirp/database"
	"chirp/seed"

	"github.com/joho/godotenv"
)

func main() {
	users := flag.Int("users", 15, "number of fake users to create")
	tweets := flag.Int("tweets", 5, "max tweets per user")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using process environment")
	}

	cfg := config.LoadConfig()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, *users, *tweets); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
