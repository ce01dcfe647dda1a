// Command seed populates the development database with verified profiles and
// a friend mesh.
package main

import (
	"flag"
	"log"

	"revlink/internal/config"
	"revlink/internal/database"
	"revlink/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	density := flag.Float64("density", 0.08, "Approximate fraction of user pairs connected as friends")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if err := s.Run(seed.Options{
		NumUsers:      *numUsers,
		FriendDensity: *density,
		ShouldClean:   *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Database seeded.")
}
