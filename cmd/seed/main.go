// Command main runs the database seeder for Vendora.
package main

import (
	"flag"
	"log"

	"vendora/internal/config"
	"vendora/internal/database"
	"vendora/internal/seed"
)

func main() {
	numMerchants := flag.Int("merchants", 5, "Number of merchant accounts to create")
	storesPerOwner := flag.Int("stores", 1, "Number of stores per merchant")
	productsPerStore := flag.Int("products", 12, "Number of products per store")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d merchants, %d stores each, %d products per store, clean=%v\n",
		*numMerchants, *storesPerOwner, *productsPerStore, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumMerchants:     *numMerchants,
		StoresPerOwner:   *storesPerOwner,
		ProductsPerStore: *productsPerStore,
		ShouldClean:      *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	// Demo store goes last so a clean run still ends with known credentials.
	if err := seed.DemoStore(db); err != nil {
		log.Fatalf("❌ Demo store provisioning failed: %v", err)
	}

	log.Println("✅ Seeding complete")
}
