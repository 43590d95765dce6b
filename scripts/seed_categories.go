package main

import (
	"fmt"
	"log"

	"rentify-server/models"
	"rentify-server/storage"
)

// Seeds the default rental categories. Safe to re-run; existing names are
// skipped.
func main() {
	storage.InitializeDB()

	categories := []models.Category{
		{Name: "Tools & DIY", Description: "Power tools, hand tools and workshop equipment"},
		{Name: "Electronics", Description: "Cameras, drones, projectors and audio gear"},
		{Name: "Outdoor & Camping", Description: "Tents, backpacks and hiking equipment"},
		{Name: "Sports", Description: "Bikes, boards and fitness equipment"},
		{Name: "Party & Events", Description: "Speakers, lights and event furniture"},
		{Name: "Vehicles", Description: "Trailers, scooters and other rideables"},
		{Name: "Home & Garden", Description: "Appliances, lawn care and cleaning machines"},
	}

	seeded := 0
	for _, category := range categories {
		existingQuery := storage.DB.Where("name = ?", category.Name).
			Limit(1).Find(&models.Category{})
		if existingQuery.Error != nil {
			log.Fatalf("checking category %q: %v", category.Name, existingQuery.Error)
		}
		if existingQuery.RowsAffected > 0 {
			continue
		}

		if err := storage.DB.Create(&category).Error; err != nil {
			log.Fatalf("creating category %q: %v", category.Name, err)
		}
		seeded++
	}

	fmt.Printf("Seeded %d categories\n", seeded)
}
