// Package seed loads the sample catalog.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/siddardha003/BookIt-Experiences-Slots/internal/models"
	"gorm.io/gorm"
)

const shortDescription = "Curated small-group experience. Certified guide. Safety first with gear included."

// scheduledExperiences is how many of the sample experiences get schedules.
const scheduledExperiences = 4

type slotTemplate struct {
	time  string
	total int
}

var dailySlots = []slotTemplate{
	{time: "09:00", total: 10},
	{time: "16:00", total: 8},
}

// Experiences returns the sample catalog in insertion order.
func Experiences() []models.Experience {
	return []models.Experience{
		{
			Name:        "Kayaking",
			Description: "Experience the thrill of kayaking through pristine waters. Our expert guides will lead you through scenic routes while ensuring your safety. All equipment included.",
			Location:    "Udupi",
			Price:       999,
			ImageURL:    "https://images.unsplash.com/photo-1544551763-46a013bb70d5?w=400&h=300&fit=crop",
			Category:    "Water Sports",
			MinAge:      12,
		},
		{
			Name:        "Nandi Hills Sunrise",
			Description: "Watch the breathtaking sunrise from Nandi Hills. Early morning trek with stunning views of the surrounding landscape. Perfect for photography enthusiasts.",
			Location:    "Bangalore",
			Price:       899,
			ImageURL:    "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=400&h=300&fit=crop",
			Category:    "Trekking",
			MinAge:      8,
		},
		{
			Name:        "Coffee Trail",
			Description: "Explore the aromatic world of coffee plantations. Learn about coffee cultivation, processing, and enjoy fresh brews. Includes plantation walk and tasting session.",
			Location:    "Coorg",
			Price:       1299,
			ImageURL:    "https://images.unsplash.com/photo-1447933601403-0c6688de566e?w=400&h=300&fit=crop",
			Category:    "Plantation Tours",
			MinAge:      6,
		},
		{
			Name:        "Kayaking",
			Description: "Another beautiful kayaking experience in the waters of Karnataka. Navigate through calm waters with experienced guides.",
			Location:    "Udupi, Karnataka",
			Price:       999,
			ImageURL:    "https://images.unsplash.com/photo-1527004760525-b1a73b57d5a8?w=400&h=300&fit=crop",
			Category:    "Water Sports",
			MinAge:      12,
		},
		{
			Name:        "Nandi Hills Sunrise",
			Description: "Another early morning adventure to catch the magnificent sunrise at Nandi Hills. Includes breakfast and photography guidance.",
			Location:    "Bangalore",
			Price:       899,
			ImageURL:    "https://images.unsplash.com/photo-1487611459768-bd414656ea10?w=400&h=300&fit=crop",
			Category:    "Trekking",
			MinAge:      8,
		},
		{
			Name:        "Boat Cruise",
			Description: "Relaxing boat cruise through scenic waterways. Enjoy the peaceful journey with refreshments and beautiful views.",
			Location:    "Sunderban",
			Price:       999,
			ImageURL:    "https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=400&h=300&fit=crop",
			Category:    "Water Activities",
			MinAge:      5,
		},
		{
			Name:        "Bunjee Jumping",
			Description: "Adrenaline-pumping bungee jumping experience with certified instructors. Feel the ultimate thrill with complete safety measures.",
			Location:    "Manali",
			Price:       999,
			ImageURL:    "https://images.unsplash.com/photo-1551632811-561732d1e306?w=400&h=300&fit=crop",
			Category:    "Adventure Sports",
			MinAge:      18,
		},
		{
			Name:        "Coffee Trail",
			Description: "Immerse yourself in the coffee culture of Coorg. Visit plantations, learn about different varieties, and enjoy fresh coffee.",
			Location:    "Coorg",
			Price:       1299,
			ImageURL:    "https://images.unsplash.com/photo-1495474472287-4d71bcdd2085?w=400&h=300&fit=crop",
			Category:    "Plantation Tours",
			MinAge:      6,
		},
	}
}

// Schedules builds a week of morning and evening slots for each experience,
// starting the day after now. Remaining capacity is random in [1, total].
func Schedules(experiences []models.Experience, now time.Time, rng *rand.Rand) []models.Schedule {
	var out []models.Schedule
	for _, e := range experiences {
		for day := 1; day <= 7; day++ {
			date := now.AddDate(0, 0, day)
			for _, slot := range dailySlots {
				out = append(out, models.Schedule{
					ExperienceID:   e.ID,
					Date:           date,
					Time:           slot.time,
					TotalSlots:     slot.total,
					SlotsAvailable: rng.Intn(slot.total) + 1,
				})
			}
		}
	}
	return out
}

type Result struct {
	Experiences []models.Experience
	Schedules   int
}

// Run replaces the catalog with the sample data. Existing bookings are
// removed first since they reference the old schedules.
func Run(ctx context.Context, db *gorm.DB, now time.Time, rng *rand.Rand) (Result, error) {
	var res Result

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []any{&models.Booking{}, &models.Schedule{}, &models.Experience{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
				return fmt.Errorf("clear %T: %w", table, err)
			}
		}
		log.Println("[Seed] cleared existing data")

		experiences := Experiences()
		for i := range experiences {
			experiences[i].ShortDescription = shortDescription
			// stable listing order follows the slice order
			experiences[i].CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
			experiences[i].UpdatedAt = experiences[i].CreatedAt
		}
		if err := tx.Create(&experiences).Error; err != nil {
			return fmt.Errorf("insert experiences: %w", err)
		}
		log.Printf("[Seed] inserted %d experiences", len(experiences))

		n := min(scheduledExperiences, len(experiences))
		schedules := Schedules(experiences[:n], now, rng)
		if err := tx.Create(&schedules).Error; err != nil {
			return fmt.Errorf("insert schedules: %w", err)
		}
		log.Printf("[Seed] inserted %d schedules", len(schedules))

		res = Result{Experiences: experiences, Schedules: len(schedules)}
		return nil
	})
	return res, err
}
