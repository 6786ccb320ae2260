package main // Entry point for the availability inspection CLI

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/dinehall/restaurant-table-booking/internal/cache"
	"github.com/dinehall/restaurant-table-booking/internal/config"
	"github.com/dinehall/restaurant-table-booking/internal/database"
	"github.com/dinehall/restaurant-table-booking/internal/model"
	"github.com/dinehall/restaurant-table-booking/internal/repository"
	"github.com/dinehall/restaurant-table-booking/internal/service"
)

func main() {
	var (
		restaurantID = flag.Uint64("restaurant", 0, "restaurant ID (required)")
		slotID       = flag.Uint64("slot", 0, "time slot ID (required)")
		date         = flag.String("date", time.Now().Format("2006-01-02"), "date to inspect (YYYY-MM-DD)")
	)
	flag.Parse()

	if *restaurantID == 0 || *slotID == 0 {
		flag.Usage()
		log.Fatal("both -restaurant and -slot are required")
	}

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	availCache := cache.NewAvailability(config.NewRedisClient(), config.LoadCacheConfig())
	svc := service.NewAvailabilityService(
		repository.NewTableRepo(db),
		repository.NewTimeSlotRepo(db),
		availCache,
	)

	statuses, err := svc.TablesForSlot(context.Background(), *restaurantID, *slotID, *date)
	if err != nil {
		log.Fatalf("availability lookup failed: %v", err)
	}

	log.Printf("restaurant %d, slot %d, %s: %d active tables", *restaurantID, *slotID, *date, len(statuses))
	for _, st := range statuses {
		switch st.Occupancy {
		case model.OccupancyBooked:
			log.Printf("  table %s (seats %d): booked by %s for %d guests",
				st.Table.TableNumber, st.Table.Capacity, st.Occupant.CustomerName, st.Occupant.Guests)
		case model.OccupancyAdminHeld:
			log.Printf("  table %s (seats %d): held by the restaurant", st.Table.TableNumber, st.Table.Capacity)
		default:
			log.Printf("  table %s (seats %d): free", st.Table.TableNumber, st.Table.Capacity)
		}
	}
}
