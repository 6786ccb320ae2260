package main // Entry point for the slot generation CLI

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/dinehall/restaurant-table-booking/internal/config"
	"github.com/dinehall/restaurant-table-booking/internal/database"
	"github.com/dinehall/restaurant-table-booking/internal/repository"
	"github.com/dinehall/restaurant-table-booking/internal/service"
)

func main() {
	var (
		ownerID      = flag.Uint64("owner", 0, "restaurant owner ID (required)")
		restaurantID = flag.Uint64("restaurant", 0, "restaurant ID (required)")
		date         = flag.String("date", time.Now().Format("2006-01-02"), "date to generate slots for (YYYY-MM-DD)")
		duration     = flag.Int("duration", 0, "slot duration in minutes (0 = configured default)")
	)
	flag.Parse()

	if *ownerID == 0 || *restaurantID == 0 {
		flag.Usage()
		log.Fatal("both -owner and -restaurant are required")
	}

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	dur := *duration
	if dur == 0 {
		dur = cfg.SlotDurationMin
	}

	slotSvc := service.NewSlotService(repository.NewRestaurantRepo(db), repository.NewTimeSlotRepo(db))
	slots, err := slotSvc.GenerateSlots(ctx, *ownerID, *restaurantID, *date, dur)
	if err != nil {
		log.Fatalf("slot generation failed: %v", err)
	}

	log.Printf("generated %d slots for restaurant %d on %s", len(slots), *restaurantID, *date)
	for _, s := range slots {
		log.Printf("  slot %d: %s - %s", s.ID, s.StartTime, s.EndTime)
	}
}
