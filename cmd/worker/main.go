package main // Entry point for the booking event worker

import (
	"log"

	"github.com/dinehall/restaurant-table-booking/internal/config"
	"github.com/dinehall/restaurant-table-booking/internal/queue"
)

func main() {
	cfg := config.Load() // Load environment config; fails fast on missing vars

	log.Printf("booking worker starting (env=%s)", cfg.Env)
	if err := queue.StartBookingConsumer(); err != nil {
		log.Fatal(err)
	}
}
