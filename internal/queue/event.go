// Package queue defines the message payloads exchanged over the broker
// plus the publisher and consumer for booking events.
package queue

// BookingConfirmedEvent is published after a booking and its table
// allocation commit together.  It carries enough information for
// downstream consumers to log, notify or feed analytics without
// querying the primary database.
type BookingConfirmedEvent struct {
	BookingID    uint64 `json:"booking_id"`
	UserID       uint64 `json:"user_id"`
	RestaurantID uint64 `json:"restaurant_id"`
	TimeSlotID   uint64 `json:"time_slot_id"`
	TableID      uint64 `json:"table_id"`
	TableNumber  string `json:"table_number"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Guests       uint32 `json:"number_of_guests"`
	ConfirmedAt  string `json:"confirmed_at"`
}
