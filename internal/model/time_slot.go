package model

import "time"

// TimeSlot is a bookable interval on a calendar date for a restaurant.
// Slots are generated in bulk from the restaurant's operating hours or
// created individually by the owner.  Start and end are clock strings
// ("HH:MM") with start < end, and the interval must lie within the
// restaurant's operating hours.  A slot may not be deleted while any
// booking references it.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – restaurant to which this slot belongs.
//  Date         – calendar date ("YYYY-MM-DD").
//  StartTime    – inclusive start clock time ("HH:MM").
//  EndTime      – exclusive end clock time ("HH:MM").
//  IsAvailable  – whether the slot is offered for booking.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type TimeSlot struct {
	ID           uint64    // time_slots.id
	RestaurantID uint64    // time_slots.restaurant_id
	Date         string    // time_slots.date (DATE)
	StartTime    string    // time_slots.start_time (TIME)
	EndTime      string    // time_slots.end_time (TIME)
	IsAvailable  bool      // time_slots.is_available
	CreatedAt    time.Time // time_slots.created_at
	UpdatedAt    time.Time // time_slots.updated_at
}
