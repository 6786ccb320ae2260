package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
	BookingNoShow    BookingStatus = "no_show"
)

// Booking records a customer's reservation of one table for one time
// slot.  Every booking is paired with exactly one table allocation,
// created in the same transaction; neither may exist without the other.
// The booking date always equals the time slot's date.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – customer who made the booking.
//  RestaurantID – restaurant being booked.
//  TimeSlotID   – slot being booked.
//  TableID      – table being booked.
//  Guests       – number of guests (positive, at most the table capacity).
//  Date         – booking date ("YYYY-MM-DD"), equals the slot date.
//  Status       – lifecycle state of the booking.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Booking struct {
	ID           uint64        // bookings.id
	UserID       uint64        // bookings.user_id
	RestaurantID uint64        // bookings.restaurant_id
	TimeSlotID   uint64        // bookings.time_slot_id
	TableID      uint64        // bookings.table_id
	Guests       uint32        // bookings.number_of_guests
	Date         string        // bookings.date (DATE)
	Status       BookingStatus // bookings.status
	CreatedAt    time.Time     // bookings.created_at
	UpdatedAt    time.Time     // bookings.updated_at
}
