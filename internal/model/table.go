package model

import "time"

// Table describes a physical table inside a restaurant.  Tables are
// uniquely identified by their restaurant and table number.  A table
// may not be deleted while any allocation references it.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – restaurant to which this table belongs.
//  TableNumber  – human label, unique within the restaurant.
//  Capacity     – number of guests the table seats (positive).
//  IsActive     – whether the table is bookable at all.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Table struct {
	ID           uint64    // tables.id
	RestaurantID uint64    // tables.restaurant_id
	TableNumber  string    // tables.table_number
	Capacity     uint32    // tables.capacity
	IsActive     bool      // tables.is_active
	CreatedAt    time.Time // tables.created_at
	UpdatedAt    time.Time // tables.updated_at
}

// TableOccupancy classifies the state of a table for one time slot.
type TableOccupancy string

const (
	OccupancyFree      TableOccupancy = "FREE"       // no allocation for the slot
	OccupancyAdminHeld TableOccupancy = "ADMIN_HELD" // owner hold without a booking
	OccupancyBooked    TableOccupancy = "BOOKED"     // confirmed customer booking
)

// OccupantDetails carries the customer information attached to a booked
// table when resolving availability for a time slot.
//
// Fields:
//  CustomerName  – full name of the booking customer.
//  CustomerEmail – email address of the booking customer.
//  BookingTime   – slot start time formatted as "HH:MM".
//  Guests        – number of guests on the booking.
type OccupantDetails struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	BookingTime   string `json:"booking_time"`
	Guests        uint32 `json:"number_of_guests"`
}

// TableStatus pairs a table with its occupancy for a specific time slot
// and date.  Occupant is nil unless the occupancy is OccupancyBooked.
type TableStatus struct {
	Table     Table            `json:"table"`
	Occupancy TableOccupancy   `json:"occupancy"`
	Occupant  *OccupantDetails `json:"booking_details,omitempty"`
}
