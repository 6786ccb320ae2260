package model

import "time"

// AllocationKind tags what a table allocation represents.  Occupancy is
// derived solely from allocation rows; there is no separate reserved
// flag on the table itself.
type AllocationKind string

const (
	AllocationBooking   AllocationKind = "BOOKING"    // paired with a customer booking
	AllocationAdminHold AllocationKind = "ADMIN_HOLD" // owner hold, no booking attached
)

// TableAllocation is the exclusivity record binding one table to one
// time slot.  At most one allocation may exist for a given
// (table_id, time_slot_id) pair at any time; the database enforces
// this with a unique key, which is the guarantee the whole booking
// system rests on.  BookingID is nil for admin holds.
//
// Fields:
//  ID         – primary key identifier.
//  BookingID  – paired booking, nil when Kind is AllocationAdminHold.
//  TableID    – table being reserved.
//  TimeSlotID – slot the table is reserved for.
//  Kind       – whether this is a customer booking or an admin hold.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type TableAllocation struct {
	ID         uint64         // table_allocations.id
	BookingID  *uint64        // table_allocations.booking_id (nullable)
	TableID    uint64         // table_allocations.table_id
	TimeSlotID uint64         // table_allocations.time_slot_id
	Kind       AllocationKind // table_allocations.kind
	CreatedAt  time.Time      // table_allocations.created_at
	UpdatedAt  time.Time      // table_allocations.updated_at
}
