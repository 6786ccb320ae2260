// Package repository defines the persistence store for the booking
// core: per-entity repositories over database/sql plus the sentinel
// errors reused across them.  Sentinels allow the service layer to
// distinguish failure scenarios without inspecting driver errors.
// Ownership failures surface as the same not-found sentinel as true
// absence so that callers cannot probe for the existence of resources
// they do not own.
package repository

import (
	"errors"
	"strings"
)

// ErrRestaurantNotFound is returned when a restaurant does not exist or
// is not owned by the requesting owner.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// ErrTableNotFound is returned when a table does not exist within the
// given restaurant.
var ErrTableNotFound = errors.New("table not found")

// ErrTimeSlotNotFound is returned when a time slot does not exist
// within the given restaurant.
var ErrTimeSlotNotFound = errors.New("time slot not found")

// ErrBookingNotFound is returned when a booking does not exist or its
// restaurant is not owned by the requesting owner.
var ErrBookingNotFound = errors.New("booking not found")

// ErrSlotExists is returned when a time slot already exists for the
// same (restaurant, date, start_time).
var ErrSlotExists = errors.New("time slot already exists")

// ErrTableAllocated is returned when an allocation already exists for
// the (table, time slot) pair, whether detected by the pre-insert check
// or by the unique key on insert.
var ErrTableAllocated = errors.New("table is already allocated for this time slot")

// ErrTableNumberExists is returned when a table with the same number
// already exists in the restaurant.
var ErrTableNumberExists = errors.New("table number already exists")

// ErrTableInUse is returned when a table cannot be deleted because
// allocations reference it.
var ErrTableInUse = errors.New("table has existing allocations")

// ErrSlotInUse is returned when a time slot cannot be deleted because
// bookings reference it.
var ErrSlotInUse = errors.New("time slot has existing bookings")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error 1062).  The check is string based so it also matches wrapped
// driver errors.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
