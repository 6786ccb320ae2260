package repository

import (
	"context"
	"database/sql"

	"github.com/dinehall/restaurant-table-booking/internal/model"
)

// AllocationRepo provides data access to table_allocations, the
// exclusivity records of the booking system.  The unique key
// uq_table_slot on (table_id, time_slot_id) is the primary guarantee
// that a table cannot be double-booked; every insert here is prepared
// to see that key fire and converts it into ErrTableAllocated.
type AllocationRepo struct {
	db *sql.DB
}

// NewAllocationRepo returns a new AllocationRepo bound to the given database.
func NewAllocationRepo(db *sql.DB) *AllocationRepo { return &AllocationRepo{db: db} }

// ExistsForUpdateTx reports whether an allocation exists for the
// (table, time slot) pair, taking a row lock when one does.  Running
// the check inside the caller's transaction with FOR UPDATE serializes
// concurrent allocators on the same pair; the unique key still backs
// this up for the gap where no row exists yet.
func (r *AllocationRepo) ExistsForUpdateTx(ctx context.Context, tx *sql.Tx, tableID, timeSlotID uint64) (bool, error) {
	const q = `SELECT id FROM table_allocations WHERE table_id = ? AND time_slot_id = ? FOR UPDATE`
	var id uint64
	err := tx.QueryRowContext(ctx, q, tableID, timeSlotID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateTx inserts an allocation within the provided transaction and
// assigns the generated ID back to the struct.  BookingID must be set
// for AllocationBooking and nil for AllocationAdminHold.  A concurrent
// insert that wins the unique key race surfaces as ErrTableAllocated.
func (r *AllocationRepo) CreateTx(ctx context.Context, tx *sql.Tx, a *model.TableAllocation) error {
	const q = `INSERT INTO table_allocations (booking_id, table_id, time_slot_id, kind) VALUES (?, ?, ?, ?)`
	var bookingID any
	if a.BookingID != nil {
		bookingID = *a.BookingID
	}
	out, err := tx.ExecContext(ctx, q, bookingID, a.TableID, a.TimeSlotID, string(a.Kind))
	if err != nil {
		if isDuplicateKey(err) {
			return ErrTableAllocated
		}
		return err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// DeleteByBookingTx removes the allocation paired with a booking.  It
// is used when a cancellation releases the table for the slot.  It is
// not an error when no allocation exists; the booking may have been
// released already.
func (r *AllocationRepo) DeleteByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
	const q = `DELETE FROM table_allocations WHERE booking_id = ?`
	_, err := tx.ExecContext(ctx, q, bookingID)
	return err
}

// GetForPair returns the allocation for a (table, time slot) pair, or
// nil when none exists.  Absence is not an error here; callers decide
// whether a missing allocation means free or stale state.
func (r *AllocationRepo) GetForPair(ctx context.Context, tableID, timeSlotID uint64) (*model.TableAllocation, error) {
	const q = `SELECT id, booking_id, table_id, time_slot_id, kind, created_at, updated_at
		FROM table_allocations WHERE table_id = ? AND time_slot_id = ?`
	var a model.TableAllocation
	var bookingID sql.NullInt64
	var kind string
	err := r.db.QueryRowContext(ctx, q, tableID, timeSlotID).Scan(
		&a.ID, &bookingID, &a.TableID, &a.TimeSlotID, &kind, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if bookingID.Valid {
		id := uint64(bookingID.Int64)
		a.BookingID = &id
	}
	a.Kind = model.AllocationKind(kind)
	return &a, nil
}
