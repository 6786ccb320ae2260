package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/dinehall/restaurant-table-booking/internal/model"
)

const bookingColumns = `id, user_id, restaurant_id, time_slot_id, table_id, number_of_guests, date, status, created_at, updated_at`

// BookingRepo provides data access to bookings.  The write path always
// runs inside a caller-owned transaction because a booking never exists
// without its table allocation.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateTx inserts a new booking within the scope of an existing
// transaction.  It populates the generated ID and DB-default fields
// (status timestamps) on the provided record.  The caller must commit
// or roll back the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, restaurant_id, time_slot_id, table_id, number_of_guests, date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	out, err := tx.ExecContext(ctx, q, b.UserID, b.RestaurantID, b.TimeSlotID, b.TableID,
		b.Guests, b.Date, string(b.Status))
	if err != nil {
		return err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	got, err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID))
	if err != nil {
		return err
	}
	*b = *got
	return nil
}

// GetByIDForOwnerTx loads a booking only when its restaurant is owned
// by ownerID, locking the row for the rest of the transaction.  A
// booking under another owner's restaurant yields ErrBookingNotFound,
// the same as absence.
func (r *BookingRepo) GetByIDForOwnerTx(ctx context.Context, tx *sql.Tx, bookingID, ownerID uint64) (*model.Booking, error) {
	const q = `SELECT b.id, b.user_id, b.restaurant_id, b.time_slot_id, b.table_id, b.number_of_guests, b.date, b.status, b.created_at, b.updated_at
		FROM bookings b
		JOIN restaurants r ON r.id = b.restaurant_id
		WHERE b.id = ? AND r.owner_id = ?
		FOR UPDATE`
	b, err := scanBooking(tx.QueryRowContext(ctx, q, bookingID, ownerID))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateStatusTx sets the status of a booking within the provided
// transaction.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, bookingID uint64, status model.BookingStatus) error {
	const q = `UPDATE bookings SET status = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, string(status), bookingID)
	return err
}

// ListByUser returns all bookings of a user ordered by booking date
// descending, then creation time descending, so the most recent plans
// come first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ? ORDER BY date DESC, created_at DESC`
	return r.list(ctx, q, userID)
}

// ListByRestaurant returns all bookings taken at a restaurant.  The
// caller is responsible for verifying restaurant ownership first.
func (r *BookingRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE restaurant_id = ? ORDER BY date DESC, created_at DESC`
	return r.list(ctx, q, restaurantID)
}

func (r *BookingRepo) list(ctx context.Context, query string, arg any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func scanBooking(row rowScanner) (*model.Booking, error) {
	var b model.Booking
	var date time.Time
	var status string
	err := row.Scan(&b.ID, &b.UserID, &b.RestaurantID, &b.TimeSlotID, &b.TableID,
		&b.Guests, &date, &status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Date = date.Format("2006-01-02")
	b.Status = model.BookingStatus(status)
	return &b, nil
}
