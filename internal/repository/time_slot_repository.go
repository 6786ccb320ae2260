package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/dinehall/restaurant-table-booking/internal/model"
)

const timeSlotColumns = `id, restaurant_id, date, start_time, end_time, is_available, created_at, updated_at`

// TimeSlotRepo manages persistence for time slots.  DATE columns are
// scanned as time.Time (parseTime) and normalized to "YYYY-MM-DD"
// strings on the model.
type TimeSlotRepo struct {
	db *sql.DB
}

// NewTimeSlotRepo constructs a TimeSlotRepo with the given DB handle.
func NewTimeSlotRepo(db *sql.DB) *TimeSlotRepo { return &TimeSlotRepo{db: db} }

// Create inserts a single time slot and assigns the generated ID back
// to the struct.  The unique key on (restaurant_id, date, start_time)
// converts a duplicate into ErrSlotExists.
func (r *TimeSlotRepo) Create(ctx context.Context, s *model.TimeSlot) error {
	const q = `INSERT INTO time_slots (restaurant_id, date, start_time, end_time, is_available) VALUES (?, ?, ?, ?, ?)`
	out, err := r.db.ExecContext(ctx, q, s.RestaurantID, s.Date, s.StartTime, s.EndTime, s.IsAvailable)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrSlotExists
		}
		return err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// CreateBulkTx inserts multiple time slots in one statement within the
// provided transaction.  The caller must commit or roll back.  The ID
// fields of the passed slots are not populated.  Passing an empty slice
// has no effect and returns nil.
func (r *TimeSlotRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, slots []model.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}
	query := `INSERT INTO time_slots (restaurant_id, date, start_time, end_time, is_available) VALUES `
	args := make([]interface{}, 0, len(slots)*5)
	for i, s := range slots {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, s.RestaurantID, s.Date, s.StartTime, s.EndTime, s.IsAvailable)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	if isDuplicateKey(err) {
		return ErrSlotExists
	}
	return err
}

// GetByID retrieves a time slot scoped to its restaurant.  It returns
// ErrTimeSlotNotFound when no row matches; a slot belonging to another
// restaurant is indistinguishable from absence.
func (r *TimeSlotRepo) GetByID(ctx context.Context, restaurantID, slotID uint64) (*model.TimeSlot, error) {
	const q = `SELECT ` + timeSlotColumns + ` FROM time_slots WHERE id = ? AND restaurant_id = ?`
	s, err := scanTimeSlot(r.db.QueryRowContext(ctx, q, slotID, restaurantID))
	if err == sql.ErrNoRows {
		return nil, ErrTimeSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListByRestaurantDate returns the slots of a restaurant for one
// calendar date ordered by start time.
func (r *TimeSlotRepo) ListByRestaurantDate(ctx context.Context, restaurantID uint64, date string) ([]model.TimeSlot, error) {
	const q = `SELECT ` + timeSlotColumns + ` FROM time_slots WHERE restaurant_id = ? AND date = ? ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q, restaurantID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.TimeSlot
	for rows.Next() {
		s, err := scanTimeSlot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// ExistsAt reports whether a slot already exists for the same
// (restaurant, date, start_time).  The unique key remains the final
// arbiter; this check exists to produce a conflict without burning an
// insert attempt.
func (r *TimeSlotRepo) ExistsAt(ctx context.Context, restaurantID uint64, date, startTime string) (bool, error) {
	const q = `SELECT COUNT(*) FROM time_slots WHERE restaurant_id = ? AND date = ? AND start_time = ?`
	var n uint64
	if err := r.db.QueryRowContext(ctx, q, restaurantID, date, startTime).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes a time slot unless any booking references it.  The
// guard and the delete run in one transaction.
func (r *TimeSlotRepo) Delete(ctx context.Context, restaurantID, slotID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var booked uint64
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE time_slot_id = ?`, slotID).Scan(&booked)
	if err != nil {
		return err
	}
	if booked > 0 {
		return ErrSlotInUse
	}
	out, err := tx.ExecContext(ctx,
		`DELETE FROM time_slots WHERE id = ? AND restaurant_id = ?`, slotID, restaurantID)
	if err != nil {
		return err
	}
	n, err := out.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTimeSlotNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func scanTimeSlot(row rowScanner) (*model.TimeSlot, error) {
	var s model.TimeSlot
	var date time.Time
	err := row.Scan(&s.ID, &s.RestaurantID, &date, &s.StartTime, &s.EndTime,
		&s.IsAvailable, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Date = date.Format("2006-01-02")
	s.StartTime = clockHHMM(s.StartTime)
	s.EndTime = clockHHMM(s.EndTime)
	return &s, nil
}
