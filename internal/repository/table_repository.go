package repository

import (
	"context"
	"database/sql"

	"github.com/dinehall/restaurant-table-booking/internal/model"
)

const tableColumns = `id, restaurant_id, table_number, capacity, is_active, created_at, updated_at`

// TableRepo manages persistence for restaurant tables, including the
// availability queries that join tables against allocations.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo constructs a TableRepo with the given DB handle.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// Create inserts a new table and assigns the generated ID back to the
// struct.  A duplicate table number within the restaurant returns
// ErrTableNumberExists via the unique key.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	const q = `INSERT INTO tables (restaurant_id, table_number, capacity, is_active) VALUES (?, ?, ?, ?)`
	out, err := r.db.ExecContext(ctx, q, t.RestaurantID, t.TableNumber, t.Capacity, t.IsActive)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrTableNumberExists
		}
		return err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID retrieves a table scoped to its restaurant.  It returns
// ErrTableNotFound when no row matches; a table that exists in another
// restaurant is indistinguishable from absence.
func (r *TableRepo) GetByID(ctx context.Context, restaurantID, tableID uint64) (*model.Table, error) {
	const q = `SELECT ` + tableColumns + ` FROM tables WHERE id = ? AND restaurant_id = ?`
	var t model.Table
	err := r.db.QueryRowContext(ctx, q, tableID, restaurantID).Scan(
		&t.ID, &t.RestaurantID, &t.TableNumber, &t.Capacity, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByRestaurant returns all tables of a restaurant ordered by their
// number so listings are stable between calls.
func (r *TableRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
	const q = `SELECT ` + tableColumns + ` FROM tables WHERE restaurant_id = ? ORDER BY table_number`
	rows, err := r.db.QueryContext(ctx, q, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Table
	for rows.Next() {
		var t model.Table
		if err := rows.Scan(&t.ID, &t.RestaurantID, &t.TableNumber, &t.Capacity,
			&t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a table.  It returns
// ErrTableNotFound when no row matches.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
	const q = `UPDATE tables SET table_number = ?, capacity = ?, is_active = ? WHERE id = ? AND restaurant_id = ?`
	out, err := r.db.ExecContext(ctx, q, t.TableNumber, t.Capacity, t.IsActive, t.ID, t.RestaurantID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrTableNumberExists
		}
		return err
	}
	n, err := out.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTableNotFound
	}
	return nil
}

// Delete removes a table unless any allocation references it.  The
// existence check and the delete run in one transaction so a booking
// landing in between cannot orphan an allocation.
func (r *TableRepo) Delete(ctx context.Context, restaurantID, tableID uint64) error {
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

	var allocated uint64
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM table_allocations WHERE table_id = ?`, tableID).Scan(&allocated)
	if err != nil {
		return err
	}
	if allocated > 0 {
		return ErrTableInUse
	}
	out, err := tx.ExecContext(ctx,
		`DELETE FROM tables WHERE id = ? AND restaurant_id = ?`, tableID, restaurantID)
	if err != nil {
		return err
	}
	n, err := out.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTableNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListWithStatus returns every active table of the restaurant together
// with its occupancy for the given time slot and date.  The query
// left-joins allocations on (table_id, time_slot_id) and, when an
// allocation exists, the confirmed booking for the requested date along
// with its customer.  Rows are ordered by table number.
func (r *TableRepo) ListWithStatus(ctx context.Context, restaurantID, timeSlotID uint64, date string) ([]model.TableStatus, error) {
	const q = `SELECT t.id, t.restaurant_id, t.table_number, t.capacity, t.is_active, t.created_at, t.updated_at,
		ta.id, ta.kind, b.id, u.full_name, u.email, b.number_of_guests, ts.start_time
		FROM tables t
		LEFT JOIN table_allocations ta ON ta.table_id = t.id AND ta.time_slot_id = ?
		LEFT JOIN bookings b ON b.id = ta.booking_id AND b.date = ? AND b.status = 'confirmed'
		LEFT JOIN users u ON u.id = b.user_id
		LEFT JOIN time_slots ts ON ts.id = b.time_slot_id
		WHERE t.restaurant_id = ? AND t.is_active = 1
		ORDER BY t.table_number`
	rows, err := r.db.QueryContext(ctx, q, timeSlotID, date, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TableStatus
	for rows.Next() {
		var (
			st        model.TableStatus
			allocID   sql.NullInt64
			allocKind sql.NullString
			bookingID sql.NullInt64
			name      sql.NullString
			email     sql.NullString
			guests    sql.NullInt64
			start     sql.NullString
		)
		if err := rows.Scan(&st.Table.ID, &st.Table.RestaurantID, &st.Table.TableNumber,
			&st.Table.Capacity, &st.Table.IsActive, &st.Table.CreatedAt, &st.Table.UpdatedAt,
			&allocID, &allocKind, &bookingID, &name, &email, &guests, &start); err != nil {
			return nil, err
		}
		switch {
		case !allocID.Valid:
			st.Occupancy = model.OccupancyFree
		case bookingID.Valid:
			st.Occupancy = model.OccupancyBooked
			st.Occupant = &model.OccupantDetails{
				CustomerName:  name.String,
				CustomerEmail: email.String,
				BookingTime:   clockHHMM(start.String),
				Guests:        uint32(guests.Int64),
			}
		default:
			// Allocation without a matching confirmed booking: an admin
			// hold, or a booking filtered out by date/status.
			st.Occupancy = model.OccupancyAdminHeld
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// ListAvailable returns tables of the restaurant that seat at least
// minCapacity guests, are active, and carry no allocation for the time
// slot.  Admin holds are allocations too, so held tables never appear.
// The result ordering by table number makes repeated reads identical
// when no writes intervene.
func (r *TableRepo) ListAvailable(ctx context.Context, restaurantID, timeSlotID uint64, minCapacity uint32) ([]model.Table, error) {
	const q = `SELECT t.id, t.restaurant_id, t.table_number, t.capacity, t.is_active, t.created_at, t.updated_at
		FROM tables t
		LEFT JOIN table_allocations ta ON ta.table_id = t.id AND ta.time_slot_id = ?
		WHERE t.restaurant_id = ? AND t.capacity >= ? AND t.is_active = 1 AND ta.id IS NULL
		ORDER BY t.table_number`
	rows, err := r.db.QueryContext(ctx, q, timeSlotID, restaurantID, minCapacity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Table
	for rows.Next() {
		var t model.Table
		if err := rows.Scan(&t.ID, &t.RestaurantID, &t.TableNumber, &t.Capacity,
			&t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// clockHHMM trims a TIME column value ("HH:MM:SS") down to "HH:MM".
func clockHHMM(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}
