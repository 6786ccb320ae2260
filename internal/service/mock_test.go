package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// newMockDB returns a sqlmock-backed database handle for service tests.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var (
	restaurantCols = []string{"id", "owner_id", "name", "description", "cuisine_types", "rating",
		"cost_for_two", "image_url", "is_vegetarian", "location", "opening_time", "closing_time",
		"is_active", "created_at", "updated_at"}
	timeSlotCols = []string{"id", "restaurant_id", "date", "start_time", "end_time",
		"is_available", "created_at", "updated_at"}
	tableCols = []string{"id", "restaurant_id", "table_number", "capacity",
		"is_active", "created_at", "updated_at"}
	bookingCols = []string{"id", "user_id", "restaurant_id", "time_slot_id", "table_id",
		"number_of_guests", "date", "status", "created_at", "updated_at"}
)

// restaurantRow builds a restaurant row with the given operating hours,
// matching the column order of the restaurants select list.
func restaurantRow(id, ownerID uint64, open, close string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(restaurantCols).
		AddRow(id, ownerID, "The Tandoor Room", nil, "Indian,Chinese", 4.2, 1200,
			nil, false, "Bangalore", open, close, true, now, now)
}

// timeSlotRow builds a single time slot row.  The date column carries a
// time.Time because the driver parses DATE columns.
func timeSlotRow(id, restaurantID uint64, date time.Time, start, end string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(timeSlotCols).
		AddRow(id, restaurantID, date, start, end, true, now, now)
}

// tableRow builds a single table row.
func tableRow(id, restaurantID uint64, number string, capacity uint32) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(tableCols).
		AddRow(id, restaurantID, number, capacity, true, now, now)
}
