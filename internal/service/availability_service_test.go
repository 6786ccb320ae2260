package service

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinehall/restaurant-table-booking/internal/model"
	"github.com/dinehall/restaurant-table-booking/internal/repository"
)

func newAvailabilityService(t *testing.T) (*AvailabilityService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	svc := NewAvailabilityService(repository.NewTableRepo(db), repository.NewTimeSlotRepo(db), nil)
	return svc, mock
}

var tableStatusCols = []string{"id", "restaurant_id", "table_number", "capacity", "is_active",
	"created_at", "updated_at", "alloc_id", "kind", "booking_id", "full_name", "email",
	"number_of_guests", "start_time"}

func TestTablesForSlot(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("classifies free, booked and held tables", func(t *testing.T) {
		svc, mock := newAvailabilityService(t)
		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta(`FROM time_slots WHERE id = ? AND restaurant_id = ?`)).
			WithArgs(12, 7).
			WillReturnRows(timeSlotRow(12, 7, day, "19:00:00", "20:00:00"))
		mock.ExpectQuery(regexp.QuoteMeta(`LEFT JOIN table_allocations ta ON ta.table_id = t.id AND ta.time_slot_id = ?`)).
			WithArgs(12, "2026-09-01", 7).
			WillReturnRows(sqlmock.NewRows(tableStatusCols).
				AddRow(5, 7, "T1", 4, true, now, now, nil, nil, nil, nil, nil, nil, nil).
				AddRow(6, 7, "T2", 2, true, now, now, 61, "BOOKING", 31, "Asha Rao", "asha@example.com", 2, "19:00:00").
				AddRow(8, 7, "T3", 6, true, now, now, 62, "ADMIN_HOLD", nil, nil, nil, nil, nil))

		statuses, err := svc.TablesForSlot(ctx, 7, 12, "2026-09-01")
		require.NoError(t, err)
		require.Len(t, statuses, 3)

		assert.Equal(t, model.OccupancyFree, statuses[0].Occupancy)
		assert.Nil(t, statuses[0].Occupant)

		assert.Equal(t, model.OccupancyBooked, statuses[1].Occupancy)
		require.NotNil(t, statuses[1].Occupant)
		assert.Equal(t, "Asha Rao", statuses[1].Occupant.CustomerName)
		assert.Equal(t, "asha@example.com", statuses[1].Occupant.CustomerEmail)
		assert.Equal(t, "19:00", statuses[1].Occupant.BookingTime)
		assert.Equal(t, uint32(2), statuses[1].Occupant.Guests)

		assert.Equal(t, model.OccupancyAdminHeld, statuses[2].Occupancy)
		assert.Nil(t, statuses[2].Occupant, "held tables expose no occupant")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("date differing from the slot date fails validation", func(t *testing.T) {
		svc, mock := newAvailabilityService(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM time_slots WHERE id = ? AND restaurant_id = ?`)).
			WithArgs(12, 7).
			WillReturnRows(timeSlotRow(12, 7, day, "19:00:00", "20:00:00"))

		_, err := svc.TablesForSlot(ctx, 7, 12, "2026-09-02")
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing slot reads as not found", func(t *testing.T) {
		svc, mock := newAvailabilityService(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM time_slots WHERE id = ? AND restaurant_id = ?`)).
			WithArgs(99, 7).
			WillReturnError(sql.ErrNoRows)

		_, err := svc.TablesForSlot(ctx, 7, 99, "2026-09-01")
		require.Error(t, err)
		assert.Equal(t, KindNotFound, KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAvailableTables(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("returns unallocated tables ordered by number", func(t *testing.T) {
		svc, mock := newAvailabilityService(t)
		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta(`FROM time_slots WHERE id = ? AND restaurant_id = ?`)).
			WithArgs(12, 7).
			WillReturnRows(timeSlotRow(12, 7, day, "19:00:00", "20:00:00"))
		mock.ExpectQuery(regexp.QuoteMeta(`AND ta.id IS NULL`)).
			WithArgs(12, 7, 4).
			WillReturnRows(sqlmock.NewRows(tableCols).
				AddRow(5, 7, "T1", 4, true, now, now).
				AddRow(8, 7, "T3", 6, true, now, now))

		tables, err := svc.AvailableTables(ctx, 7, 12, 4)
		require.NoError(t, err)
		require.Len(t, tables, 2)
		assert.Equal(t, "T1", tables[0].TableNumber)
		assert.Equal(t, "T3", tables[1].TableNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeated reads with no writes return the identical set", func(t *testing.T) {
		svc, mock := newAvailabilityService(t)
		now := time.Now()

		for i := 0; i < 2; i++ {
			mock.ExpectQuery(regexp.QuoteMeta(`FROM time_slots WHERE id = ? AND restaurant_id = ?`)).
				WithArgs(12, 7).
				WillReturnRows(timeSlotRow(12, 7, day, "19:00:00", "20:00:00"))
			mock.ExpectQuery(regexp.QuoteMeta(`AND ta.id IS NULL`)).
				WithArgs(12, 7, 2).
				WillReturnRows(sqlmock.NewRows(tableCols).
					AddRow(5, 7, "T1", 4, true, now, now).
					AddRow(6, 7, "T2", 2, true, now, now).
					AddRow(8, 7, "T3", 6, true, now, now))
		}

		first, err := svc.AvailableTables(ctx, 7, 12, 2)
		require.NoError(t, err)
		second, err := svc.AvailableTables(ctx, 7, 12, 2)
		require.NoError(t, err)
		assert.Equal(t, first, second, "same ordered set on every read until a write lands")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no free table yields an empty result, not an error", func(t *testing.T) {
		svc, mock := newAvailabilityService(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM time_slots WHERE id = ? AND restaurant_id = ?`)).
			WithArgs(12, 7).
			WillReturnRows(timeSlotRow(12, 7, day, "19:00:00", "20:00:00"))
		mock.ExpectQuery(regexp.QuoteMeta(`AND ta.id IS NULL`)).
			WithArgs(12, 7, 10).
			WillReturnRows(sqlmock.NewRows(tableCols))

		tables, err := svc.AvailableTables(ctx, 7, 12, 10)
		require.NoError(t, err)
		assert.Empty(t, tables)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
