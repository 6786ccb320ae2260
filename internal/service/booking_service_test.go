package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinehall/restaurant-table-booking/internal/model"
	"github.com/dinehall/restaurant-table-booking/internal/queue"
	"github.com/dinehall/restaurant-table-booking/internal/repository"
)

func newBookingService(t *testing.T) (*BookingService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	svc := NewBookingService(
		repository.NewRestaurantRepo(db),
		repository.NewTableRepo(db),
		repository.NewTimeSlotRepo(db),
		repository.NewBookingRepo(db),
		repository.NewAllocationRepo(db),
		nil,
	)
	svc.publish = func(ctx context.Context, ev queue.BookingConfirmedEvent) error { return nil }
	return svc, mock
}

// expectSlotAndTable queues the precondition lookups every booking
// attempt performs: the slot and the table, both restaurant scoped.
func expectSlotAndTable(mock sqlmock.Sqlmock, day time.Time, capacity uint32) {
	mock.ExpectQuery(regexp.QuoteMeta(`FROM time_slots WHERE id = ? AND restaurant_id = ?`)).
		WithArgs(12, 7).
		WillReturnRows(timeSlotRow(12, 7, day, "19:00:00", "20:00:00"))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM tables WHERE id = ? AND restaurant_id = ?`)).
		WithArgs(5, 7).
		WillReturnRows(tableRow(5, 7, "T1", capacity))
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("booking and allocation commit together", func(t *testing.T) {
		svc, mock := newBookingService(t)
		var published *queue.BookingConfirmedEvent
		svc.publish = func(ctx context.Context, ev queue.BookingConfirmedEvent) error {
			published = &ev
			return nil
		}

		expectSlotAndTable(mock, day, 4)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM table_allocations WHERE table_id = ? AND time_slot_id = ? FOR UPDATE`)).
			WithArgs(5, 12).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO bookings`)).
			WithArgs(9, 7, 12, 5, 2, "2026-09-01", "confirmed").
			WillReturnResult(sqlmock.NewResult(31, 1))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM bookings WHERE id = ?`)).
			WithArgs(31).
			WillReturnRows(sqlmock.NewRows(bookingCols).
				AddRow(31, 9, 7, 12, 5, 2, day, "confirmed", day, day))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO table_allocations`)).
			WithArgs(31, 5, 12, "BOOKING").
			WillReturnResult(sqlmock.NewResult(61, 1))
		mock.ExpectCommit()

		booking, err := svc.CreateBooking(ctx, 9, 7, 12, 5, 2, "2026-09-01")
		require.NoError(t, err)
		assert.Equal(t, uint64(31), booking.ID)
		assert.Equal(t, model.BookingConfirmed, booking.Status)

		require.NotNil(t, published, "committed booking must publish an event")
		assert.Equal(t, uint64(31), published.BookingID)
		assert.Equal(t, "T1", published.TableNumber)
		assert.Equal(t, "19:00", published.StartTime)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing allocation conflicts before any insert", func(t *testing.T) {
		svc, mock := newBookingService(t)

		expectSlotAndTable(mock, day, 4)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM table_allocations WHERE table_id = ? AND time_slot_id = ? FOR UPDATE`)).
			WithArgs(5, 12).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(61))
		mock.ExpectRollback()

		_, err := svc.CreateBooking(ctx, 9, 7, 12, 5, 2, "2026-09-01")
		require.Error(t, err)
		assert.Equal(t, KindConflict, KindOf(err))
		assert.ErrorIs(t, err, repository.ErrTableAllocated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("losing the unique key race conflicts and rolls back", func(t *testing.T) {
		svc, mock := newBookingService(t)

		expectSlotAndTable(mock, day, 4)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM table_allocations WHERE table_id = ? AND time_slot_id = ? FOR UPDATE`)).
			WithArgs(5, 12).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO bookings`)).
			WillReturnResult(sqlmock.NewResult(31, 1))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM bookings WHERE id = ?`)).
			WithArgs(31).
			WillReturnRows(sqlmock.NewRows(bookingCols).
				AddRow(31, 9, 7, 12, 5, 2, day, "confirmed", day, day))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO table_allocations`)).
			WillReturnError(fmt.Errorf("Error 1062 (23000): Duplicate entry '5-12' for key 'uq_table_slot'"))
		mock.ExpectRollback()

		_, err := svc.CreateBooking(ctx, 9, 7, 12, 5, 2, "2026-09-01")
		require.Error(t, err)
		assert.Equal(t, KindConflict, KindOf(err))
		assert.ErrorIs(t, err, repository.ErrTableAllocated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("allocation failure rolls back the booking insert", func(t *testing.T) {
		svc, mock := newBookingService(t)
		svc.publish = func(ctx context.Context, ev queue.BookingConfirmedEvent) error {
			t.Fatal("failed booking must not publish an event")
			return nil
		}

		expectSlotAndTable(mock, day, 4)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM table_allocations WHERE table_id = ? AND time_slot_id = ? FOR UPDATE`)).
			WithArgs(5, 12).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO bookings`)).
			WillReturnResult(sqlmock.NewResult(31, 1))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM bookings WHERE id = ?`)).
			WithArgs(31).
			WillReturnRows(sqlmock.NewRows(bookingCols).
				AddRow(31, 9, 7, 12, 5, 2, day, "confirmed", day, day))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO table_allocations`)).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		_, err := svc.CreateBooking(ctx, 9, 7, 12, 5, 2, "2026-09-01")
		require.Error(t, err)
		assert.Equal(t, KindInternal, KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("guest count above table capacity fails validation", func(t *testing.T) {
		svc, mock := newBookingService(t)

		expectSlotAndTable(mock, day, 4)

		_, err := svc.CreateBooking(ctx, 9, 7, 12, 5, 6, "2026-09-01")
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("date must match the slot date", func(t *testing.T) {
		svc, mock := newBookingService(t)

		expectSlotAndTable(mock, day, 4)

		_, err := svc.CreateBooking(ctx, 9, 7, 12, 5, 2, "2026-09-02")
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing slot reads as not found", func(t *testing.T) {
		svc, mock := newBookingService(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM time_slots WHERE id = ? AND restaurant_id = ?`)).
			WithArgs(12, 7).
			WillReturnError(sql.ErrNoRows)

		_, err := svc.CreateBooking(ctx, 9, 7, 12, 5, 2, "2026-09-01")
		require.Error(t, err)
		assert.Equal(t, KindNotFound, KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAdminReserveTable(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("hold blocks the pair without a booking", func(t *testing.T) {
		svc, mock := newBookingService(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM restaurants WHERE id = ? AND owner_id = ?`)).
			WithArgs(7, 3).
			WillReturnRows(restaurantRow(7, 3, "09:00:00", "22:00:00"))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM time_slots WHERE id = ? AND restaurant_id = ?`)).
			WithArgs(12, 7).
			WillReturnRows(timeSlotRow(12, 7, day, "19:00:00", "20:00:00"))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM tables WHERE id = ? AND restaurant_id = ?`)).
			WithArgs(5, 7).
			WillReturnRows(tableRow(5, 7, "T1", 4))
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM table_allocations WHERE table_id = ? AND time_slot_id = ? FOR UPDATE`)).
			WithArgs(5, 12).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO table_allocations`)).
			WithArgs(nil, 5, 12, "ADMIN_HOLD").
			WillReturnResult(sqlmock.NewResult(62, 1))
		mock.ExpectCommit()

		alloc, err := svc.AdminReserveTable(ctx, 3, 7, 12, 5)
		require.NoError(t, err)
		assert.Equal(t, uint64(62), alloc.ID)
		assert.Equal(t, model.AllocationAdminHold, alloc.Kind)
		assert.Nil(t, alloc.BookingID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("held table conflicts like a booked one", func(t *testing.T) {
		svc, mock := newBookingService(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM restaurants WHERE id = ? AND owner_id = ?`)).
			WithArgs(7, 3).
			WillReturnRows(restaurantRow(7, 3, "09:00:00", "22:00:00"))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM time_slots WHERE id = ? AND restaurant_id = ?`)).
			WithArgs(12, 7).
			WillReturnRows(timeSlotRow(12, 7, day, "19:00:00", "20:00:00"))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM tables WHERE id = ? AND restaurant_id = ?`)).
			WithArgs(5, 7).
			WillReturnRows(tableRow(5, 7, "T1", 4))
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM table_allocations WHERE table_id = ? AND time_slot_id = ? FOR UPDATE`)).
			WithArgs(5, 12).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(61))
		mock.ExpectRollback()

		_, err := svc.AdminReserveTable(ctx, 3, 7, 12, 5)
		require.Error(t, err)
		assert.Equal(t, KindConflict, KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("cancellation releases the allocation", func(t *testing.T) {
		svc, mock := newBookingService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`JOIN restaurants r ON r.id = b.restaurant_id`)).
			WithArgs(31, 3).
			WillReturnRows(sqlmock.NewRows(bookingCols).
				AddRow(31, 9, 7, 12, 5, 2, day, "confirmed", day, day))
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings SET status = ? WHERE id = ?`)).
			WithArgs("cancelled", 31).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM table_allocations WHERE booking_id = ?`)).
			WithArgs(31).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		booking, err := svc.UpdateStatus(ctx, 3, 31, model.BookingCancelled)
		require.NoError(t, err)
		assert.Equal(t, model.BookingCancelled, booking.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("completion keeps the allocation", func(t *testing.T) {
		svc, mock := newBookingService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`JOIN restaurants r ON r.id = b.restaurant_id`)).
			WithArgs(31, 3).
			WillReturnRows(sqlmock.NewRows(bookingCols).
				AddRow(31, 9, 7, 12, 5, 2, day, "confirmed", day, day))
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings SET status = ? WHERE id = ?`)).
			WithArgs("completed", 31).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		booking, err := svc.UpdateStatus(ctx, 3, 31, model.BookingCompleted)
		require.NoError(t, err)
		assert.Equal(t, model.BookingCompleted, booking.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancelled booking cannot be reinstated", func(t *testing.T) {
		svc, mock := newBookingService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`JOIN restaurants r ON r.id = b.restaurant_id`)).
			WithArgs(31, 3).
			WillReturnRows(sqlmock.NewRows(bookingCols).
				AddRow(31, 9, 7, 12, 5, 2, day, "cancelled", day, day))
		mock.ExpectRollback()

		// The allocation was released on cancellation; flipping the status
		// back would leave a confirmed booking without one, so no UPDATE
		// may run.
		_, err := svc.UpdateStatus(ctx, 3, 31, model.BookingConfirmed)
		require.Error(t, err)
		assert.Equal(t, KindConflict, KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancelling twice releases nothing twice", func(t *testing.T) {
		svc, mock := newBookingService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`JOIN restaurants r ON r.id = b.restaurant_id`)).
			WithArgs(31, 3).
			WillReturnRows(sqlmock.NewRows(bookingCols).
				AddRow(31, 9, 7, 12, 5, 2, day, "cancelled", day, day))
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings SET status = ? WHERE id = ?`)).
			WithArgs("cancelled", 31).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		booking, err := svc.UpdateStatus(ctx, 3, 31, model.BookingCancelled)
		require.NoError(t, err)
		assert.Equal(t, model.BookingCancelled, booking.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("booking under another owner reads as not found", func(t *testing.T) {
		svc, mock := newBookingService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`JOIN restaurants r ON r.id = b.restaurant_id`)).
			WithArgs(31, 99).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := svc.UpdateStatus(ctx, 99, 31, model.BookingCancelled)
		require.Error(t, err)
		assert.Equal(t, KindNotFound, KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown status fails validation", func(t *testing.T) {
		svc, mock := newBookingService(t)

		_, err := svc.UpdateStatus(ctx, 3, 31, model.BookingStatus("pending"))
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
