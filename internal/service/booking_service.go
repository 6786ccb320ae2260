package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/dinehall/restaurant-table-booking/internal/cache"
	"github.com/dinehall/restaurant-table-booking/internal/model"
	"github.com/dinehall/restaurant-table-booking/internal/queue"
	"github.com/dinehall/restaurant-table-booking/internal/repository"
)

// BookingService is the allocation engine and booking lifecycle
// manager.  Creating a booking inserts the booking row and its table
// allocation in one transaction; the pre-insert conflict check takes a
// row lock and the unique key on (table_id, time_slot_id) backs it up,
// so of two concurrent requests for the same pair exactly one commits.
type BookingService struct {
	restaurants *repository.RestaurantRepo
	tables      *repository.TableRepo
	slots       *repository.TimeSlotRepo
	bookings    *repository.BookingRepo
	allocations *repository.AllocationRepo
	cache       *cache.Availability // optional, nil disables invalidation

	// publish sends the post-commit booking event.  Overridable in tests.
	publish func(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// NewBookingService constructs a BookingService with the required
// repositories.  The cache may be nil.
func NewBookingService(
	restaurants *repository.RestaurantRepo,
	tables *repository.TableRepo,
	slots *repository.TimeSlotRepo,
	bookings *repository.BookingRepo,
	allocations *repository.AllocationRepo,
	availCache *cache.Availability,
) *BookingService {
	if restaurants == nil || tables == nil || slots == nil || bookings == nil || allocations == nil {
		panic("nil repository passed to NewBookingService")
	}
	return &BookingService{
		restaurants: restaurants,
		tables:      tables,
		slots:       slots,
		bookings:    bookings,
		allocations: allocations,
		cache:       availCache,
		publish:     queue.PublishBookingConfirmed,
	}
}

// CreateBooking reserves tableID for timeSlotID on behalf of userID.
// Preconditions are checked in order, each with its own failure mode:
// the slot must belong to the restaurant, the table must belong to the
// restaurant, and no allocation may exist for the pair.  The booking
// and its allocation are inserted in one transaction; both persist or
// neither does.  A failed attempt leaves no state behind and the caller
// may retry with a different table or slot.
func (s *BookingService) CreateBooking(ctx context.Context, userID, restaurantID, timeSlotID, tableID uint64, guests uint32, date string) (*model.Booking, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	slot, err := s.slots.GetByID(ctx, restaurantID, timeSlotID)
	if err != nil {
		if errors.Is(err, repository.ErrTimeSlotNotFound) {
			return nil, notFound("time slot not found", err)
		}
		return nil, internal("failed to load time slot", err)
	}
	table, err := s.tables.GetByID(ctx, restaurantID, tableID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return nil, notFound("table not found", err)
		}
		return nil, internal("failed to load table", err)
	}

	if guests == 0 {
		return nil, invalid("guest count must be positive")
	}
	if guests > table.Capacity {
		return nil, invalid("guest count exceeds table capacity")
	}
	if date != slot.Date {
		return nil, invalid("booking date must match the time slot date")
	}

	tx, err := s.restaurants.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, internal("failed to start transaction", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	allocated, err := s.allocations.ExistsForUpdateTx(ctx, tx, tableID, timeSlotID)
	if err != nil {
		return nil, internal("failed to check table allocation", err)
	}
	if allocated {
		return nil, conflict("table is already booked for this time slot", repository.ErrTableAllocated)
	}

	booking := &model.Booking{
		UserID:       userID,
		RestaurantID: restaurantID,
		TimeSlotID:   timeSlotID,
		TableID:      tableID,
		Guests:       guests,
		Date:         date,
		Status:       model.BookingConfirmed,
	}
	if err := s.bookings.CreateTx(ctx, tx, booking); err != nil {
		return nil, internal("failed to create booking", err)
	}
	alloc := &model.TableAllocation{
		BookingID:  &booking.ID,
		TableID:    tableID,
		TimeSlotID: timeSlotID,
		Kind:       model.AllocationBooking,
	}
	if err := s.allocations.CreateTx(ctx, tx, alloc); err != nil {
		if errors.Is(err, repository.ErrTableAllocated) {
			// A concurrent booking won the unique-key race; the rollback
			// removes our booking row.
			return nil, conflict("table is already booked for this time slot", err)
		}
		return nil, internal("failed to create table allocation", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, internal("failed to commit transaction", err)
	}
	committed = true

	s.cache.InvalidateSlot(ctx, restaurantID, timeSlotID, date)
	s.publishConfirmed(ctx, booking, table, slot)
	return booking, nil
}

// AdminReserveTable places an owner hold on a table for a slot: an
// unpaired allocation that blocks customer bookings.  The same conflict
// rules apply as for bookings: one allocation per (table, slot).
func (s *BookingService) AdminReserveTable(ctx context.Context, ownerID, restaurantID, timeSlotID, tableID uint64) (*model.TableAllocation, error) {
	if _, err := s.restaurants.GetByIDForOwner(ctx, restaurantID, ownerID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, notFound("restaurant not found", err)
		}
		return nil, internal("failed to load restaurant", err)
	}
	slot, err := s.slots.GetByID(ctx, restaurantID, timeSlotID)
	if err != nil {
		if errors.Is(err, repository.ErrTimeSlotNotFound) {
			return nil, notFound("time slot not found", err)
		}
		return nil, internal("failed to load time slot", err)
	}
	if _, err := s.tables.GetByID(ctx, restaurantID, tableID); err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return nil, notFound("table not found", err)
		}
		return nil, internal("failed to load table", err)
	}

	tx, err := s.restaurants.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, internal("failed to start transaction", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	allocated, err := s.allocations.ExistsForUpdateTx(ctx, tx, tableID, timeSlotID)
	if err != nil {
		return nil, internal("failed to check table allocation", err)
	}
	if allocated {
		return nil, conflict("table is already allocated for this time slot", repository.ErrTableAllocated)
	}
	alloc := &model.TableAllocation{
		TableID:    tableID,
		TimeSlotID: timeSlotID,
		Kind:       model.AllocationAdminHold,
	}
	if err := s.allocations.CreateTx(ctx, tx, alloc); err != nil {
		if errors.Is(err, repository.ErrTableAllocated) {
			return nil, conflict("table is already allocated for this time slot", err)
		}
		return nil, internal("failed to create table allocation", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, internal("failed to commit transaction", err)
	}
	committed = true

	s.cache.InvalidateSlot(ctx, restaurantID, timeSlotID, slot.Date)
	return alloc, nil
}

// UpdateStatus transitions a booking's status on behalf of the owner of
// its restaurant.  A booking under another owner's restaurant is
// reported as not found.  Transitioning to cancelled releases the
// paired allocation in the same transaction, freeing the table for the
// slot.  Cancelled is terminal: the allocation is gone and the table
// may already belong to someone else, so transitions out of cancelled
// are rejected rather than leaving a confirmed booking without its
// allocation.
func (s *BookingService) UpdateStatus(ctx context.Context, ownerID, bookingID uint64, status model.BookingStatus) (*model.Booking, error) {
	switch status {
	case model.BookingConfirmed, model.BookingCancelled, model.BookingCompleted, model.BookingNoShow:
	default:
		return nil, invalid("unknown booking status")
	}

	tx, err := s.restaurants.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, internal("failed to start transaction", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := s.bookings.GetByIDForOwnerTx(ctx, tx, bookingID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, notFound("booking not found", err)
		}
		return nil, internal("failed to load booking", err)
	}
	if booking.Status == model.BookingCancelled && status != model.BookingCancelled {
		return nil, conflict("cancelled bookings cannot be reinstated", nil)
	}
	if err := s.bookings.UpdateStatusTx(ctx, tx, bookingID, status); err != nil {
		return nil, internal("failed to update booking status", err)
	}
	if status == model.BookingCancelled && booking.Status != model.BookingCancelled {
		if err := s.allocations.DeleteByBookingTx(ctx, tx, bookingID); err != nil {
			return nil, internal("failed to release table allocation", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, internal("failed to commit transaction", err)
	}
	committed = true

	s.cache.InvalidateSlot(ctx, booking.RestaurantID, booking.TimeSlotID, booking.Date)
	booking.Status = status
	return booking, nil
}

// ListForUser returns the bookings of a user, most recent date first,
// then most recently created first.
func (s *BookingService) ListForUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	out, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, internal("failed to load bookings", err)
	}
	return out, nil
}

// ListForRestaurant returns the bookings of a restaurant owned by
// ownerID; ownership failures report as not found.
func (s *BookingService) ListForRestaurant(ctx context.Context, restaurantID, ownerID uint64) ([]model.Booking, error) {
	if _, err := s.restaurants.GetByIDForOwner(ctx, restaurantID, ownerID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, notFound("restaurant not found", err)
		}
		return nil, internal("failed to load restaurant", err)
	}
	out, err := s.bookings.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, internal("failed to load bookings", err)
	}
	return out, nil
}

// publishConfirmed emits the booking.confirmed event.  Publication is
// best effort: a broker failure is logged and never undoes a committed
// booking.
func (s *BookingService) publishConfirmed(ctx context.Context, b *model.Booking, table *model.Table, slot *model.TimeSlot) {
	ev := queue.BookingConfirmedEvent{
		BookingID:    b.ID,
		UserID:       b.UserID,
		RestaurantID: b.RestaurantID,
		TimeSlotID:   b.TimeSlotID,
		TableID:      b.TableID,
		TableNumber:  table.TableNumber,
		Date:         b.Date,
		StartTime:    slot.StartTime,
		EndTime:      slot.EndTime,
		Guests:       b.Guests,
		ConfirmedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.publish(ctx, ev); err != nil {
		log.Printf("booking: publish confirmed event failed: %v", err)
	}
}
