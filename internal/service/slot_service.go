package service

import (
	"context"
	"errors"
	"time"

	"github.com/dinehall/restaurant-table-booking/internal/model"
	"github.com/dinehall/restaurant-table-booking/internal/repository"
)

// DefaultSlotDuration is the slot length used when callers pass zero.
const DefaultSlotDuration = 60 // minutes

// SlotService derives and manages the bookable time slots of a
// restaurant.  Bulk generation walks the operating hours in fixed
// steps; single-slot creation validates the requested interval against
// the operating hours and existing slots.
type SlotService struct {
	restaurants *repository.RestaurantRepo
	slots       *repository.TimeSlotRepo
}

// NewSlotService constructs a SlotService with the required repositories.
func NewSlotService(restaurants *repository.RestaurantRepo, slots *repository.TimeSlotRepo) *SlotService {
	if restaurants == nil || slots == nil {
		panic("nil repository passed to NewSlotService")
	}
	return &SlotService{restaurants: restaurants, slots: slots}
}

// GenerateSlots creates the full set of slots for one restaurant and
// date: ordered, non-overlapping intervals covering the operating hours
// with no partial trailing slot, each persisted as available.  All
// inserts run in one transaction; a rerun for the same date trips the
// (restaurant, date, start_time) unique key and fails with a conflict
// rather than duplicating slots.  durationMin zero selects the default.
func (s *SlotService) GenerateSlots(ctx context.Context, ownerID, restaurantID uint64, date string, durationMin int) ([]model.TimeSlot, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if durationMin == 0 {
		durationMin = DefaultSlotDuration
	}
	if durationMin < 0 {
		return nil, invalid("slot duration must be positive")
	}

	rest, err := s.restaurants.GetByIDForOwner(ctx, restaurantID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, notFound("restaurant not found", err)
		}
		return nil, internal("failed to load restaurant", err)
	}

	openMin, err := parseClock(rest.OpeningTime)
	if err != nil {
		return nil, internal("restaurant has malformed opening time", err)
	}
	closeMin, err := parseClock(rest.ClosingTime)
	if err != nil {
		return nil, internal("restaurant has malformed closing time", err)
	}

	intervals := buildIntervals(openMin, closeMin, durationMin)
	slots := make([]model.TimeSlot, 0, len(intervals))
	for _, iv := range intervals {
		slots = append(slots, model.TimeSlot{
			RestaurantID: restaurantID,
			Date:         date,
			StartTime:    formatClock(iv.Start),
			EndTime:      formatClock(iv.End),
			IsAvailable:  true,
		})
	}
	if len(slots) == 0 {
		return []model.TimeSlot{}, nil
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
	if err := s.slots.CreateBulkTx(ctx, tx, slots); err != nil {
		if errors.Is(err, repository.ErrSlotExists) {
			return nil, conflict("time slots already generated for this date", err)
		}
		return nil, internal("failed to create time slots", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, internal("failed to commit transaction", err)
	}
	committed = true

	// Re-read to pick up generated IDs and timestamps.
	created, err := s.slots.ListByRestaurantDate(ctx, restaurantID, date)
	if err != nil {
		return nil, internal("failed to load generated slots", err)
	}
	return created, nil
}

// CreateSlot creates a single slot of the given duration starting at
// startTime.  The interval must lie within the restaurant's operating
// hours (an interval equal to the full operating window is allowed) and
// no slot may already exist at the same start.  durationMin zero
// selects the default.
func (s *SlotService) CreateSlot(ctx context.Context, ownerID, restaurantID uint64, date, startTime string, durationMin int) (*model.TimeSlot, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if durationMin == 0 {
		durationMin = DefaultSlotDuration
	}
	if durationMin < 0 {
		return nil, invalid("slot duration must be positive")
	}

	rest, err := s.restaurants.GetByIDForOwner(ctx, restaurantID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, notFound("restaurant not found", err)
		}
		return nil, internal("failed to load restaurant", err)
	}

	startMin, err := parseClock(startTime)
	if err != nil {
		return nil, invalid("malformed start time")
	}
	endMin := startMin + durationMin
	openMin, err := parseClock(rest.OpeningTime)
	if err != nil {
		return nil, internal("restaurant has malformed opening time", err)
	}
	closeMin, err := parseClock(rest.ClosingTime)
	if err != nil {
		return nil, internal("restaurant has malformed closing time", err)
	}
	if startMin < openMin || endMin > closeMin {
		return nil, conflict("time slot must be within restaurant operating hours", nil)
	}

	exists, err := s.slots.ExistsAt(ctx, restaurantID, date, formatClock(startMin))
	if err != nil {
		return nil, internal("failed to check existing slots", err)
	}
	if exists {
		return nil, conflict("time slot already exists", repository.ErrSlotExists)
	}

	slot := &model.TimeSlot{
		RestaurantID: restaurantID,
		Date:         date,
		StartTime:    formatClock(startMin),
		EndTime:      formatClock(endMin),
		IsAvailable:  true,
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		if errors.Is(err, repository.ErrSlotExists) {
			// Lost the race to a concurrent create; same outcome.
			return nil, conflict("time slot already exists", err)
		}
		return nil, internal("failed to create time slot", err)
	}
	return slot, nil
}

// ListSlots returns the slots of a restaurant for one date, ordered by
// start time.
func (s *SlotService) ListSlots(ctx context.Context, restaurantID uint64, date string) ([]model.TimeSlot, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	slots, err := s.slots.ListByRestaurantDate(ctx, restaurantID, date)
	if err != nil {
		return nil, internal("failed to load time slots", err)
	}
	return slots, nil
}

// DeleteSlot removes a slot of a restaurant owned by ownerID.  Slots
// with bookings cannot be deleted.
func (s *SlotService) DeleteSlot(ctx context.Context, ownerID, restaurantID, slotID uint64) error {
	if _, err := s.restaurants.GetByIDForOwner(ctx, restaurantID, ownerID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return notFound("restaurant not found", err)
		}
		return internal("failed to load restaurant", err)
	}
	err := s.slots.Delete(ctx, restaurantID, slotID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrSlotInUse):
		return conflict("cannot delete time slot with existing bookings", err)
	case errors.Is(err, repository.ErrTimeSlotNotFound):
		return notFound("time slot not found", err)
	default:
		return internal("failed to delete time slot", err)
	}
}

// validateDate checks the "YYYY-MM-DD" calendar date format.
func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return invalid("malformed date, want YYYY-MM-DD")
	}
	return nil
}
