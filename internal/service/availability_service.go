package service

import (
	"context"
	"errors"

	"github.com/dinehall/restaurant-table-booking/internal/cache"
	"github.com/dinehall/restaurant-table-booking/internal/model"
	"github.com/dinehall/restaurant-table-booking/internal/repository"
)

// AvailabilityService answers "what is free" for a restaurant and time
// slot.  Occupancy is derived solely from allocation rows: no
// allocation means free, an allocation without a matching confirmed
// booking is an admin hold, and an allocation with one is booked.
// Results may be served from the availability cache when configured.
type AvailabilityService struct {
	tables *repository.TableRepo
	slots  *repository.TimeSlotRepo
	cache  *cache.Availability // optional, nil disables caching
}

// NewAvailabilityService constructs an AvailabilityService.  The cache
// may be nil.
func NewAvailabilityService(tables *repository.TableRepo, slots *repository.TimeSlotRepo, availCache *cache.Availability) *AvailabilityService {
	if tables == nil || slots == nil {
		panic("nil repository passed to NewAvailabilityService")
	}
	return &AvailabilityService{tables: tables, slots: slots, cache: availCache}
}

// TablesForSlot returns every active table of the restaurant with its
// occupancy for the given slot and date, attaching occupant details to
// booked tables.  The slot must belong to the restaurant and the date
// must be the slot's own date; allocations are per slot, so a different
// date would only produce a misleading answer that allocation writes
// could never invalidate, since they invalidate under the slot's date.
func (s *AvailabilityService) TablesForSlot(ctx context.Context, restaurantID, timeSlotID uint64, date string) ([]model.TableStatus, error) {
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
	if date != slot.Date {
		return nil, invalid("date must match the time slot date")
	}
	if cached, ok := s.cache.GetTableStatuses(ctx, restaurantID, timeSlotID, date); ok {
		return cached, nil
	}
	statuses, err := s.tables.ListWithStatus(ctx, restaurantID, timeSlotID, date)
	if err != nil {
		return nil, internal("failed to resolve table statuses", err)
	}
	s.cache.SetTableStatuses(ctx, restaurantID, timeSlotID, date, statuses)
	return statuses, nil
}

// AvailableTables returns the tables of the restaurant that seat at
// least minCapacity guests and carry no allocation for the slot.  The
// booking path uses this to validate choices before allocating; two
// calls with no intervening writes return the identical ordered set.
func (s *AvailabilityService) AvailableTables(ctx context.Context, restaurantID, timeSlotID uint64, minCapacity uint32) ([]model.Table, error) {
	if _, err := s.slots.GetByID(ctx, restaurantID, timeSlotID); err != nil {
		if errors.Is(err, repository.ErrTimeSlotNotFound) {
			return nil, notFound("time slot not found", err)
		}
		return nil, internal("failed to load time slot", err)
	}
	tables, err := s.tables.ListAvailable(ctx, restaurantID, timeSlotID, minCapacity)
	if err != nil {
		return nil, internal("failed to list available tables", err)
	}
	return tables, nil
}
