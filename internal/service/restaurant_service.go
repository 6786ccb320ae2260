package service

import (
	"context"
	"errors"

	"github.com/dinehall/restaurant-table-booking/internal/model"
	"github.com/dinehall/restaurant-table-booking/internal/repository"
)

// RestaurantService manages the restaurant records owned by restaurant
// owners.  Every mutating operation is scoped to the owner; operating
// hours are validated as clock strings with opening strictly before
// closing.
type RestaurantService struct {
	restaurants *repository.RestaurantRepo
}

// NewRestaurantService constructs a RestaurantService.
func NewRestaurantService(restaurants *repository.RestaurantRepo) *RestaurantService {
	if restaurants == nil {
		panic("nil repository passed to NewRestaurantService")
	}
	return &RestaurantService{restaurants: restaurants}
}

// Create registers a new restaurant under ownerID.  The restaurant is
// created active.
func (s *RestaurantService) Create(ctx context.Context, ownerID uint64, res *model.Restaurant) (*model.Restaurant, error) {
	if err := validateRestaurant(res); err != nil {
		return nil, err
	}
	res.OwnerID = ownerID
	res.IsActive = true
	if err := s.restaurants.Create(ctx, res); err != nil {
		return nil, internal("failed to create restaurant", err)
	}
	return res, nil
}

// Get retrieves a restaurant by ID.
func (s *RestaurantService) Get(ctx context.Context, id uint64) (*model.Restaurant, error) {
	res, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, notFound("restaurant not found", err)
		}
		return nil, internal("failed to load restaurant", err)
	}
	return res, nil
}

// ListForOwner returns the restaurants managed by ownerID.
func (s *RestaurantService) ListForOwner(ctx context.Context, ownerID uint64) ([]model.Restaurant, error) {
	out, err := s.restaurants.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, internal("failed to load restaurants", err)
	}
	return out, nil
}

// Update rewrites the mutable fields of a restaurant owned by ownerID.
func (s *RestaurantService) Update(ctx context.Context, ownerID uint64, res *model.Restaurant) (*model.Restaurant, error) {
	if err := validateRestaurant(res); err != nil {
		return nil, err
	}
	err := s.restaurants.Update(ctx, ownerID, res)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, notFound("restaurant not found", err)
		}
		return nil, internal("failed to update restaurant", err)
	}
	return s.Get(ctx, res.ID)
}

// SetActive opens or closes a restaurant for booking without touching
// its slots or tables.
func (s *RestaurantService) SetActive(ctx context.Context, ownerID, restaurantID uint64, active bool) error {
	err := s.restaurants.SetActive(ctx, restaurantID, ownerID, active)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return notFound("restaurant not found", err)
		}
		return internal("failed to update restaurant", err)
	}
	return nil
}

// Delete removes a restaurant and everything under it: bookings,
// allocations, time slots and tables go in the same transaction.
func (s *RestaurantService) Delete(ctx context.Context, ownerID, restaurantID uint64) error {
	err := s.restaurants.DeleteCascade(ctx, restaurantID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return notFound("restaurant not found", err)
		}
		return internal("failed to delete restaurant", err)
	}
	return nil
}

// validateRestaurant checks the invariants every stored restaurant must
// satisfy: a name, at least one cuisine tag, and well-formed operating
// hours with opening before closing.
func validateRestaurant(res *model.Restaurant) error {
	if res.Name == "" {
		return invalid("restaurant name must not be empty")
	}
	if len(res.CuisineTypes) == 0 {
		return invalid("restaurant must have at least one cuisine type")
	}
	open, err := parseClock(res.OpeningTime)
	if err != nil {
		return invalid("malformed opening time, want HH:MM")
	}
	closeAt, err := parseClock(res.ClosingTime)
	if err != nil {
		return invalid("malformed closing time, want HH:MM")
	}
	if open >= closeAt {
		return invalid("opening time must be before closing time")
	}
	return nil
}
