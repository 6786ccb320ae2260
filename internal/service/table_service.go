package service

import (
	"context"
	"errors"

	"github.com/dinehall/restaurant-table-booking/internal/model"
	"github.com/dinehall/restaurant-table-booking/internal/repository"
)

// TableService manages the physical tables of a restaurant.  Mutations
// are owner-scoped; a table that ever received an allocation cannot be
// deleted.
type TableService struct {
	restaurants *repository.RestaurantRepo
	tables      *repository.TableRepo
}

// NewTableService constructs a TableService with the required repositories.
func NewTableService(restaurants *repository.RestaurantRepo, tables *repository.TableRepo) *TableService {
	if restaurants == nil || tables == nil {
		panic("nil repository passed to NewTableService")
	}
	return &TableService{restaurants: restaurants, tables: tables}
}

// CreateTable adds a table to a restaurant owned by ownerID.  Table
// numbers are unique within the restaurant.
func (s *TableService) CreateTable(ctx context.Context, ownerID, restaurantID uint64, tableNumber string, capacity uint32) (*model.Table, error) {
	if tableNumber == "" {
		return nil, invalid("table number must not be empty")
	}
	if capacity == 0 {
		return nil, invalid("table capacity must be positive")
	}
	if _, err := s.restaurants.GetByIDForOwner(ctx, restaurantID, ownerID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, notFound("restaurant not found", err)
		}
		return nil, internal("failed to load restaurant", err)
	}
	t := &model.Table{
		RestaurantID: restaurantID,
		TableNumber:  tableNumber,
		Capacity:     capacity,
		IsActive:     true,
	}
	if err := s.tables.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrTableNumberExists) {
			return nil, conflict("table number already exists in this restaurant", err)
		}
		return nil, internal("failed to create table", err)
	}
	return t, nil
}

// ListTables returns all tables of a restaurant ordered by table number.
func (s *TableService) ListTables(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
	out, err := s.tables.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, internal("failed to load tables", err)
	}
	return out, nil
}

// UpdateTable rewrites a table's number, capacity and active flag for a
// restaurant owned by ownerID.
func (s *TableService) UpdateTable(ctx context.Context, ownerID uint64, t *model.Table) (*model.Table, error) {
	if t.TableNumber == "" {
		return nil, invalid("table number must not be empty")
	}
	if t.Capacity == 0 {
		return nil, invalid("table capacity must be positive")
	}
	if _, err := s.restaurants.GetByIDForOwner(ctx, t.RestaurantID, ownerID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, notFound("restaurant not found", err)
		}
		return nil, internal("failed to load restaurant", err)
	}
	err := s.tables.Update(ctx, t)
	switch {
	case err == nil:
		return t, nil
	case errors.Is(err, repository.ErrTableNotFound):
		return nil, notFound("table not found", err)
	case errors.Is(err, repository.ErrTableNumberExists):
		return nil, conflict("table number already exists in this restaurant", err)
	default:
		return nil, internal("failed to update table", err)
	}
}

// DeleteTable removes a table from a restaurant owned by ownerID.
// Tables with allocations, current or past, are refused.
func (s *TableService) DeleteTable(ctx context.Context, ownerID, restaurantID, tableID uint64) error {
	if _, err := s.restaurants.GetByIDForOwner(ctx, restaurantID, ownerID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return notFound("restaurant not found", err)
		}
		return internal("failed to load restaurant", err)
	}
	err := s.tables.Delete(ctx, restaurantID, tableID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrTableInUse):
		return conflict("cannot delete a table with existing allocations", err)
	case errors.Is(err, repository.ErrTableNotFound):
		return notFound("table not found", err)
	default:
		return internal("failed to delete table", err)
	}
}
