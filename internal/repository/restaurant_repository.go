package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dinehall/restaurant-table-booking/internal/model"
)

// restaurantColumns is the canonical select list for restaurants.
const restaurantColumns = `id, owner_id, name, description, cuisine_types, rating, cost_for_two,
	image_url, is_vegetarian, location, opening_time, closing_time, is_active, created_at, updated_at`

// RestaurantRepo manages persistence for restaurants.  Cuisine tags are
// stored as a comma-separated list; TIME columns are scanned as
// "HH:MM:SS" strings and passed through unchanged.
type RestaurantRepo struct {
	db *sql.DB
}

// NewRestaurantRepo constructs a RestaurantRepo with the given DB handle.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *RestaurantRepo) DB() *sql.DB { return r.db }

// Create inserts a new restaurant and assigns the generated ID back to
// the struct.  Opening and closing times must already be validated as
// clock strings with opening < closing.
func (r *RestaurantRepo) Create(ctx context.Context, res *model.Restaurant) error {
	const q = `INSERT INTO restaurants
		(owner_id, name, description, cuisine_types, rating, cost_for_two, image_url,
		 is_vegetarian, location, opening_time, closing_time, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	out, err := r.db.ExecContext(ctx, q,
		res.OwnerID, res.Name, nullString(res.Description), joinCuisines(res.CuisineTypes),
		res.Rating, res.CostForTwo, nullString(res.ImageURL),
		res.IsVegetarian, string(res.Location), res.OpeningTime, res.ClosingTime, res.IsActive,
	)
	if err != nil {
		return err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// GetByID retrieves a restaurant by its ID.  It returns
// ErrRestaurantNotFound if there is no matching row.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
	const q = `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// GetByIDForOwner retrieves a restaurant only when it is owned by
// ownerID.  A restaurant that exists under a different owner yields the
// same ErrRestaurantNotFound as true absence.
func (r *RestaurantRepo) GetByIDForOwner(ctx context.Context, id, ownerID uint64) (*model.Restaurant, error) {
	const q = `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = ? AND owner_id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id, ownerID))
}

// ListByOwner returns all restaurants managed by the owner.
func (r *RestaurantRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Restaurant, error) {
	const q = `SELECT ` + restaurantColumns + ` FROM restaurants WHERE owner_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Restaurant
	for rows.Next() {
		res, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a restaurant owned by ownerID.
// It returns ErrRestaurantNotFound when no row matches.
func (r *RestaurantRepo) Update(ctx context.Context, ownerID uint64, res *model.Restaurant) error {
	const q = `UPDATE restaurants
		SET name = ?, description = ?, cuisine_types = ?, cost_for_two = ?, image_url = ?,
		    is_vegetarian = ?, location = ?, opening_time = ?, closing_time = ?
		WHERE id = ? AND owner_id = ?`
	out, err := r.db.ExecContext(ctx, q,
		res.Name, nullString(res.Description), joinCuisines(res.CuisineTypes),
		res.CostForTwo, nullString(res.ImageURL), res.IsVegetarian, string(res.Location),
		res.OpeningTime, res.ClosingTime, res.ID, ownerID,
	)
	if err != nil {
		return err
	}
	n, err := out.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}

// SetActive flips the active flag of a restaurant owned by ownerID.
func (r *RestaurantRepo) SetActive(ctx context.Context, id, ownerID uint64, active bool) error {
	const q = `UPDATE restaurants SET is_active = ? WHERE id = ? AND owner_id = ?`
	out, err := r.db.ExecContext(ctx, q, active, id, ownerID)
	if err != nil {
		return err
	}
	n, err := out.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}

// DeleteCascade removes a restaurant together with its bookings,
// allocations, time slots and tables in one transaction.  Cascading is
// an explicit operation here, not a schema side effect, so the deletion
// order is visible and testable.  It returns ErrRestaurantNotFound when
// the restaurant does not exist or is not owned by ownerID.
func (r *RestaurantRepo) DeleteCascade(ctx context.Context, id, ownerID uint64) error {
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

	var got uint64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM restaurants WHERE id = ? AND owner_id = ? FOR UPDATE`, id, ownerID,
	).Scan(&got)
	if err == sql.ErrNoRows {
		return ErrRestaurantNotFound
	}
	if err != nil {
		return err
	}

	// Children first: allocations reference bookings, tables and slots.
	steps := []string{
		`DELETE ta FROM table_allocations ta JOIN tables t ON t.id = ta.table_id WHERE t.restaurant_id = ?`,
		`DELETE FROM bookings WHERE restaurant_id = ?`,
		`DELETE FROM time_slots WHERE restaurant_id = ?`,
		`DELETE FROM tables WHERE restaurant_id = ?`,
		`DELETE FROM restaurants WHERE id = ?`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// scanOne scans a single restaurant row, mapping sql.ErrNoRows to
// ErrRestaurantNotFound.
func (r *RestaurantRepo) scanOne(row *sql.Row) (*model.Restaurant, error) {
	res, err := scanRestaurant(row)
	if err == sql.ErrNoRows {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// rowScanner lets scanRestaurant work for both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(row rowScanner) (*model.Restaurant, error) {
	var (
		res         model.Restaurant
		desc, img   sql.NullString
		cuisines    string
		location    string
		created     time.Time
		updated     time.Time
	)
	err := row.Scan(&res.ID, &res.OwnerID, &res.Name, &desc, &cuisines, &res.Rating,
		&res.CostForTwo, &img, &res.IsVegetarian, &location,
		&res.OpeningTime, &res.ClosingTime, &res.IsActive, &created, &updated)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		res.Description = &desc.String
	}
	if img.Valid {
		res.ImageURL = &img.String
	}
	res.CuisineTypes = splitCuisines(cuisines)
	res.Location = model.City(location)
	res.OpeningTime = clockHHMM(res.OpeningTime)
	res.ClosingTime = clockHHMM(res.ClosingTime)
	res.CreatedAt = created
	res.UpdatedAt = updated
	return &res, nil
}

func joinCuisines(cs []model.CuisineType) string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, ",")
}

func splitCuisines(s string) []model.CuisineType {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]model.CuisineType, 0, len(parts))
	for _, p := range parts {
		out = append(out, model.CuisineType(strings.TrimSpace(p)))
	}
	return out
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
