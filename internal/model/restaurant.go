package model

import "time"

// CuisineType enumerates the cuisine tags a restaurant may carry.  A
// restaurant always has at least one tag.  The values are stored as a
// comma-separated list in the `cuisine_types` column.
type CuisineType string

const (
	CuisineIndian   CuisineType = "Indian"
	CuisineChinese  CuisineType = "Chinese"
	CuisineItalian  CuisineType = "Italian"
	CuisineMexican  CuisineType = "Mexican"
	CuisineJapanese CuisineType = "Japanese"
	CuisineThai     CuisineType = "Thai"
	CuisineAmerican CuisineType = "American"
)

// City enumerates the locations a restaurant may be registered in.
type City string

const (
	CityBangalore City = "Bangalore"
	CityMumbai    City = "Mumbai"
	CityDelhi     City = "Delhi"
	CityHyderabad City = "Hyderabad"
	CityChennai   City = "Chennai"
)

// Restaurant represents a venue owned by a restaurant owner.  A
// restaurant owns its tables and time slots; deleting the restaurant
// removes them as well.  Opening and closing times are clock strings
// ("HH:MM") and opening must precede closing.  This struct corresponds
// to a row in the `restaurants` table.
//
// Fields:
//  ID           – primary key identifier.
//  OwnerID      – restaurant owner who manages this venue.
//  Name         – display name of the restaurant.
//  Description  – optional free-form description.
//  CuisineTypes – non-empty set of cuisine tags.
//  Rating       – derived rating, maintained externally.
//  CostForTwo   – approximate cost for two guests.
//  ImageURL     – optional image reference.
//  IsVegetarian – whether the restaurant serves vegetarian food only.
//  Location     – city the restaurant operates in.
//  OpeningTime  – daily opening clock time ("HH:MM").
//  ClosingTime  – daily closing clock time ("HH:MM").
//  IsActive     – whether the restaurant is open for booking.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Restaurant struct {
	ID           uint64        // restaurants.id
	OwnerID      uint64        // restaurants.owner_id
	Name         string        // restaurants.name
	Description  *string       // restaurants.description (nullable)
	CuisineTypes []CuisineType // restaurants.cuisine_types (comma separated)
	Rating       float64       // restaurants.rating
	CostForTwo   uint32        // restaurants.cost_for_two
	ImageURL     *string       // restaurants.image_url (nullable)
	IsVegetarian bool          // restaurants.is_vegetarian
	Location     City          // restaurants.location
	OpeningTime  string        // restaurants.opening_time (TIME)
	ClosingTime  string        // restaurants.closing_time (TIME)
	IsActive     bool          // restaurants.is_active
	CreatedAt    time.Time     // restaurants.created_at
	UpdatedAt    time.Time     // restaurants.updated_at
}
