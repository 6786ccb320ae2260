package database

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations holds the schema statements in dependency order.  Each
// statement is idempotent.  The unique key uq_table_slot on
// table_allocations is the primary defense against double booking:
// two concurrent inserts for the same (table_id, time_slot_id) pair
// cannot both succeed, whatever the isolation level.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		full_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS restaurant_owners (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		full_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_owners_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS restaurants (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		owner_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT NULL,
		cuisine_types VARCHAR(255) NOT NULL,
		rating DOUBLE NOT NULL DEFAULT 0,
		cost_for_two INT UNSIGNED NOT NULL,
		image_url VARCHAR(512) NULL,
		is_vegetarian TINYINT(1) NOT NULL DEFAULT 0,
		location VARCHAR(64) NOT NULL,
		opening_time TIME NOT NULL,
		closing_time TIME NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_restaurants_owner (owner_id),
		CONSTRAINT fk_restaurants_owner FOREIGN KEY (owner_id) REFERENCES restaurant_owners (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS tables (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		restaurant_id BIGINT UNSIGNED NOT NULL,
		table_number VARCHAR(32) NOT NULL,
		capacity INT UNSIGNED NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_tables_number (restaurant_id, table_number),
		CONSTRAINT fk_tables_restaurant FOREIGN KEY (restaurant_id) REFERENCES restaurants (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS time_slots (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		restaurant_id BIGINT UNSIGNED NOT NULL,
		date DATE NOT NULL,
		start_time TIME NOT NULL,
		end_time TIME NOT NULL,
		is_available TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_slots_start (restaurant_id, date, start_time),
		KEY idx_slots_restaurant_date (restaurant_id, date, is_available),
		CONSTRAINT fk_slots_restaurant FOREIGN KEY (restaurant_id) REFERENCES restaurants (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		restaurant_id BIGINT UNSIGNED NOT NULL,
		time_slot_id BIGINT UNSIGNED NOT NULL,
		table_id BIGINT UNSIGNED NOT NULL,
		number_of_guests INT UNSIGNED NOT NULL,
		date DATE NOT NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'confirmed',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_bookings_user (user_id, date),
		KEY idx_bookings_restaurant (restaurant_id),
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users (id),
		CONSTRAINT fk_bookings_restaurant FOREIGN KEY (restaurant_id) REFERENCES restaurants (id),
		CONSTRAINT fk_bookings_slot FOREIGN KEY (time_slot_id) REFERENCES time_slots (id),
		CONSTRAINT fk_bookings_table FOREIGN KEY (table_id) REFERENCES tables (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS table_allocations (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		booking_id BIGINT UNSIGNED NULL,
		table_id BIGINT UNSIGNED NOT NULL,
		time_slot_id BIGINT UNSIGNED NOT NULL,
		kind VARCHAR(16) NOT NULL DEFAULT 'BOOKING',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_table_slot (table_id, time_slot_id),
		KEY idx_allocations_slot (time_slot_id),
		CONSTRAINT fk_allocations_booking FOREIGN KEY (booking_id) REFERENCES bookings (id),
		CONSTRAINT fk_allocations_table FOREIGN KEY (table_id) REFERENCES tables (id),
		CONSTRAINT fk_allocations_slot FOREIGN KEY (time_slot_id) REFERENCES time_slots (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies the schema statements in order.  It is safe to call
// on every startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
