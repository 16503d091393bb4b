package database

import (
	"database/sql"
	"fmt"
)

// CreateTables creates all required tables and indexes.
func CreateTables(db *sql.DB) error {
	if err := createUsersTable(db); err != nil {
		return err
	}
	return createBooksTable(db)
}

func createUsersTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		isactive BOOLEAN DEFAULT TRUE
	);
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func createBooksTable(db *sql.DB) error {
	// UNIQUE(renter_id) backs the one-to-one renter invariant; multiple
	// NULLs are allowed, so any number of books can be available.
	// ON DELETE SET NULL returns a book to the pool when its renter is
	// deleted.
	query := `
	CREATE TABLE IF NOT EXISTS books (
		id SERIAL PRIMARY KEY,
		sku VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		price NUMERIC(10,2) NOT NULL,
		description TEXT,
		images TEXT[],
		isactive BOOLEAN DEFAULT TRUE,
		renter_id INTEGER UNIQUE REFERENCES users(id) ON DELETE SET NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("create books table: %w", err)
	}
	return ensureBooksSchema(db)
}

func ensureBooksSchema(db *sql.DB) error {
	if _, err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`); err != nil {
		return fmt.Errorf("ensure pg_trgm extension: %w", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS books_renter_idx ON books(renter_id) WHERE renter_id IS NOT NULL`); err != nil {
		return fmt.Errorf("ensure books renter index: %w", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS books_search_trgm_idx ON books USING gin ((lower(COALESCE(name, '') || ' ' || COALESCE(description, ''))) gin_trgm_ops)`); err != nil {
		return fmt.Errorf("ensure books search trigram index: %w", err)
	}

	return nil
}
