package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/Madhupal841998/book-rental/internal/catalog"
	"github.com/Madhupal841998/book-rental/internal/models"
)

// Users is the Postgres-backed user gateway.
type Users struct {
	db *sql.DB
}

func NewUsers(db *sql.DB) *Users {
	return &Users{db: db}
}

func (s *Users) Find(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password, name, isactive FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Email, &user.Password, &user.Name, &user.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.NewError(catalog.ErrNotFound, "User not found")
		}
		return nil, err
	}
	return &user, nil
}

func (s *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password, name, isactive FROM users WHERE lower(email) = lower($1)`,
		email,
	).Scan(&user.ID, &user.Email, &user.Password, &user.Name, &user.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.NewError(catalog.ErrNotFound, "User not found")
		}
		return nil, err
	}
	return &user, nil
}

func (s *Users) Save(ctx context.Context, user *models.User) error {
	if user.ID == 0 {
		err := s.db.QueryRowContext(ctx,
			`INSERT INTO users (email, password, name, isactive)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			user.Email, user.Password, user.Name, user.IsActive,
		).Scan(&user.ID)
		return translateUniqueViolation(err, "Email already exists")
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET email = $1, password = $2, name = $3, isactive = $4 WHERE id = $5`,
		user.Email, user.Password, user.Name, user.IsActive, user.ID,
	)
	if err != nil {
		return translateUniqueViolation(err, "Email already exists")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return catalog.NewError(catalog.ErrNotFound, "User not found")
	}
	return nil
}

// Delete removes the user row. A book the user was renting falls back
// to available through the renter FK's ON DELETE SET NULL.
func (s *Users) Delete(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return catalog.NewError(catalog.ErrNotFound, "User not found")
	}
	return nil
}

func (s *Users) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, name, isactive FROM users ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.IsActive); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// translateUniqueViolation maps Postgres unique-constraint failures to
// a conflict the boundary can report instead of a 500.
func translateUniqueViolation(err error, message string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return catalog.NewError(catalog.ErrConflict, message)
	}
	return err
}
