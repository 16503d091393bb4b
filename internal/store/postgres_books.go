package store

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/lib/pq"

	"github.com/Madhupal841998/book-rental/internal/catalog"
	"github.com/Madhupal841998/book-rental/internal/models"
)

// Books is the Postgres-backed book gateway. Every read joins the
// renter so callers see the public profile of whoever holds the book.
type Books struct {
	db *sql.DB
}

func NewBooks(db *sql.DB) *Books {
	return &Books{db: db}
}

const bookColumns = `
	b.id, b.sku, b.name, b.price, b.description, b.images, b.isactive,
	b.renter_id, b.created_at, b.updated_at,
	u.id, u.email, u.name, u.isactive
`

const bookFrom = `FROM books b LEFT JOIN users u ON u.id = b.renter_id`

func scanBook(row interface{ Scan(...any) error }) (*models.Book, error) {
	var book models.Book
	var description sql.NullString
	var renterID sql.NullInt64
	var uID sql.NullInt64
	var uEmail, uName sql.NullString
	var uActive sql.NullBool

	err := row.Scan(
		&book.ID, &book.SKU, &book.Name, &book.Price, &description,
		pq.Array(&book.Images), &book.IsActive, &renterID,
		&book.CreatedAt, &book.UpdatedAt,
		&uID, &uEmail, &uName, &uActive,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		book.Description = &description.String
	}
	if renterID.Valid {
		id := int(renterID.Int64)
		book.RenterID = &id
	}
	if uID.Valid {
		book.Renter = &models.User{
			ID:       int(uID.Int64),
			Email:    uEmail.String,
			Name:     uName.String,
			IsActive: uActive.Bool,
		}
	}
	book.Normalize()
	return &book, nil
}

func (s *Books) Find(ctx context.Context, id int) (*models.Book, error) {
	book, err := scanBook(s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` `+bookFrom+` WHERE b.id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.NewError(catalog.ErrNotFound, "Book not found")
		}
		return nil, err
	}
	return book, nil
}

func (s *Books) FindBySKU(ctx context.Context, sku string) (*models.Book, error) {
	book, err := scanBook(s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` `+bookFrom+` WHERE b.sku = $1`, sku,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.NewError(catalog.ErrNotFound, "Book not found")
		}
		return nil, err
	}
	return book, nil
}

func (s *Books) Save(ctx context.Context, book *models.Book) error {
	if book.ID == 0 {
		err := s.db.QueryRowContext(ctx,
			`INSERT INTO books (sku, name, price, description, images, isactive)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, created_at, updated_at`,
			book.SKU, book.Name, book.Price, book.Description,
			pq.Array(book.Images), book.IsActive,
		).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)
		return translateUniqueViolation(err, "A book with this SKU already exists")
	}

	// The renter reference is deliberately absent here: it only moves
	// through the conditional Rent/Return writes, so a stale update can
	// not silently overwrite a rental that happened in between.
	err := s.db.QueryRowContext(ctx,
		`UPDATE books
		 SET sku = $1, name = $2, price = $3, description = $4, images = $5,
		     isactive = $6, updated_at = NOW()
		 WHERE id = $7
		 RETURNING updated_at`,
		book.SKU, book.Name, book.Price, book.Description,
		pq.Array(book.Images), book.IsActive, book.ID,
	).Scan(&book.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.NewError(catalog.ErrNotFound, "Book not found")
		}
		return translateUniqueViolation(err, "A book with this SKU already exists")
	}
	return nil
}

func (s *Books) Delete(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return catalog.NewError(catalog.ErrNotFound, "Book not found")
	}
	return nil
}

func (s *Books) QueryPage(ctx context.Context, q catalog.PageQuery) (catalog.PageResult, error) {
	out := catalog.PageResult{
		Data:  []models.Book{},
		Page:  q.Page,
		Limit: q.Limit,
	}

	pattern := ""
	if q.Search != "" {
		pattern = "%" + q.Search + "%"
	}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM books b
		 WHERE ($1 = '' OR b.name ILIKE $1 OR b.description ILIKE $1)`,
		pattern,
	).Scan(&out.Total)
	if err != nil {
		return out, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` `+bookFrom+`
		 WHERE ($1 = '' OR b.name ILIKE $1 OR b.description ILIKE $1)
		 ORDER BY b.id DESC
		 LIMIT $2 OFFSET $3`,
		pattern, q.Limit, q.Offset(),
	)
	if err != nil {
		return out, err
	}
	defer rows.Close()

	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return out, err
		}
		out.Data = append(out.Data, *book)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}

	if q.Limit > 0 {
		out.TotalPages = int(math.Ceil(float64(out.Total) / float64(q.Limit)))
	}
	return out, nil
}

// Rent assigns the renter only while the book is still available. Zero
// rows affected means the book is gone or already rented; a re-read
// tells the two apart. A unique violation on renter_id means the user
// already holds another book.
func (s *Books) Rent(ctx context.Context, bookID, userID int) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE books SET renter_id = $1, updated_at = NOW()
		 WHERE id = $2 AND renter_id IS NULL`,
		userID, bookID,
	)
	if err != nil {
		return translateUniqueViolation(err, "User already has a rented book")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	exists, err := s.bookExists(ctx, bookID)
	if err != nil {
		return err
	}
	if !exists {
		return catalog.NewError(catalog.ErrNotFound, "Book not found")
	}
	return catalog.NewError(catalog.ErrConflict, "Book is already rented")
}

// Return clears the renter only while the book is actually rented.
func (s *Books) Return(ctx context.Context, bookID int) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE books SET renter_id = NULL, updated_at = NOW()
		 WHERE id = $1 AND renter_id IS NOT NULL`,
		bookID,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	exists, err := s.bookExists(ctx, bookID)
	if err != nil {
		return err
	}
	if !exists {
		return catalog.NewError(catalog.ErrNotFound, "Book not found")
	}
	return catalog.NewError(catalog.ErrInvalidState, "This book is not currently rented")
}

func (s *Books) ListRented(ctx context.Context) ([]models.Book, error) {
	return s.listRentedWhere(ctx,
		`SELECT `+bookColumns+` `+bookFrom+`
		 WHERE b.renter_id IS NOT NULL
		 ORDER BY b.id DESC`,
	)
}

func (s *Books) ListRentedByUser(ctx context.Context, userID int) ([]models.Book, error) {
	return s.listRentedWhere(ctx,
		`SELECT `+bookColumns+` `+bookFrom+`
		 WHERE b.renter_id = $1
		 ORDER BY b.id DESC`,
		userID,
	)
}

func (s *Books) listRentedWhere(ctx context.Context, query string, args ...any) ([]models.Book, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := make([]models.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *book)
	}
	return books, rows.Err()
}

func (s *Books) bookExists(ctx context.Context, bookID int) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`, bookID,
	).Scan(&exists)
	return exists, err
}
