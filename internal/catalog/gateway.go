package catalog

import (
	"context"

	"github.com/Madhupal841998/book-rental/internal/models"
)

// PageQuery describes a 1-indexed page request over the book catalog.
// Search is matched as a case-insensitive substring of name or
// description; an empty search matches everything.
type PageQuery struct {
	Page   int
	Limit  int
	Search string
}

// Offset converts the 1-indexed page into a row offset.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// PageResult is one page of books plus the totals the caller needs to
// render pagination controls.
type PageResult struct {
	Data       []models.Book
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// UserStore is the persistence gateway for user records.
type UserStore interface {
	Find(ctx context.Context, id int) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// Save inserts when the ID is zero and updates otherwise.
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]models.User, error)
}

// BookStore is the persistence gateway for book records, including the
// conditional rental writes. Rent and Return must only touch the renter
// reference when the previously observed state still holds, so two
// concurrent calls resolve to one success and one conflict.
type BookStore interface {
	Find(ctx context.Context, id int) (*models.Book, error)
	FindBySKU(ctx context.Context, sku string) (*models.Book, error)
	// Save inserts when the ID is zero and updates otherwise. Updates
	// never write the renter reference; that is Rent/Return territory.
	Save(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id int) error
	QueryPage(ctx context.Context, q PageQuery) (PageResult, error)

	Rent(ctx context.Context, bookID, userID int) error
	Return(ctx context.Context, bookID int) error
	ListRented(ctx context.Context) ([]models.Book, error)
	ListRentedByUser(ctx context.Context, userID int) ([]models.Book, error)
}

// PasswordHasher is the hashing collaborator injected into the user
// workflow so tests can swap in a fake.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Check(plaintext, hash string) bool
}

// ImageReleaser disposes of stored image attachments that are no longer
// referenced by any book.
type ImageReleaser interface {
	Release(ref string)
}
