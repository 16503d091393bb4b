package catalog

import (
	"context"

	"github.com/Madhupal841998/book-rental/internal/models"
)

// Rentals implements the rent/return state machine on the one-to-one
// book-to-renter relationship. No state lives outside the store; every
// transition is a single conditional write so two concurrent rents of
// the same book resolve to one success and one conflict.
type Rentals struct {
	books BookStore
	users UserStore
}

func NewRentals(books BookStore, users UserStore) *Rentals {
	return &Rentals{books: books, users: users}
}

// Rent transitions the book from available to rented on behalf of the
// given user. The store only applies the write while the renter
// reference is still null.
func (r *Rentals) Rent(ctx context.Context, bookID, userID int) (*models.Book, error) {
	if bookID <= 0 || userID <= 0 {
		return nil, NewError(ErrInvalidInput, "Book ID and User ID are required")
	}

	if _, err := r.users.Find(ctx, userID); err != nil {
		return nil, err
	}
	if err := r.books.Rent(ctx, bookID, userID); err != nil {
		return nil, err
	}
	return r.books.Find(ctx, bookID)
}

// Return transitions the book back to available. Returning a book that
// is not rented is an invalid-state error, not a no-op.
func (r *Rentals) Return(ctx context.Context, bookID int) (*models.Book, error) {
	if err := r.books.Return(ctx, bookID); err != nil {
		return nil, err
	}
	return r.books.Find(ctx, bookID)
}

// ListRented returns every rented book joined with its renter's public
// profile.
func (r *Rentals) ListRented(ctx context.Context) ([]models.Book, error) {
	return r.books.ListRented(ctx)
}

// ListRentedByUser returns the books rented by one user. The renter
// relationship is one-to-one, so the list holds at most one element,
// but the operation stays list-shaped for symmetry with ListRented.
func (r *Rentals) ListRentedByUser(ctx context.Context, userID int) ([]models.Book, error) {
	return r.books.ListRentedByUser(ctx, userID)
}
