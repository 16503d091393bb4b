package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/Madhupal841998/book-rental/internal/models"
)

// fakeUserStore and fakeBookStore are in-memory gateways that mirror
// the conditional-write semantics of the Postgres implementation,
// including the one-renter-per-user uniqueness.

type fakeUserStore struct {
	nextID int
	users  map[int]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: map[int]models.User{}}
}

func (f *fakeUserStore) Find(_ context.Context, id int) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, NewError(ErrNotFound, "User not found")
	}
	return &user, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			return &user, nil
		}
	}
	return nil, NewError(ErrNotFound, "User not found")
}

func (f *fakeUserStore) Save(_ context.Context, user *models.User) error {
	for id, existing := range f.users {
		if strings.EqualFold(existing.Email, user.Email) && id != user.ID {
			return NewError(ErrConflict, "Email already exists")
		}
	}
	if user.ID == 0 {
		user.ID = f.nextID
		f.nextID++
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id int) error {
	if _, ok := f.users[id]; !ok {
		return NewError(ErrNotFound, "User not found")
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) List(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for _, user := range f.users {
		out = append(out, user.PublicProfile())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeBookStore struct {
	nextID int
	books  map[int]models.Book
}

func newFakeBookStore() *fakeBookStore {
	return &fakeBookStore{nextID: 1, books: map[int]models.Book{}}
}

func (f *fakeBookStore) Find(_ context.Context, id int) (*models.Book, error) {
	book, ok := f.books[id]
	if !ok {
		return nil, NewError(ErrNotFound, "Book not found")
	}
	book.Normalize()
	return &book, nil
}

func (f *fakeBookStore) FindBySKU(_ context.Context, sku string) (*models.Book, error) {
	for _, book := range f.books {
		if book.SKU == sku {
			book.Normalize()
			return &book, nil
		}
	}
	return nil, NewError(ErrNotFound, "Book not found")
}

func (f *fakeBookStore) Save(_ context.Context, book *models.Book) error {
	for id, existing := range f.books {
		if existing.SKU == book.SKU && id != book.ID {
			return NewError(ErrConflict, "A book with this SKU already exists")
		}
	}
	if book.ID == 0 {
		book.ID = f.nextID
		f.nextID++
		f.books[book.ID] = *book
		return nil
	}

	existing, ok := f.books[book.ID]
	if !ok {
		return NewError(ErrNotFound, "Book not found")
	}
	// Updates never move the renter reference.
	book.RenterID = existing.RenterID
	f.books[book.ID] = *book
	return nil
}

func (f *fakeBookStore) Delete(_ context.Context, id int) error {
	if _, ok := f.books[id]; !ok {
		return NewError(ErrNotFound, "Book not found")
	}
	delete(f.books, id)
	return nil
}

func (f *fakeBookStore) QueryPage(_ context.Context, q PageQuery) (PageResult, error) {
	matched := make([]models.Book, 0, len(f.books))
	needle := strings.ToLower(q.Search)
	for _, book := range f.books {
		if needle != "" {
			haystack := strings.ToLower(book.Name)
			if book.Description != nil {
				haystack += " " + strings.ToLower(*book.Description)
			}
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		book.Normalize()
		matched = append(matched, book)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	out := PageResult{Page: q.Page, Limit: q.Limit, Total: len(matched), Data: []models.Book{}}
	if q.Limit > 0 {
		out.TotalPages = (len(matched) + q.Limit - 1) / q.Limit
	}
	start := q.Offset()
	for i := start; i < len(matched) && i < start+q.Limit; i++ {
		out.Data = append(out.Data, matched[i])
	}
	return out, nil
}

func (f *fakeBookStore) Rent(_ context.Context, bookID, userID int) error {
	for _, book := range f.books {
		if book.RenterID != nil && *book.RenterID == userID {
			return NewError(ErrConflict, "User already has a rented book")
		}
	}

	book, ok := f.books[bookID]
	if !ok {
		return NewError(ErrNotFound, "Book not found")
	}
	if book.RenterID != nil {
		return NewError(ErrConflict, "Book is already rented")
	}
	book.RenterID = &userID
	f.books[bookID] = book
	return nil
}

func (f *fakeBookStore) Return(_ context.Context, bookID int) error {
	book, ok := f.books[bookID]
	if !ok {
		return NewError(ErrNotFound, "Book not found")
	}
	if book.RenterID == nil {
		return NewError(ErrInvalidState, "This book is not currently rented")
	}
	book.RenterID = nil
	f.books[bookID] = book
	return nil
}

func (f *fakeBookStore) ListRented(_ context.Context) ([]models.Book, error) {
	out := make([]models.Book, 0)
	for _, book := range f.books {
		if book.RenterID != nil {
			book.Normalize()
			out = append(out, book)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeBookStore) ListRentedByUser(_ context.Context, userID int) ([]models.Book, error) {
	out := make([]models.Book, 0)
	for _, book := range f.books {
		if book.RenterID != nil && *book.RenterID == userID {
			book.Normalize()
			out = append(out, book)
		}
	}
	return out, nil
}

// plainHasher is a transparent password hasher for workflow tests.
type plainHasher struct{}

func (plainHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }

func (plainHasher) Check(plaintext, hash string) bool { return "hashed:"+plaintext == hash }

// recordingReleaser captures released image refs.
type recordingReleaser struct {
	released []string
}

func (r *recordingReleaser) Release(ref string) { r.released = append(r.released, ref) }
