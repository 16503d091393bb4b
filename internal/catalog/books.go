package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Madhupal841998/book-rental/internal/models"
)

// Books implements the catalog CRUD workflow and the attachment
// semantics around a book's image list.
type Books struct {
	store  BookStore
	images ImageReleaser
}

func NewBooks(store BookStore, images ImageReleaser) *Books {
	return &Books{store: store, images: images}
}

// BookCreate carries the fields accepted on creation. The renter
// reference is never part of it; new books are always available.
type BookCreate struct {
	SKU         string
	Name        string
	Price       *float64
	Description string
	Images      []string
	IsActive    *bool
}

// BookUpdate carries a partial book edit. Nil fields keep their prior
// value; DeletedImages lists attachment refs to drop and release.
type BookUpdate struct {
	SKU           *string
	Name          *string
	Price         *float64
	Description   *string
	IsActive      *bool
	DeletedImages []string
}

func (b *Books) Create(ctx context.Context, in BookCreate) (*models.Book, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.SKU == "" || in.Name == "" || in.Price == nil {
		return nil, NewError(ErrInvalidInput, "SKU, name, and price are required fields")
	}
	if *in.Price < 0 {
		return nil, NewError(ErrInvalidInput, "Price must not be negative")
	}
	if len(in.Images) > models.MaxImagesPerBook {
		return nil, NewError(ErrInvalidInput, fmt.Sprintf("A book may have at most %d images", models.MaxImagesPerBook))
	}

	if _, err := b.store.FindBySKU(ctx, in.SKU); err == nil {
		return nil, NewError(ErrConflict, "A book with this SKU already exists")
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	book := &models.Book{
		SKU:      in.SKU,
		Name:     in.Name,
		Price:    *in.Price,
		Images:   in.Images,
		IsActive: true,
	}
	if in.Description != "" {
		description := in.Description
		book.Description = &description
	}
	if in.IsActive != nil {
		book.IsActive = *in.IsActive
	}

	if err := b.store.Save(ctx, book); err != nil {
		return nil, err
	}
	book.Normalize()
	return book, nil
}

func (b *Books) Get(ctx context.Context, id int) (*models.Book, error) {
	return b.store.Find(ctx, id)
}

func (b *Books) Page(ctx context.Context, q PageQuery) (PageResult, error) {
	return b.store.QueryPage(ctx, q)
}

func (b *Books) Update(ctx context.Context, id int, in BookUpdate) (*models.Book, error) {
	book, err := b.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.SKU != nil && strings.TrimSpace(*in.SKU) != "" {
		book.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		book.Name = strings.TrimSpace(*in.Name)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, NewError(ErrInvalidInput, "Price must not be negative")
		}
		book.Price = *in.Price
	}
	if in.Description != nil {
		description := *in.Description
		book.Description = &description
	}
	if in.IsActive != nil {
		book.IsActive = *in.IsActive
	}

	if len(in.DeletedImages) > 0 {
		book.Images = b.removeRefs(book.Images, in.DeletedImages)
	}

	if err := b.store.Save(ctx, book); err != nil {
		return nil, err
	}
	book.Normalize()
	return book, nil
}

// Delete removes the record and releases every image it referenced.
func (b *Books) Delete(ctx context.Context, id int) error {
	book, err := b.store.Find(ctx, id)
	if err != nil {
		return err
	}
	if err := b.store.Delete(ctx, id); err != nil {
		return err
	}
	for _, ref := range book.Images {
		b.images.Release(ref)
	}
	return nil
}

// SetImages replaces the book's whole image list. Refs that were stored
// before and do not appear in the new list are released.
func (b *Books) SetImages(ctx context.Context, id int, refs []string) (*models.Book, error) {
	if len(refs) > models.MaxImagesPerBook {
		return nil, NewError(ErrInvalidInput, fmt.Sprintf("A book may have at most %d images", models.MaxImagesPerBook))
	}

	book, err := b.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	kept := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		kept[ref] = struct{}{}
	}
	for _, old := range book.Images {
		if _, ok := kept[old]; !ok {
			b.images.Release(old)
		}
	}

	book.Images = refs
	if err := b.store.Save(ctx, book); err != nil {
		return nil, err
	}
	book.Normalize()
	return book, nil
}

// RemoveImages filters the given refs out of the book's image list and
// releases them. Unmentioned fields stay untouched.
func (b *Books) RemoveImages(ctx context.Context, id int, refs []string) (*models.Book, error) {
	if len(refs) == 0 {
		return b.store.Find(ctx, id)
	}
	return b.Update(ctx, id, BookUpdate{DeletedImages: refs})
}

func (b *Books) removeRefs(current, deleted []string) []string {
	drop := make(map[string]struct{}, len(deleted))
	for _, ref := range deleted {
		drop[ref] = struct{}{}
	}

	kept := make([]string, 0, len(current))
	for _, ref := range current {
		if _, ok := drop[ref]; ok {
			b.images.Release(ref)
			continue
		}
		kept = append(kept, ref)
	}
	return kept
}
