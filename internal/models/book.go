package models

import (
	"time"
)

// BookStatus is the rental state of a book. It is derived from the
// renter reference, never stored on its own, so the two can not drift.
type BookStatus string

const (
	BookAvailable BookStatus = "available"
	BookRented    BookStatus = "rented"
)

// MaxImagesPerBook caps the number of image attachments a single book
// may carry. Enforced at the API boundary, not by the schema.
const MaxImagesPerBook = 5

type Book struct {
	ID          int        `json:"id" db:"id"`
	SKU         string     `json:"sku" db:"sku" validate:"required"`
	Name        string     `json:"name" db:"name" validate:"required"`
	Price       float64    `json:"price" db:"price" validate:"gte=0"`
	Description *string    `json:"description,omitempty" db:"description"`
	Images      []string   `json:"images" db:"images"`
	IsActive    bool       `json:"isactive" db:"isactive"`
	RenterID    *int       `json:"renter_id,omitempty" db:"renter_id"`
	Renter      *User      `json:"user,omitempty" db:"-"`
	Status      BookStatus `json:"status" db:"-"`
	CreatedAt   time.Time  `json:"createdat" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedat" db:"updated_at"`
}

// ComputeStatus derives the rental state from the renter reference.
func (b *Book) ComputeStatus() BookStatus {
	if b.RenterID != nil {
		return BookRented
	}
	return BookAvailable
}

// Normalize fills derived fields after a load or mutation: the status
// enum and a non-nil images slice so JSON renders [] instead of null.
func (b *Book) Normalize() {
	b.Status = b.ComputeStatus()
	if b.Images == nil {
		b.Images = []string{}
	}
}
