package models

// User represents a registered account. The password column holds a
// bcrypt hash and is never serialized to JSON.
type User struct {
	ID       int    `json:"id" db:"id"`
	Email    string `json:"email" db:"email" validate:"required,email"`
	Password string `json:"-" db:"password"`
	Name     string `json:"name" db:"name" validate:"required"`
	IsActive bool   `json:"isactive" db:"isactive"`
}

// PublicProfile strips everything callers of rental listings should not
// see. The password field is already excluded from JSON, but rented-book
// rows embed the renter and must not carry the hash around at all.
func (u User) PublicProfile() User {
	u.Password = ""
	return u
}
