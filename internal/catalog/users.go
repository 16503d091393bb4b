package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/Madhupal841998/book-rental/internal/models"
)

// Users implements the user CRUD workflow. Passwords arrive in
// plaintext, are hashed by the injected collaborator and never leave
// the workflow unhashed.
type Users struct {
	store  UserStore
	hasher PasswordHasher
}

func NewUsers(store UserStore, hasher PasswordHasher) *Users {
	return &Users{store: store, hasher: hasher}
}

// UserUpdate carries a partial user edit. Nil fields keep their prior
// value; a non-nil password is rehashed before storage.
type UserUpdate struct {
	Email    *string
	Name     *string
	Password *string
}

func (u *Users) Create(ctx context.Context, email, name, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" || password == "" {
		return nil, NewError(ErrInvalidInput, "Email, name, and password are required")
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Name:     name,
		Password: hashed,
		IsActive: true,
	}
	if err := u.store.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies credentials for login. Absent users and wrong
// passwords are indistinguishable to the caller.
func (u *Users) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := u.store.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NewError(ErrUnauthorized, "Invalid credentials")
		}
		return nil, err
	}
	if !u.hasher.Check(password, user.Password) {
		return nil, NewError(ErrUnauthorized, "Invalid credentials")
	}
	return user, nil
}

func (u *Users) Get(ctx context.Context, id int) (*models.User, error) {
	return u.store.Find(ctx, id)
}

func (u *Users) List(ctx context.Context) ([]models.User, error) {
	return u.store.List(ctx)
}

func (u *Users) Update(ctx context.Context, id int, in UserUpdate) (*models.User, error) {
	user, err := u.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		user.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Password != nil && *in.Password != "" {
		hashed, err := u.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := u.store.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the user record. Any book the user was renting becomes
// available again through the renter foreign key's ON DELETE SET NULL.
func (u *Users) Delete(ctx context.Context, id int) error {
	if _, err := u.store.Find(ctx, id); err != nil {
		return err
	}
	return u.store.Delete(ctx, id)
}
