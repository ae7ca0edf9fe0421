package identity

import (
	"context"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create inserts a new user. A duplicate email yields shared.ErrAlreadyExists.
	Create(ctx context.Context, user *User) error

	// FindByEmail finds a user by email, returning shared.ErrNotFound when absent
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail checks if an email already exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
