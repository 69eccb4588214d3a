package identity

import (
	"context"

	"github.com/google/uuid"
)

// Conflicts reports which registration fields already belong to an account
type Conflicts struct {
	Username bool
	Email    bool
}

func (c Conflicts) Any() bool {
	return c.Username || c.Email
}

// UserRepository persists customer and staff accounts. Lookups that miss
// return shared.ErrNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByLogin resolves what a shopper typed into the login form: an
	// exact username, or an email compared case-insensitively when the login
	// contains "@". A username match wins.
	FindByLogin(ctx context.Context, login string) (*User, error)

	// Conflicts checks both registration keys in one lookup
	Conflicts(ctx context.Context, username, email string) (Conflicts, error)
}
