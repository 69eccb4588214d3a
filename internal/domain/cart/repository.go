package cart

import "context"

// Store persists carts by session ID
type Store interface {
	// Load returns the cart for a session, or an empty cart when none is stored
	Load(ctx context.Context, sessionID string) (*Cart, error)

	// Save stores the cart and refreshes its expiry
	Save(ctx context.Context, cart *Cart) error

	// Delete removes the cart for a session
	Delete(ctx context.Context, sessionID string) error
}
