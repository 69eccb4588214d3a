package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence. Loaded
// orders carry their items.
type OrderRepository interface {
	// FindByID finds an order by its public order ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll finds orders matching the filter. Filters understands
	// "status"; Search matches name, email, phone and order ID.
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// FindByUser finds the orders of a registered user, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)

	// CountByUser counts the orders of a registered user
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// Save creates or updates an order and its items
	Save(ctx context.Context, order *Order) error
}
