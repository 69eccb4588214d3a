package checkout

import (
	"context"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/trade"
)

// TransactionScope runs order placement inside one database transaction.
type TransactionScope interface {
	// Execute runs fn within a transaction. The transaction is rolled back
	// when fn returns an error and committed otherwise.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to the repositories order
// placement writes through. All of them share the same transaction.
type TransactionalRepositories interface {
	// OrderRepo persists the order and its items
	OrderRepo() trade.OrderRepository
	// ProductRepo decrements stock with conditional updates
	ProductRepo() catalog.ProductRepository
	// CouponRepo redeems the applied coupon with a conditional update
	CouponRepo() promotion.CouponRepository
}
