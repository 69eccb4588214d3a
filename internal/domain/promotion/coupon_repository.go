package promotion

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// CouponRepository defines the interface for coupon persistence
type CouponRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)

	// FindByCode finds a coupon by its normalized code
	FindByCode(ctx context.Context, code string) (*Coupon, error)

	FindAll(ctx context.Context, filter shared.Filter) ([]Coupon, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, coupon *Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Redeem increments used_count only while it is below usage_limit.
	// Returns ErrCouponExhausted when no row was updated.
	Redeem(ctx context.Context, code string) error

	// DeactivateExpired switches off active coupons whose valid_to is
	// before now and returns how many were changed.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}
