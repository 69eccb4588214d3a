package scheduler

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CouponDeactivator switches off coupons whose validity window has closed
type CouponDeactivator interface {
	DeactivateExpired(ctx context.Context) (int64, error)
}

// CouponExpiryJobName is the scheduler name of the coupon sweep
const CouponExpiryJobName = "coupon_expiry"

// CouponExpirySweeper deactivates active coupons whose ValidTo has passed
type CouponExpirySweeper struct {
	coupons CouponDeactivator
	logger  *zap.Logger
}

// NewCouponExpirySweeper creates a new sweeper
func NewCouponExpirySweeper(coupons CouponDeactivator, logger *zap.Logger) *CouponExpirySweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CouponExpirySweeper{coupons: coupons, logger: logger}
}

// Name returns the job name
func (j *CouponExpirySweeper) Name() string {
	return CouponExpiryJobName
}

// Run deactivates expired coupons
func (j *CouponExpirySweeper) Run(ctx context.Context) error {
	n, err := j.coupons.DeactivateExpired(ctx)
	if err != nil {
		return fmt.Errorf("deactivate expired coupons: %w", err)
	}
	if n > 0 {
		j.logger.Info("Expired coupons deactivated", zap.Int64("count", n))
	}
	return nil
}

var _ Job = (*CouponExpirySweeper)(nil)
