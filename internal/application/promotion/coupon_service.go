package promotion

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared"
)

// CouponService handles coupon administration and lookup
type CouponService struct {
	couponRepo promotion.CouponRepository
	now        func() time.Time
}

// NewCouponService creates a new CouponService
func NewCouponService(couponRepo promotion.CouponRepository) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		now:        time.Now,
	}
}

// Lookup finds a coupon by a shopper-entered code. Unknown codes return
// promotion.ErrCouponNotFound.
func (s *CouponService) Lookup(ctx context.Context, code string) (*promotion.Coupon, error) {
	code = promotion.NormalizeCode(code)
	if code == "" {
		return nil, promotion.ErrCouponNotFound
	}
	coupon, err := s.couponRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, promotion.ErrCouponNotFound
		}
		return nil, err
	}
	return coupon, nil
}

// List returns coupons for the back-office with an "is valid now" flag
func (s *CouponService) List(ctx context.Context, query CouponQuery) (shared.Paginated[CouponResponse], error) {
	filter := shared.DefaultFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	filter.Search = strings.TrimSpace(query.Search)
	if query.Active != nil {
		filter.Filters["is_active"] = *query.Active
	}

	coupons, err := s.couponRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[CouponResponse]{}, err
	}
	total, err := s.couponRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[CouponResponse]{}, err
	}

	now := s.now()
	out := make([]CouponResponse, len(coupons))
	for i := range coupons {
		out[i] = ToCouponResponse(&coupons[i], now)
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// GetByID returns a single coupon
func (s *CouponService) GetByID(ctx context.Context, id uuid.UUID) (*CouponResponse, error) {
	coupon, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCouponResponse(coupon, s.now())
	return &resp, nil
}

// Create creates a coupon with a unique code
func (s *CouponService) Create(ctx context.Context, req CouponRequest) (*CouponResponse, error) {
	coupon, err := promotion.NewCoupon(req.Code, req.terms())
	if err != nil {
		return nil, err
	}

	exists, err := s.couponRepo.ExistsByCode(ctx, coupon.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Coupon with this code already exists")
	}

	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		return nil, err
	}
	resp := ToCouponResponse(coupon, s.now())
	return &resp, nil
}

// Update replaces a coupon's terms. The code cannot change.
func (s *CouponService) Update(ctx context.Context, id uuid.UUID, req CouponRequest) (*CouponResponse, error) {
	coupon, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if promotion.NormalizeCode(req.Code) != coupon.Code {
		return nil, shared.NewDomainError("INVALID_CODE", "Coupon code cannot be changed")
	}
	if err := coupon.Update(req.terms()); err != nil {
		return nil, err
	}

	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		return nil, err
	}
	resp := ToCouponResponse(coupon, s.now())
	return &resp, nil
}

// Delete removes a coupon
func (s *CouponService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.couponRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.couponRepo.Delete(ctx, id)
}

// DeactivateExpired switches off coupons past their validity window
func (s *CouponService) DeactivateExpired(ctx context.Context) (int64, error) {
	return s.couponRepo.DeactivateExpired(ctx, s.now())
}
