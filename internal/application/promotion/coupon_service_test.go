package promotion

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCouponRepository is a mock implementation of CouponRepository
type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*promotion.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindByCode(ctx context.Context, code string) (*promotion.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindAll(ctx context.Context, filter shared.Filter) ([]promotion.Coupon, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]promotion.Coupon), args.Error(1)
}

func (m *MockCouponRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCouponRepository) Save(ctx context.Context, coupon *promotion.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCouponRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCouponRepository) Redeem(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockCouponRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

var fixedNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestService(repo *MockCouponRepository) *CouponService {
	s := NewCouponService(repo)
	s.now = func() time.Time { return fixedNow }
	return s
}

func validRequest(code string) CouponRequest {
	return CouponRequest{
		Code:            code,
		DiscountPercent: 10,
		MinAmount:       decimal.NewFromInt(500),
		ValidFrom:       fixedNow.Add(-time.Hour),
		ValidTo:         fixedNow.Add(time.Hour),
		UsageLimit:      3,
	}
}

func TestCouponService_Lookup(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown code", func(t *testing.T) {
		repo := new(MockCouponRepository)
		repo.On("FindByCode", ctx, "NOPE").Return(nil, shared.ErrNotFound)

		_, err := newTestService(repo).Lookup(ctx, " nope ")
		assert.ErrorIs(t, err, promotion.ErrCouponNotFound)
		assert.Equal(t, "Invalid coupon code.", err.Error())
	})

	t.Run("empty code", func(t *testing.T) {
		_, err := newTestService(new(MockCouponRepository)).Lookup(ctx, "  ")
		assert.ErrorIs(t, err, promotion.ErrCouponNotFound)
	})

	t.Run("found", func(t *testing.T) {
		repo := new(MockCouponRepository)
		coupon, err := promotion.NewCoupon("SAVE10", validRequest("SAVE10").terms())
		require.NoError(t, err)
		repo.On("FindByCode", ctx, "SAVE10").Return(coupon, nil)

		found, err := newTestService(repo).Lookup(ctx, "save10")
		require.NoError(t, err)
		assert.Equal(t, coupon.ID, found.ID)
	})
}

func TestCouponService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates active coupon", func(t *testing.T) {
		repo := new(MockCouponRepository)
		repo.On("ExistsByCode", ctx, "WELCOME").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*promotion.Coupon")).Return(nil)

		resp, err := newTestService(repo).Create(ctx, validRequest("welcome"))
		require.NoError(t, err)
		assert.Equal(t, "WELCOME", resp.Code)
		assert.True(t, resp.IsActive)
		assert.True(t, resp.IsValidNow)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		repo := new(MockCouponRepository)
		repo.On("ExistsByCode", ctx, "WELCOME").Return(true, nil)

		_, err := newTestService(repo).Create(ctx, validRequest("WELCOME"))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCouponService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCouponRepository)
	coupon, err := promotion.NewCoupon("SAVE10", validRequest("SAVE10").terms())
	require.NoError(t, err)
	repo.On("FindByID", ctx, coupon.ID).Return(coupon, nil)
	repo.On("Save", ctx, coupon).Return(nil)
	service := newTestService(repo)

	req := validRequest("save10")
	inactive := false
	req.IsActive = &inactive
	resp, err := service.Update(ctx, coupon.ID, req)
	require.NoError(t, err)
	assert.False(t, resp.IsValidNow)

	_, err = service.Update(ctx, coupon.ID, validRequest("OTHER"))
	require.Error(t, err)
}

func TestCouponService_DeactivateExpired(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCouponRepository)
	repo.On("DeactivateExpired", ctx, fixedNow).Return(int64(2), nil)

	n, err := newTestService(repo).DeactivateExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
