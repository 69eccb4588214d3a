package cart

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, price int64, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("Test Product", decimal.NewFromInt(price))
	require.NoError(t, err)
	require.NoError(t, product.SetStockQuantity(stock))
	return product
}

func withSize(t *testing.T, product *catalog.Product, name catalog.SizeName, stock int, price int64) *uuid.UUID {
	t.Helper()
	size, err := catalog.NewProductSize(name)
	require.NoError(t, err)
	_, err = product.UpsertSizeStock(*size, stock, decimal.NewFromInt(price))
	require.NoError(t, err)
	return &size.ID
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected domain error, got %v", err)
	return domainErr.Code
}

func TestCart_Add(t *testing.T) {
	t.Run("increases count by quantity", func(t *testing.T) {
		c := New("s1")
		product := newTestProduct(t, 200, 10)

		count, err := c.Add(product, nil, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		count, err = c.Add(product, nil, 2)
		require.NoError(t, err)
		assert.Equal(t, 5, count)
		require.Len(t, c.Items, 1)
		assert.Equal(t, 5, c.Items[0].Quantity)
	})

	t.Run("captures size price with discount", func(t *testing.T) {
		c := New("s1")
		product := newTestProduct(t, 1000, 10)
		require.NoError(t, product.SetPricing(decimal.NewFromInt(1000), 20))
		sizeID := withSize(t, product, catalog.Size500g, 4, 500)

		_, err := c.Add(product, sizeID, 1)
		require.NoError(t, err)
		assert.Equal(t, "400", c.Items[0].Price.String())
	})

	t.Run("separates lines by size", func(t *testing.T) {
		c := New("s1")
		product := newTestProduct(t, 1000, 10)
		small := withSize(t, product, catalog.Size500g, 4, 500)
		large := withSize(t, product, catalog.Size1kg, 4, 900)

		_, err := c.Add(product, small, 1)
		require.NoError(t, err)
		_, err = c.Add(product, large, 1)
		require.NoError(t, err)
		assert.Len(t, c.Items, 2)
	})

	t.Run("rejects quantity beyond stock including cart", func(t *testing.T) {
		c := New("s1")
		product := newTestProduct(t, 200, 4)

		_, err := c.Add(product, nil, 3)
		require.NoError(t, err)

		count, err := c.Add(product, nil, 2)
		require.Error(t, err)
		assert.Equal(t, CodeInsufficientStock, domainCode(t, err))
		assert.Equal(t, "Only 4 items available in stock.", err.Error())
		assert.Equal(t, 3, count)
	})

	t.Run("checks size stock not product stock", func(t *testing.T) {
		c := New("s1")
		product := newTestProduct(t, 200, 100)
		sizeID := withSize(t, product, catalog.SizeM, 2, 200)

		_, err := c.Add(product, sizeID, 3)
		require.Error(t, err)
		assert.Equal(t, CodeInsufficientStock, domainCode(t, err))
	})

	t.Run("rejects unknown size", func(t *testing.T) {
		c := New("s1")
		product := newTestProduct(t, 200, 100)
		unknown := uuid.New()

		_, err := c.Add(product, &unknown, 1)
		assert.ErrorIs(t, err, ErrSizeUnavailable)
		assert.True(t, c.IsEmpty())
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		c := New("s1")
		_, err := c.Add(newTestProduct(t, 200, 5), nil, 0)
		require.Error(t, err)
		assert.Equal(t, CodeInvalidQuantity, domainCode(t, err))
	})
}

func TestCart_UpdateAndRemove(t *testing.T) {
	c := New("s1")
	product := newTestProduct(t, 200, 10)
	other := newTestProduct(t, 100, 10)
	_, err := c.Add(product, nil, 2)
	require.NoError(t, err)
	_, err = c.Add(other, nil, 1)
	require.NoError(t, err)

	t.Run("ignores non-positive quantity", func(t *testing.T) {
		assert.False(t, c.UpdateQuantity(product.ID, nil, 0))
		assert.Equal(t, 3, c.Count())
	})

	t.Run("sets quantity", func(t *testing.T) {
		assert.True(t, c.UpdateQuantity(product.ID, nil, 5))
		assert.Equal(t, 6, c.Count())
	})

	t.Run("bulk update removes zero lines", func(t *testing.T) {
		c.BulkUpdate(map[ItemKey]int{
			NewItemKey(product.ID, nil): 1,
			NewItemKey(other.ID, nil):   0,
		})
		require.Len(t, c.Items, 1)
		assert.Equal(t, 1, c.Count())
	})

	t.Run("remove", func(t *testing.T) {
		assert.True(t, c.Remove(product.ID, nil))
		assert.False(t, c.Remove(product.ID, nil))
		assert.True(t, c.IsEmpty())
	})
}

func TestCart_SaveForLater(t *testing.T) {
	c := New("s1")
	product := newTestProduct(t, 200, 10)
	_, err := c.Add(product, nil, 2)
	require.NoError(t, err)

	require.NoError(t, c.SaveForLater(product.ID, nil))
	assert.True(t, c.IsEmpty())
	require.Len(t, c.SavedForLater, 1)

	_, err = c.Add(product, nil, 1)
	require.NoError(t, err)
	require.NoError(t, c.MoveToCart(product.ID, nil))
	assert.Empty(t, c.SavedForLater)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)

	assert.ErrorIs(t, c.MoveToCart(product.ID, nil), ErrItemNotFound)
}

func TestCart_Totals(t *testing.T) {
	pricing := DefaultPricing()

	t.Run("empty cart costs nothing", func(t *testing.T) {
		c := New("s1")
		c.SetGiftWrap(true)
		totals := c.Totals(pricing)
		assert.True(t, totals.Total.IsZero())
		assert.True(t, totals.ShippingCost.IsZero())
		assert.Equal(t, 0, totals.CartCount)
	})

	t.Run("shipping below threshold", func(t *testing.T) {
		c := New("s1")
		_, err := c.Add(newTestProduct(t, 300, 10), nil, 2)
		require.NoError(t, err)
		totals := c.Totals(pricing)
		assert.Equal(t, "600", totals.Subtotal.String())
		assert.Equal(t, "50", totals.ShippingCost.String())
		assert.Equal(t, "650", totals.Total.String())
	})

	t.Run("free shipping at threshold with gift wrap and coupon", func(t *testing.T) {
		c := New("s1")
		_, err := c.Add(newTestProduct(t, 500, 10), nil, 2)
		require.NoError(t, err)
		c.SetGiftWrap(true)
		c.AppliedCoupon = &AppliedCoupon{Code: "SAVE10", Discount: decimal.NewFromInt(100)}

		totals := c.Totals(pricing)
		assert.True(t, totals.ShippingCost.IsZero())
		assert.Equal(t, "50", totals.GiftWrapCost.String())
		assert.Equal(t, "950", totals.Total.String())
		assert.Equal(t, "SAVE10", totals.CouponCode)
	})

	t.Run("discount capped at subtotal", func(t *testing.T) {
		c := New("s1")
		_, err := c.Add(newTestProduct(t, 100, 10), nil, 1)
		require.NoError(t, err)
		c.AppliedCoupon = &AppliedCoupon{Code: "BIG", Discount: decimal.NewFromInt(500)}

		totals := c.Totals(pricing)
		assert.Equal(t, "100", totals.CouponDiscount.String())
		assert.Equal(t, "50", totals.Total.String())
	})
}

func TestCart_ApplyCoupon(t *testing.T) {
	now := time.Now()
	coupon, err := promotion.NewCoupon("save10", promotion.CouponTerms{
		DiscountPercent: 10,
		MinAmount:       decimal.NewFromInt(500),
		ValidFrom:       now.Add(-time.Hour),
		ValidTo:         now.Add(time.Hour),
		UsageLimit:      5,
		IsActive:        true,
	})
	require.NoError(t, err)

	t.Run("rejected below min amount", func(t *testing.T) {
		c := New("s1")
		_, err := c.Add(newTestProduct(t, 100, 10), nil, 2)
		require.NoError(t, err)

		err = c.ApplyCoupon(coupon, now)
		require.Error(t, err)
		assert.Equal(t, promotion.CodeCouponMinAmount, domainCode(t, err))
		assert.Nil(t, c.AppliedCoupon)
	})

	t.Run("stores discount on subtotal", func(t *testing.T) {
		c := New("s1")
		_, err := c.Add(newTestProduct(t, 400, 10), nil, 2)
		require.NoError(t, err)

		require.NoError(t, c.ApplyCoupon(coupon, now))
		require.NotNil(t, c.AppliedCoupon)
		assert.Equal(t, "SAVE10", c.AppliedCoupon.Code)
		assert.Equal(t, "80", c.AppliedCoupon.Discount.String())

		c.RemoveCoupon()
		assert.Nil(t, c.AppliedCoupon)
	})
}

func TestCart_Normalize(t *testing.T) {
	kept := uuid.New()
	gone := uuid.New()
	c := New("s1")
	c.Items = []Item{
		{ProductID: kept, Quantity: 1, Price: decimal.NewFromInt(10)},
		{ProductID: kept, Quantity: 2, Price: decimal.NewFromInt(10)},
		{ProductID: gone, Quantity: 1, Price: decimal.NewFromInt(10)},
		{ProductID: uuid.New(), Quantity: 0, Price: decimal.NewFromInt(10)},
	}
	c.RecentlyViewed = []uuid.UUID{gone, kept}

	changed := c.Normalize(func(id uuid.UUID) bool { return id != gone })
	assert.True(t, changed)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, []uuid.UUID{kept}, c.RecentlyViewed)

	assert.False(t, c.Normalize(func(uuid.UUID) bool { return true }))
}

func TestCart_TrackViewed(t *testing.T) {
	c := New("s1")
	ids := make([]uuid.UUID, 4)
	for i := range ids {
		ids[i] = uuid.New()
		c.TrackViewed(ids[i], 3)
	}
	assert.Equal(t, []uuid.UUID{ids[3], ids[2], ids[1]}, c.RecentlyViewed)

	c.TrackViewed(ids[1], 3)
	assert.Equal(t, []uuid.UUID{ids[1], ids[3], ids[2]}, c.RecentlyViewed)
}

func TestCart_Checkout(t *testing.T) {
	now := time.Now()

	t.Run("empty cart cannot begin", func(t *testing.T) {
		_, err := New("s1").BeginCheckout(now)
		assert.ErrorIs(t, err, ErrCartEmpty)
	})

	t.Run("address advances to payment", func(t *testing.T) {
		c := New("s1")
		_, err := c.Add(newTestProduct(t, 100, 10), nil, 1)
		require.NoError(t, err)

		state, err := c.BeginCheckout(now)
		require.NoError(t, err)
		assert.Equal(t, CheckoutStepAddress, state.Step)

		err = c.SaveAddress(uuid.New(), ShippingAddress{})
		assert.ErrorIs(t, err, ErrCheckoutNotFound)

		require.NoError(t, c.SaveAddress(state.SessionID, ShippingAddress{FirstName: "Asha", LastName: "Rao"}))
		assert.Equal(t, CheckoutStepPayment, c.Checkout.Step)
		assert.Equal(t, "Asha Rao", c.Checkout.Address.FullName())

		c.GiftWrap = true
		c.ClearAfterOrder()
		assert.True(t, c.IsEmpty())
		assert.Nil(t, c.Checkout)
		assert.False(t, c.GiftWrap)
	})
}

func TestItemKey(t *testing.T) {
	productID := uuid.New()
	sizeID := uuid.New()

	key, err := ParseItemKey(NewItemKey(productID, &sizeID).String())
	require.NoError(t, err)
	assert.True(t, key.Matches(productID, &sizeID))

	key, err = ParseItemKey(productID.String())
	require.NoError(t, err)
	assert.Nil(t, key.SizeID)

	_, err = ParseItemKey("not-a-key")
	assert.Error(t, err)
}

func TestShippingAddress_Merge(t *testing.T) {
	saved := ShippingAddress{FirstName: "Asha", City: "Pune", Zipcode: "411001"}
	merged := saved.Merge(ShippingAddress{City: "Mumbai"})
	assert.Equal(t, "Asha", merged.FirstName)
	assert.Equal(t, "Mumbai", merged.City)
	assert.Equal(t, "411001", merged.Zipcode)
}
