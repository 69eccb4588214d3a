package cart

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared"
)

// Cart error codes
const (
	CodeCartEmpty         = "CART_EMPTY"
	CodeSizeUnavailable   = "SIZE_UNAVAILABLE"
	CodeCheckoutNotFound  = "CHECKOUT_NOT_FOUND"
	CodeItemNotFound      = "CART_ITEM_NOT_FOUND"
	CodeAddressRequired   = "ADDRESS_REQUIRED"
	CodeInvalidQuantity   = "INVALID_QUANTITY"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
)

// DefaultRecentlyViewed caps the recently viewed list when no limit is configured.
const DefaultRecentlyViewed = 10

var (
	ErrCartEmpty        = shared.NewDomainError(CodeCartEmpty, "Your cart is empty.")
	ErrSizeUnavailable  = shared.NewDomainError(CodeSizeUnavailable, "Selected size is not available.")
	ErrCheckoutNotFound = shared.NewDomainError(CodeCheckoutNotFound, "Checkout session not found or expired.")
	ErrItemNotFound     = shared.NewDomainError(CodeItemNotFound, "Item not found in cart.")
	ErrAddressRequired  = shared.NewDomainError(CodeAddressRequired, "Shipping address is required.")
)

// AppliedCoupon is the coupon code on the cart and the discount computed
// when it was applied.
type AppliedCoupon struct {
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
}

// Cart is the session-scoped shopping cart. It is stored as a single JSON
// document keyed by SessionID.
type Cart struct {
	SessionID      string         `json:"session_id"`
	Items          []Item         `json:"items"`
	SavedForLater  []Item         `json:"saved_for_later"`
	GiftWrap       bool           `json:"gift_wrap"`
	AppliedCoupon  *AppliedCoupon `json:"applied_coupon,omitempty"`
	RecentlyViewed []uuid.UUID    `json:"recently_viewed"`
	Checkout       *CheckoutState `json:"checkout,omitempty"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// New returns an empty cart for a session
func New(sessionID string) *Cart {
	return &Cart{
		SessionID:      sessionID,
		Items:          []Item{},
		SavedForLater:  []Item{},
		RecentlyViewed: []uuid.UUID{},
	}
}

// Count returns the number of units in the cart
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Find returns the cart line for a product and size
func (c *Cart) Find(productID uuid.UUID, sizeID *uuid.UUID) (*Item, bool) {
	idx := indexOf(c.Items, productID, sizeID)
	if idx < 0 {
		return nil, false
	}
	return &c.Items[idx], true
}

// Add puts qty units of product in the given size into the cart and returns
// the new cart count. The unit price is captured from the catalog now.
func (c *Cart) Add(product *catalog.Product, sizeID *uuid.UUID, qty int) (int, error) {
	if qty < 1 {
		return c.Count(), shared.NewDomainError(CodeInvalidQuantity, "Quantity must be at least 1.")
	}

	available, ok := product.AvailableFor(sizeID)
	if !ok {
		return c.Count(), ErrSizeUnavailable
	}

	inCart := 0
	if existing, found := c.Find(product.ID, sizeID); found {
		inCart = existing.Quantity
	}
	if inCart+qty > available {
		return c.Count(), InsufficientStockError(available)
	}

	c.Items = mergeInto(c.Items, Item{
		ProductID: product.ID,
		SizeID:    sizeID,
		Quantity:  qty,
		Price:     product.PriceFor(sizeID),
	})
	c.touch()
	return c.Count(), nil
}

// InsufficientStockError reports how many units are available.
func InsufficientStockError(available int) *shared.DomainError {
	return shared.NewDomainError(CodeInsufficientStock, fmt.Sprintf("Only %d items available in stock.", available))
}

// Remove deletes the line for a product and size. It reports whether a line
// was removed.
func (c *Cart) Remove(productID uuid.UUID, sizeID *uuid.UUID) bool {
	idx := indexOf(c.Items, productID, sizeID)
	if idx < 0 {
		return false
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.touch()
	return true
}

// UpdateQuantity sets the quantity of a line. Non-positive quantities are
// ignored.
func (c *Cart) UpdateQuantity(productID uuid.UUID, sizeID *uuid.UUID, qty int) bool {
	if qty <= 0 {
		return false
	}
	item, ok := c.Find(productID, sizeID)
	if !ok {
		return false
	}
	item.Quantity = qty
	c.touch()
	return true
}

// BulkUpdate sets quantities for several lines at once. A quantity of zero
// or less removes the line; keys not in the cart are skipped.
func (c *Cart) BulkUpdate(quantities map[ItemKey]int) {
	for key, qty := range quantities {
		if qty <= 0 {
			c.Remove(key.ProductID, key.SizeID)
			continue
		}
		c.UpdateQuantity(key.ProductID, key.SizeID, qty)
	}
	c.touch()
}

// SetGiftWrap turns gift wrapping on or off
func (c *Cart) SetGiftWrap(on bool) {
	c.GiftWrap = on
	c.touch()
}

// SaveForLater moves a line from the cart into the saved list
func (c *Cart) SaveForLater(productID uuid.UUID, sizeID *uuid.UUID) error {
	idx := indexOf(c.Items, productID, sizeID)
	if idx < 0 {
		return ErrItemNotFound
	}
	item := c.Items[idx]
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.SavedForLater = mergeInto(c.SavedForLater, item)
	c.touch()
	return nil
}

// MoveToCart moves a saved line back into the cart
func (c *Cart) MoveToCart(productID uuid.UUID, sizeID *uuid.UUID) error {
	idx := indexOf(c.SavedForLater, productID, sizeID)
	if idx < 0 {
		return ErrItemNotFound
	}
	item := c.SavedForLater[idx]
	c.SavedForLater = append(c.SavedForLater[:idx], c.SavedForLater[idx+1:]...)
	c.Items = mergeInto(c.Items, item)
	c.touch()
	return nil
}

// Subtotal returns the sum of all line totals
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}

// ApplyCoupon validates the coupon against the current subtotal and stores
// the resulting discount.
func (c *Cart) ApplyCoupon(coupon *promotion.Coupon, now time.Time) error {
	subtotal := c.Subtotal()
	if err := coupon.Validate(subtotal, now); err != nil {
		return err
	}
	c.AppliedCoupon = &AppliedCoupon{
		Code:     coupon.Code,
		Discount: coupon.CalculateDiscount(subtotal, now),
	}
	c.touch()
	return nil
}

// RemoveCoupon drops the applied coupon
func (c *Cart) RemoveCoupon() {
	c.AppliedCoupon = nil
	c.touch()
}

// Normalize repairs the cart: lines whose product no longer exists or whose
// quantity is not positive are dropped and duplicate lines are merged. It
// reports whether anything changed.
func (c *Cart) Normalize(exists func(productID uuid.UUID) bool) bool {
	changed := false
	clean := func(items []Item) []Item {
		out := make([]Item, 0, len(items))
		for _, item := range items {
			if item.Quantity <= 0 || !exists(item.ProductID) {
				changed = true
				continue
			}
			before := len(out)
			out = mergeInto(out, item)
			if len(out) == before {
				changed = true
			}
		}
		return out
	}
	c.Items = clean(c.Items)
	c.SavedForLater = clean(c.SavedForLater)

	viewed := make([]uuid.UUID, 0, len(c.RecentlyViewed))
	for _, id := range c.RecentlyViewed {
		if exists(id) {
			viewed = append(viewed, id)
		} else {
			changed = true
		}
	}
	c.RecentlyViewed = viewed

	if changed {
		c.touch()
	}
	return changed
}

// TrackViewed records a product view, newest first, without duplicates and
// keeping at most limit entries.
func (c *Cart) TrackViewed(productID uuid.UUID, limit int) {
	if limit <= 0 {
		limit = DefaultRecentlyViewed
	}
	viewed := make([]uuid.UUID, 0, limit)
	viewed = append(viewed, productID)
	for _, id := range c.RecentlyViewed {
		if id == productID {
			continue
		}
		if len(viewed) == limit {
			break
		}
		viewed = append(viewed, id)
	}
	c.RecentlyViewed = viewed
	c.touch()
}

// ProductIDs returns the distinct products in the cart and the saved list
func (c *Cart) ProductIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(c.Items)+len(c.SavedForLater))
	for _, list := range [][]Item{c.Items, c.SavedForLater} {
		for _, item := range list {
			if _, ok := seen[item.ProductID]; ok {
				continue
			}
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}

// BeginCheckout starts a checkout session at the address step
func (c *Cart) BeginCheckout(now time.Time) (*CheckoutState, error) {
	if c.IsEmpty() {
		return nil, ErrCartEmpty
	}
	c.Checkout = &CheckoutState{
		SessionID: uuid.New(),
		Step:      CheckoutStepAddress,
		StartedAt: now,
	}
	c.touch()
	return c.Checkout, nil
}

// CheckoutSession returns the checkout state when sessionID matches the
// active checkout.
func (c *Cart) CheckoutSession(sessionID uuid.UUID) (*CheckoutState, error) {
	if c.Checkout == nil || c.Checkout.SessionID != sessionID {
		return nil, ErrCheckoutNotFound
	}
	return c.Checkout, nil
}

// SaveAddress stores the shipping address and advances to the payment step
func (c *Cart) SaveAddress(sessionID uuid.UUID, address ShippingAddress) error {
	state, err := c.CheckoutSession(sessionID)
	if err != nil {
		return err
	}
	state.Address = &address
	state.Step = CheckoutStepPayment
	c.touch()
	return nil
}

// ClearAfterOrder empties the cart once an order is placed. Saved items and
// recently viewed products are kept.
func (c *Cart) ClearAfterOrder() {
	c.Items = []Item{}
	c.AppliedCoupon = nil
	c.GiftWrap = false
	c.Checkout = nil
	c.touch()
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
}
