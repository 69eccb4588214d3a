package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared"
)

// ErrProductNotFound is returned when a cart operation names an unknown product
var ErrProductNotFound = shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found.")

// CouponLookup resolves shopper-entered coupon codes
type CouponLookup interface {
	Lookup(ctx context.Context, code string) (*promotion.Coupon, error)
}

// Metrics records cart activity. Implemented by telemetry.
type Metrics interface {
	RecordCartAdd(ctx context.Context, quantity int)
	RecordCouponApplied(ctx context.Context, code string, ok bool)
}

// Config holds the storefront settings the cart depends on
type Config struct {
	Pricing             cart.Pricing
	SuggestedCount      int
	RecentlyViewedLimit int
	// RecentlyViewedShown is how many recently viewed products the cart page lists
	RecentlyViewedShown int
	ImageBaseURL        string
}

// DefaultConfig returns the default cart configuration
func DefaultConfig() Config {
	return Config{
		Pricing:             cart.DefaultPricing(),
		SuggestedCount:      4,
		RecentlyViewedLimit: cart.DefaultRecentlyViewed,
		RecentlyViewedShown: 4,
	}
}

// Service handles session cart operations
type Service struct {
	store       cart.Store
	productRepo catalog.ProductRepository
	coupons     CouponLookup
	metrics     Metrics
	config      Config
	now         func() time.Time
}

// NewService creates a new cart Service. metrics may be nil.
func NewService(store cart.Store, productRepo catalog.ProductRepository, coupons CouponLookup, metrics Metrics, config Config) *Service {
	return &Service{
		store:       store,
		productRepo: productRepo,
		coupons:     coupons,
		metrics:     metrics,
		config:      config,
		now:         time.Now,
	}
}

// Count returns the number of units in the session's cart
func (s *Service) Count(ctx context.Context, sessionID string) (int, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return c.Count(), nil
}

// Add adds a product to the cart, checking stock against what is already
// in the cart.
func (s *Service) Add(ctx context.Context, sessionID string, req ItemRequest) (*CountResponse, error) {
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	product, err := s.findProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	count, err := c.Add(product, req.SizeID, req.Quantity)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordCartAdd(ctx, req.Quantity)
	}
	return &CountResponse{CartCount: count, Message: product.Name + " added to cart."}, nil
}

// Remove removes a line from the cart
func (s *Service) Remove(ctx context.Context, sessionID string, req ItemRequest) (*CountResponse, error) {
	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		if !c.Remove(req.ProductID, req.SizeID) {
			return cart.ErrItemNotFound
		}
		return nil
	})
}

// UpdateQuantity sets a line's quantity. Non-positive quantities leave the
// cart unchanged; quantities beyond stock are rejected.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, req ItemRequest) (*CountResponse, error) {
	if req.Quantity > 0 {
		product, err := s.findProduct(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}
		available, ok := product.AvailableFor(req.SizeID)
		if !ok {
			return nil, cart.ErrSizeUnavailable
		}
		if req.Quantity > available {
			return nil, cart.InsufficientStockError(available)
		}
	}
	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		c.UpdateQuantity(req.ProductID, req.SizeID, req.Quantity)
		return nil
	})
}

// BulkUpdate applies several quantity changes; zero or less removes a line
func (s *Service) BulkUpdate(ctx context.Context, sessionID string, req BulkUpdateRequest) (*CountResponse, error) {
	quantities := make(map[cart.ItemKey]int, len(req.Quantities))
	for raw, qty := range req.Quantities {
		key, err := cart.ParseItemKey(raw)
		if err != nil {
			return nil, err
		}
		quantities[key] = qty
	}
	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		c.BulkUpdate(quantities)
		return nil
	})
}

// SetGiftWrap toggles gift wrapping
func (s *Service) SetGiftWrap(ctx context.Context, sessionID string, on bool) (*CountResponse, error) {
	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		c.SetGiftWrap(on)
		return nil
	})
}

// SaveForLater moves a line to the saved list
func (s *Service) SaveForLater(ctx context.Context, sessionID string, req ItemRequest) (*CountResponse, error) {
	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		return c.SaveForLater(req.ProductID, req.SizeID)
	})
}

// MoveToCart moves a saved line back into the cart
func (s *Service) MoveToCart(ctx context.Context, sessionID string, req ItemRequest) (*CountResponse, error) {
	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		return c.MoveToCart(req.ProductID, req.SizeID)
	})
}

// ApplyCoupon validates a coupon against the cart subtotal and stores the
// discount.
func (s *Service) ApplyCoupon(ctx context.Context, sessionID string, code string) (*View, error) {
	coupon, err := s.coupons.Lookup(ctx, code)
	if err != nil {
		s.recordCoupon(ctx, code, false)
		return nil, err
	}

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyCoupon(coupon, s.now()); err != nil {
		s.recordCoupon(ctx, coupon.Code, false)
		return nil, err
	}
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	s.recordCoupon(ctx, coupon.Code, true)
	return s.View(ctx, sessionID)
}

// RemoveCoupon drops the applied coupon
func (s *Service) RemoveCoupon(ctx context.Context, sessionID string) (*View, error) {
	if _, err := s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		c.RemoveCoupon()
		return nil
	}); err != nil {
		return nil, err
	}
	return s.View(ctx, sessionID)
}

// TrackViewed records a product view in the session
func (s *Service) TrackViewed(ctx context.Context, sessionID string, productID uuid.UUID) error {
	_, err := s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		c.TrackViewed(productID, s.config.RecentlyViewedLimit)
		return nil
	})
	return err
}

// View returns the cart page: lines joined with products, totals,
// suggestions and recently viewed products. Lines whose product is gone are
// dropped.
func (s *Service) View(ctx context.Context, sessionID string) (*View, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ids := append(c.ProductIDs(), c.RecentlyViewed...)
	products, err := s.loadProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	if c.Normalize(func(id uuid.UUID) bool { _, ok := products[id]; return ok }) {
		if err := s.store.Save(ctx, c); err != nil {
			return nil, err
		}
	}

	view := &View{
		Items:          s.lines(c.Items, products),
		SavedForLater:  s.lines(c.SavedForLater, products),
		GiftWrap:       c.GiftWrap,
		AppliedCoupon:  c.AppliedCoupon,
		Totals:         c.Totals(s.config.Pricing),
		CartCount:      c.Count(),
		RecentlyViewed: []catalogapp.ProductResponse{},
	}
	view.FreeShippingRemaining = decimal.Max(decimal.Zero, s.config.Pricing.ShippingThreshold.Sub(view.Totals.Subtotal))

	suggested, err := s.productRepo.FindRandom(ctx, s.config.SuggestedCount, c.ProductIDs())
	if err != nil {
		return nil, err
	}
	view.Suggested = catalogapp.ToProductResponses(suggested, s.config.ImageBaseURL)

	for _, id := range c.RecentlyViewed {
		if len(view.RecentlyViewed) == s.config.RecentlyViewedShown {
			break
		}
		if p, ok := products[id]; ok {
			view.RecentlyViewed = append(view.RecentlyViewed, catalogapp.ToProductResponse(p, s.config.ImageBaseURL))
		}
	}
	return view, nil
}

func (s *Service) lines(items []cart.Item, products map[uuid.UUID]*catalog.Product) []Line {
	out := make([]Line, 0, len(items))
	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			continue
		}
		available, _ := p.AvailableFor(item.SizeID)
		line := Line{
			Key:         item.Key().String(),
			ProductID:   p.ID,
			ProductName: p.Name,
			Slug:        p.Slug,
			Image:       catalogapp.ImageURL(p.Image, s.config.ImageBaseURL),
			SizeID:      item.SizeID,
			SizeName:    p.SizeName(item.SizeID),
			Quantity:    item.Quantity,
			Price:       item.Price,
			LineTotal:   item.LineTotal(),
			Available:   available,
			StockStatus: string(catalog.StockStatusFor(available)),
		}
		if line.SizeName != "" {
			line.SizeDisplayName = catalog.SizeName(line.SizeName).DisplayName()
		}
		out = append(out, line)
	}
	return out
}

func (s *Service) mutate(ctx context.Context, sessionID string, fn func(c *cart.Cart) error) (*CountResponse, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return &CountResponse{CartCount: c.Count()}, nil
}

func (s *Service) findProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *Service) loadProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	byID := make(map[uuid.UUID]*catalog.Product, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

func (s *Service) recordCoupon(ctx context.Context, code string, ok bool) {
	if s.metrics != nil {
		s.metrics.RecordCouponApplied(ctx, code, ok)
	}
}
