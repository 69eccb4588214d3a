package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// Config holds the checkout settings
type Config struct {
	Pricing      cart.Pricing
	ImageBaseURL string
}

// Service drives the checkout flow from a session cart to a placed order
type Service struct {
	store          cart.Store
	productRepo    catalog.ProductRepository
	coupons        cartapp.CouponLookup
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	config         Config
	logger         *zap.Logger
	now            func() time.Time
}

// NewService creates a new checkout Service
func NewService(
	store cart.Store,
	productRepo catalog.ProductRepository,
	coupons cartapp.CouponLookup,
	txScope TransactionScope,
	config Config,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:       store,
		productRepo: productRepo,
		coupons:     coupons,
		txScope:     txScope,
		config:      config,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the publisher for OrderPlaced events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Begin starts a checkout session for a non-empty cart
func (s *Service) Begin(ctx context.Context, sessionID string) (*StateResponse, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state, err := c.BeginCheckout(s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return toStateResponse(state), nil
}

// SaveAddress stores the shipping address and moves to the payment step
func (s *Service) SaveAddress(ctx context.Context, sessionID string, checkoutID uuid.UUID, req AddressRequest) (*StateResponse, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := c.SaveAddress(checkoutID, req.toAddress()); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return toStateResponse(c.Checkout), nil
}

// Review prices the cart with current catalog prices. A coupon that no
// longer applies is left out of the totals and explained in CouponMessage.
func (s *Service) Review(ctx context.Context, sessionID string, checkoutID uuid.UUID) (*ReviewResponse, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state, err := c.CheckoutSession(checkoutID)
	if err != nil {
		return nil, err
	}
	q, err := s.quote(ctx, c)
	if err != nil {
		return nil, err
	}

	review := &ReviewResponse{Checkout: *toStateResponse(state)}
	applied, err := s.revalidateCoupon(ctx, c, q.subtotal)
	if err != nil {
		var domainErr *shared.DomainError
		if !errors.As(err, &domainErr) {
			return nil, err
		}
		review.CouponMessage = domainErr.Message
		applied = nil
	}

	review.Items = s.lines(q)
	review.Totals = cart.ComputeTotals(q.subtotal, q.count, applied, c.GiftWrap, s.config.Pricing)
	return review, nil
}

// PlaceOrder turns the cart into an order. Items are re-priced, the coupon
// is re-validated, and stock, coupon usage and the order are written in one
// transaction. The cart is cleared afterwards and OrderPlaced is published.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, checkoutID uuid.UUID, userID *uuid.UUID, req PlaceOrderRequest) (*tradeapp.OrderResponse, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state, err := c.CheckoutSession(checkoutID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, cart.ErrCartEmpty
	}

	q, err := s.quote(ctx, c)
	if err != nil {
		return nil, err
	}
	applied, err := s.revalidateCoupon(ctx, c, q.subtotal)
	if err != nil {
		return nil, err
	}
	totals := cart.ComputeTotals(q.subtotal, q.count, applied, c.GiftWrap, s.config.Pricing)

	address := cart.ShippingAddress{}
	if state.Address != nil {
		address = *state.Address
	}
	address = address.Merge(req.overrides())

	order, err := s.buildOrder(q, address, trade.PaymentMethod(req.PaymentMethod), totals)
	if err != nil {
		return nil, err
	}
	if userID != nil {
		order.AssignUser(*userID)
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, item := range order.Items {
			if err := repos.ProductRepo().DecrementStock(ctx, item.ProductID, item.SizeID, item.Quantity); err != nil {
				if errors.Is(err, shared.ErrInsufficientStock) {
					return insufficientStock(item)
				}
				return err
			}
		}
		if order.CouponCode != "" {
			if err := repos.CouponRepo().Redeem(ctx, order.CouponCode); err != nil {
				return err
			}
		}
		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	c.ClearAfterOrder()
	if err := s.store.Save(ctx, c); err != nil {
		s.logger.Error("failed to clear cart after order",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}

	if err := shared.PublishPending(ctx, s.eventPublisher, order); err != nil {
		s.logger.Error("failed to publish order placed event",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_method", string(order.PaymentMethod)),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)),
		zap.Int("items", len(order.Items)),
	)

	response := tradeapp.ToOrderResponse(order)
	return &response, nil
}

type pricedLine struct {
	item    cart.Item
	product *catalog.Product
	price   decimal.Decimal
}

type quote struct {
	lines    []pricedLine
	subtotal decimal.Decimal
	count    int
}

// quote prices every cart line with the current catalog. Lines whose
// product is gone are skipped.
func (s *Service) quote(ctx context.Context, c *cart.Cart) (*quote, error) {
	ids := c.ProductIDs()
	if len(ids) == 0 {
		return nil, cart.ErrCartEmpty
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	q := &quote{subtotal: decimal.Zero}
	for _, item := range c.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		if _, ok := product.AvailableFor(item.SizeID); !ok {
			return nil, cart.ErrSizeUnavailable
		}
		price := product.PriceFor(item.SizeID)
		q.lines = append(q.lines, pricedLine{item: item, product: product, price: price})
		q.subtotal = q.subtotal.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		q.count += item.Quantity
	}
	if len(q.lines) == 0 {
		return nil, cart.ErrCartEmpty
	}
	return q, nil
}

// revalidateCoupon checks the applied coupon against subtotal and returns
// the discount it grants now.
func (s *Service) revalidateCoupon(ctx context.Context, c *cart.Cart, subtotal decimal.Decimal) (*cart.AppliedCoupon, error) {
	if c.AppliedCoupon == nil {
		return nil, nil
	}
	coupon, err := s.coupons.Lookup(ctx, c.AppliedCoupon.Code)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := coupon.Validate(subtotal, now); err != nil {
		return nil, err
	}
	return &cart.AppliedCoupon{
		Code:     coupon.Code,
		Discount: coupon.CalculateDiscount(subtotal, now),
	}, nil
}

func (s *Service) buildOrder(q *quote, address cart.ShippingAddress, method trade.PaymentMethod, totals cart.Totals) (*trade.Order, error) {
	order, err := trade.NewOrder(trade.Customer{
		FullName: address.FullName(),
		Email:    strings.TrimSpace(address.Email),
		Phone:    strings.TrimSpace(address.Phone),
		Address:  strings.TrimSpace(address.Address),
		City:     strings.TrimSpace(address.City),
		State:    strings.TrimSpace(address.State),
		Pincode:  strings.TrimSpace(address.Zipcode),
	}, method, strings.TrimSpace(address.OrderNotes))
	if err != nil {
		return nil, err
	}

	for _, line := range q.lines {
		sizeName := line.product.SizeName(line.item.SizeID)
		if _, err := order.AddItem(line.product.ID, line.product.Name, line.item.SizeID, sizeName, line.item.Quantity, line.price); err != nil {
			return nil, err
		}
	}

	if err := order.SetTotals(trade.OrderTotals{
		Subtotal:       totals.Subtotal,
		CouponCode:     totals.CouponCode,
		CouponDiscount: totals.CouponDiscount,
		ShippingCost:   totals.ShippingCost,
		GiftWrapCost:   totals.GiftWrapCost,
		TotalAmount:    totals.Total,
	}); err != nil {
		return nil, err
	}
	if err := order.Place(); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) lines(q *quote) []cartapp.Line {
	out := make([]cartapp.Line, len(q.lines))
	for i, line := range q.lines {
		p := line.product
		available, _ := p.AvailableFor(line.item.SizeID)
		out[i] = cartapp.Line{
			Key:         line.item.Key().String(),
			ProductID:   p.ID,
			ProductName: p.Name,
			Slug:        p.Slug,
			Image:       catalogapp.ImageURL(p.Image, s.config.ImageBaseURL),
			SizeID:      line.item.SizeID,
			SizeName:    p.SizeName(line.item.SizeID),
			Quantity:    line.item.Quantity,
			Price:       line.price,
			LineTotal:   line.price.Mul(decimal.NewFromInt(int64(line.item.Quantity))),
			Available:   available,
			StockStatus: string(catalog.StockStatusFor(available)),
		}
		if out[i].SizeName != "" {
			out[i].SizeDisplayName = catalog.SizeName(out[i].SizeName).DisplayName()
		}
	}
	return out
}

func insufficientStock(item trade.OrderItem) error {
	name := item.ProductName
	if item.SizeName != "" {
		name += " (" + item.SizeName + ")"
	}
	return shared.NewDomainError(cart.CodeInsufficientStock, fmt.Sprintf("Not enough stock for %s.", name))
}
