package trade

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Mailer sends plain-text email
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// OrderMetrics records placed orders. Implemented by telemetry.
type OrderMetrics interface {
	RecordOrderPlaced(ctx context.Context, total decimal.Decimal, paymentMethod string, units int)
}

// NotificationConfig holds the addresses used by order notifications
type NotificationConfig struct {
	StoreName  string
	OwnerEmail string
	SiteURL    string
}

// OrderPlacedHandler emails the customer and the store owner when an order
// is placed. Mail failures are logged and never returned, so a placed order
// is not affected by them.
type OrderPlacedHandler struct {
	mailer  Mailer
	metrics OrderMetrics
	config  NotificationConfig
	logger  *zap.Logger
}

// NewOrderPlacedHandler creates a new OrderPlacedHandler. metrics may be nil.
func NewOrderPlacedHandler(mailer Mailer, metrics OrderMetrics, config NotificationConfig, logger *zap.Logger) *OrderPlacedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.StoreName == "" {
		config.StoreName = "Our Store"
	}
	return &OrderPlacedHandler{
		mailer:  mailer,
		metrics: metrics,
		config:  config,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderPlacedHandler) EventTypes() []string {
	return []string{trade.EventTypeOrderPlaced}
}

// Handle sends the confirmation and owner notification emails
func (h *OrderPlacedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	placed, ok := event.(*trade.OrderPlacedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", trade.EventTypeOrderPlaced),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypeOrderPlaced, event.EventType())
	}

	if h.metrics != nil {
		units := 0
		for _, item := range placed.Items {
			units += item.Quantity
		}
		h.metrics.RecordOrderPlaced(ctx, placed.TotalAmount, string(placed.PaymentMethod), units)
	}

	if h.mailer == nil {
		return nil
	}

	if placed.Email != "" {
		subject := fmt.Sprintf("Order Confirmation - Order #%s", placed.OrderID)
		if err := h.mailer.Send(ctx, []string{placed.Email}, subject, h.customerBody(placed)); err != nil {
			h.logger.Error("failed to send order confirmation email",
				zap.String("order_id", placed.OrderID.String()),
				zap.Error(err),
			)
		}
	}

	if h.config.OwnerEmail != "" {
		subject := fmt.Sprintf("New Order Received - Order #%s", placed.OrderID)
		if err := h.mailer.Send(ctx, []string{h.config.OwnerEmail}, subject, h.ownerBody(placed)); err != nil {
			h.logger.Error("failed to send owner order notification",
				zap.String("order_id", placed.OrderID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (h *OrderPlacedHandler) customerBody(e *trade.OrderPlacedEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", displayName(e.FullName))
	fmt.Fprintf(&b, "Thank you for shopping with %s! We have received your order and it is being processed.\n\n", h.config.StoreName)
	fmt.Fprintf(&b, "Order ID: %s\n", e.OrderID)
	fmt.Fprintf(&b, "Order Date: %s\n", e.OccurredAt().Format("02 Jan 2006, 15:04"))
	fmt.Fprintf(&b, "Payment Method: %s\n\n", e.PaymentMethod.Label())
	writeItems(&b, e)
	writeTotals(&b, e)
	b.WriteString("\nShipping Address:\n")
	writeAddress(&b, e)
	if h.config.SiteURL != "" {
		fmt.Fprintf(&b, "\nTrack your order: %s/orders/%s\n", strings.TrimRight(h.config.SiteURL, "/"), e.OrderID)
	}
	fmt.Fprintf(&b, "\nThank you,\n%s\n", h.config.StoreName)
	return b.String()
}

func (h *OrderPlacedHandler) ownerBody(e *trade.OrderPlacedEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A new order has been placed.\n\n")
	fmt.Fprintf(&b, "Order ID: %s\n", e.OrderID)
	fmt.Fprintf(&b, "Date: %s\n", e.OccurredAt().Format("02 Jan 2006, 15:04"))
	fmt.Fprintf(&b, "Payment Method: %s\n\n", e.PaymentMethod.Label())
	b.WriteString("Customer:\n")
	writeAddress(&b, e)
	fmt.Fprintf(&b, "Email: %s\n\n", e.Email)
	writeItems(&b, e)
	writeTotals(&b, e)
	if e.Notes != "" {
		fmt.Fprintf(&b, "\nOrder Notes:\n%s\n", e.Notes)
	}
	return b.String()
}

func writeItems(b *strings.Builder, e *trade.OrderPlacedEvent) {
	b.WriteString("Items:\n")
	for _, item := range e.Items {
		name := item.ProductName
		if item.SizeName != "" {
			name += " (" + item.SizeName + ")"
		}
		line := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		fmt.Fprintf(b, "- %dx %s @ %s = %s\n", item.Quantity, name, rupees(item.Price), rupees(line))
	}
	b.WriteString("\n")
}

func writeTotals(b *strings.Builder, e *trade.OrderPlacedEvent) {
	fmt.Fprintf(b, "Subtotal: %s\n", rupees(e.Subtotal))
	if e.CouponCode != "" {
		fmt.Fprintf(b, "Coupon (%s): -%s\n", e.CouponCode, rupees(e.CouponDiscount))
	}
	if e.ShippingCost.IsZero() {
		b.WriteString("Shipping: Free\n")
	} else {
		fmt.Fprintf(b, "Shipping: %s\n", rupees(e.ShippingCost))
	}
	if e.GiftWrapCost.IsPositive() {
		fmt.Fprintf(b, "Gift Wrap: %s\n", rupees(e.GiftWrapCost))
	}
	fmt.Fprintf(b, "Total: %s\n", rupees(e.TotalAmount))
}

func writeAddress(b *strings.Builder, e *trade.OrderPlacedEvent) {
	fmt.Fprintf(b, "%s\n%s\n%s, %s - %s\nPhone: %s\n", e.FullName, e.Address, e.City, e.State, e.Pincode, e.Phone)
}

// displayName title-cases a customer name. A Caser is stateful, so one is
// built per call.
func displayName(name string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(name))
}

func rupees(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}
