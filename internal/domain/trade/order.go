package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderStatus represents the fulfilment status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// AllOrderStatuses lists the statuses in fulfilment order
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// Label returns the capitalized status used in exports and emails
func (s OrderStatus) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusProcessing || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PaymentMethod is how the customer pays
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodUPI    PaymentMethod = "upi"
)

// IsValid checks if the payment method is supported
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodOnline, PaymentMethodUPI:
		return true
	}
	return false
}

// Label returns the display name of the payment method
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMethodCOD:
		return "Cash on Delivery"
	case PaymentMethodOnline:
		return "Online Payment"
	case PaymentMethodUPI:
		return "UPI"
	}
	return string(m)
}

// OrderItem is a snapshot of a purchased line. Name, size and price are
// copied at order time and do not follow later catalog edits.
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	SizeID      *uuid.UUID
	SizeName    string
	Quantity    int
	Price       decimal.Decimal
}

// TotalPrice returns price * quantity, or zero when no price was recorded
func (i OrderItem) TotalPrice() decimal.Decimal {
	if i.Price.IsZero() {
		return decimal.Zero
	}
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Customer holds the contact and delivery fields of an order
type Customer struct {
	FullName string
	Email    string
	Phone    string
	Address  string
	City     string
	State    string
	Pincode  string
}

// OrderTotals is the persisted price breakdown of an order
type OrderTotals struct {
	Subtotal       decimal.Decimal
	CouponCode     string
	CouponDiscount decimal.Decimal
	ShippingCost   decimal.Decimal
	GiftWrapCost   decimal.Decimal
	TotalAmount    decimal.Decimal
}

// Order is a placed checkout. ID is the public order ID.
type Order struct {
	shared.BaseAggregateRoot
	UserID *uuid.UUID
	Customer
	OrderTotals
	PaymentMethod  PaymentMethod
	PaymentStatus  bool
	Status         OrderStatus
	TrackingNumber string
	Notes          string
	Items          []OrderItem
}

// NewOrder creates a pending, unpaid order
func NewOrder(customer Customer, method PaymentMethod, notes string) (*Order, error) {
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Please select a valid payment method.")
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Customer:          customer,
		OrderTotals: OrderTotals{
			Subtotal:       decimal.Zero,
			CouponDiscount: decimal.Zero,
			ShippingCost:   decimal.Zero,
			GiftWrapCost:   decimal.Zero,
			TotalAmount:    decimal.Zero,
		},
		PaymentMethod: method,
		Status:        OrderStatusPending,
		Notes:         notes,
		Items:         make([]OrderItem, 0),
	}, nil
}

// AddItem appends a line snapshot to the order
func (o *Order) AddItem(productID uuid.UUID, productName string, sizeID *uuid.UUID, sizeName string, quantity int, price decimal.Decimal) (*OrderItem, error) {
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	o.Items = append(o.Items, OrderItem{
		ID:          uuid.New(),
		OrderID:     o.ID,
		ProductID:   productID,
		ProductName: productName,
		SizeID:      sizeID,
		SizeName:    sizeName,
		Quantity:    quantity,
		Price:       price,
	})
	return &o.Items[len(o.Items)-1], nil
}

// ItemsTotal returns the sum of the line totals
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice())
	}
	return total
}

// ItemCount returns the number of units ordered
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// SetTotals records the price breakdown. The discount may not exceed the
// subtotal and the total may not be negative.
func (o *Order) SetTotals(totals OrderTotals) error {
	if totals.CouponDiscount.GreaterThan(totals.Subtotal) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the order amount")
	}
	if totals.TotalAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Order total cannot be negative")
	}
	o.OrderTotals = totals
	return nil
}

// Place finalizes a new order and raises OrderPlaced
func (o *Order) Place() error {
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot place an order without items")
	}
	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return nil
}

// AssignUser links the order to a registered user
func (o *Order) AssignUser(userID uuid.UUID) {
	o.UserID = &userID
}

// TransitionTo moves the order to target when the transition is legal.
// A tracking number is recorded when shipping.
func (o *Order) TransitionTo(target OrderStatus, trackingNumber string) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status: %s", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}

	from := o.Status
	o.Status = target
	if target == OrderStatusShipped && trackingNumber != "" {
		o.TrackingNumber = trackingNumber
	}
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))
	return nil
}

// Cancel cancels a pending or processing order
func (o *Order) Cancel() error {
	return o.TransitionTo(OrderStatusCancelled, "")
}

// MarkPaid sets the payment status
func (o *Order) MarkPaid(paid bool) {
	if o.PaymentStatus == paid {
		return
	}
	o.PaymentStatus = paid
	o.IncrementVersion()
}

// PaymentStatusLabel returns "Paid" or "Unpaid"
func (o *Order) PaymentStatusLabel() string {
	if o.PaymentStatus {
		return "Paid"
	}
	return "Unpaid"
}

// IsTerminal reports whether the order can no longer change status
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// PlacedAt returns the order creation time
func (o *Order) PlacedAt() time.Time {
	return o.CreatedAt
}

func validateCustomer(c Customer) error {
	for _, value := range []string{c.FullName, c.Email, c.Phone, c.Address, c.City, c.State, c.Pincode} {
		if strings.TrimSpace(value) == "" {
			return shared.NewDomainError("MISSING_CUSTOMER_FIELDS", "Please fill in all required fields.")
		}
	}
	return nil
}
