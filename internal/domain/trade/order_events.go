package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderItemInfo represents item information for events
type OrderItemInfo struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SizeName    string          `json:"size_name,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// OrderPlacedEvent is raised once an order has been committed. It carries
// everything the notification emails need.
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID       `json:"order_id"`
	FullName       string          `json:"full_name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	City           string          `json:"city"`
	State          string          `json:"state"`
	Pincode        string          `json:"pincode"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	CouponDiscount decimal.Decimal `json:"coupon_discount"`
	ShippingCost   decimal.Decimal `json:"shipping_cost"`
	GiftWrapCost   decimal.Decimal `json:"gift_wrap_cost"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	Notes          string          `json:"notes,omitempty"`
	Items          []OrderItemInfo `json:"items"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(order *Order) *OrderPlacedEvent {
	items := make([]OrderItemInfo, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemInfo{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			SizeName:    item.SizeName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		}
	}
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		FullName:        order.FullName,
		Email:           order.Email,
		Phone:           order.Phone,
		Address:         order.Address,
		City:            order.City,
		State:           order.State,
		Pincode:         order.Pincode,
		Subtotal:        order.Subtotal,
		CouponCode:      order.CouponCode,
		CouponDiscount:  order.CouponDiscount,
		ShippingCost:    order.ShippingCost,
		GiftWrapCost:    order.GiftWrapCost,
		TotalAmount:     order.TotalAmount,
		PaymentMethod:   order.PaymentMethod,
		Notes:           order.Notes,
		Items:           items,
	}
}

// OrderStatusChangedEvent is raised when an admin moves an order along
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID   `json:"order_id"`
	FromStatus     OrderStatus `json:"from_status"`
	ToStatus       OrderStatus `json:"to_status"`
	TrackingNumber string      `json:"tracking_number,omitempty"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, from OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		FromStatus:      from,
		ToStatus:        order.Status,
		TrackingNumber:  order.TrackingNumber,
	}
}
