package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/trade"
)

// OrderItemResponse is an order line in API responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SizeID      *uuid.UUID      `json:"size_id,omitempty"`
	SizeName    string          `json:"size_name,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// OrderResponse is an order in API responses
type OrderResponse struct {
	OrderID            uuid.UUID           `json:"order_id"`
	UserID             *uuid.UUID          `json:"user_id,omitempty"`
	FullName           string              `json:"full_name"`
	Email              string              `json:"email"`
	Phone              string              `json:"phone"`
	Address            string              `json:"address"`
	City               string              `json:"city"`
	State              string              `json:"state"`
	Pincode            string              `json:"pincode"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	CouponCode         string              `json:"coupon_code,omitempty"`
	CouponDiscount     decimal.Decimal     `json:"coupon_discount"`
	ShippingCost       decimal.Decimal     `json:"shipping_cost"`
	GiftWrapCost       decimal.Decimal     `json:"gift_wrap_cost"`
	TotalAmount        decimal.Decimal     `json:"total_amount"`
	PaymentMethod      string              `json:"payment_method"`
	PaymentMethodLabel string              `json:"payment_method_label"`
	PaymentStatus      bool                `json:"payment_status"`
	PaymentStatusLabel string              `json:"payment_status_label"`
	Status             string              `json:"status"`
	StatusLabel        string              `json:"status_label"`
	TrackingNumber     string              `json:"tracking_number,omitempty"`
	Notes              string              `json:"notes,omitempty"`
	ItemCount          int                 `json:"item_count"`
	Items              []OrderItemResponse `json:"items"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// OrderListQuery filters the back-office order list and CSV export
type OrderListQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending processing shipped delivered cancelled"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UpdateStatusRequest moves an order to a new status
type UpdateStatusRequest struct {
	Status         string `json:"status" binding:"required,oneof=pending processing shipped delivered cancelled"`
	TrackingNumber string `json:"tracking_number" binding:"max=100"`
}

// MarkPaidRequest sets the payment status. Omitting paid marks the order paid.
type MarkPaidRequest struct {
	Paid *bool `json:"paid"`
}

// BulkStatusRequest moves several orders to the same status
type BulkStatusRequest struct {
	OrderIDs []uuid.UUID `json:"order_ids" binding:"required,min=1,max=100"`
	Status   string      `json:"status" binding:"required,oneof=pending processing shipped delivered cancelled"`
}

// BulkStatusFailure reports an order the bulk action could not move
type BulkStatusFailure struct {
	OrderID uuid.UUID `json:"order_id"`
	Error   string    `json:"error"`
}

// BulkStatusResult summarises a bulk status change
type BulkStatusResult struct {
	Updated []uuid.UUID         `json:"updated"`
	Failed  []BulkStatusFailure `json:"failed"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			SizeID:      item.SizeID,
			SizeName:    item.SizeName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			TotalPrice:  item.TotalPrice(),
		}
	}

	return OrderResponse{
		OrderID:            o.ID,
		UserID:             o.UserID,
		FullName:           o.FullName,
		Email:              o.Email,
		Phone:              o.Phone,
		Address:            o.Address,
		City:               o.City,
		State:              o.State,
		Pincode:            o.Pincode,
		Subtotal:           o.Subtotal,
		CouponCode:         o.CouponCode,
		CouponDiscount:     o.CouponDiscount,
		ShippingCost:       o.ShippingCost,
		GiftWrapCost:       o.GiftWrapCost,
		TotalAmount:        o.TotalAmount,
		PaymentMethod:      string(o.PaymentMethod),
		PaymentMethodLabel: o.PaymentMethod.Label(),
		PaymentStatus:      o.PaymentStatus,
		PaymentStatusLabel: o.PaymentStatusLabel(),
		Status:             o.Status.String(),
		StatusLabel:        o.Status.Label(),
		TrackingNumber:     o.TrackingNumber,
		Notes:              o.Notes,
		ItemCount:          o.ItemCount(),
		Items:              items,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}
