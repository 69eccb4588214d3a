package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/trade"
)

// OrderModel is the persistence model for the Order aggregate. The customer
// and totals are flattened into the orders table.
type OrderModel struct {
	AggregateModel
	UserID         *uuid.UUID          `gorm:"type:uuid;index"`
	FullName       string              `gorm:"type:varchar(200);not null"`
	Email          string              `gorm:"type:varchar(254);not null;index"`
	Phone          string              `gorm:"type:varchar(20);not null"`
	Address        string              `gorm:"type:text;not null"`
	City           string              `gorm:"type:varchar(100);not null"`
	State          string              `gorm:"type:varchar(100);not null"`
	Pincode        string              `gorm:"type:varchar(10);not null"`
	Subtotal       decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	CouponCode     string              `gorm:"type:varchar(50)"`
	CouponDiscount decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	ShippingCost   decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	GiftWrapCost   decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount    decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentMethod  trade.PaymentMethod `gorm:"type:varchar(20);not null"`
	PaymentStatus  bool                `gorm:"not null;default:false"`
	Status         trade.OrderStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	TrackingNumber string              `gorm:"type:varchar(100)"`
	Notes          string              `gorm:"type:text"`
	Items          []OrderItemModel    `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *trade.Order {
	o := &trade.Order{
		BaseAggregateRoot: m.root(),
		UserID:            m.UserID,
		Customer: trade.Customer{
			FullName: m.FullName,
			Email:    m.Email,
			Phone:    m.Phone,
			Address:  m.Address,
			City:     m.City,
			State:    m.State,
			Pincode:  m.Pincode,
		},
		OrderTotals: trade.OrderTotals{
			Subtotal:       m.Subtotal,
			CouponCode:     m.CouponCode,
			CouponDiscount: m.CouponDiscount,
			ShippingCost:   m.ShippingCost,
			GiftWrapCost:   m.GiftWrapCost,
			TotalAmount:    m.TotalAmount,
		},
		PaymentMethod:  m.PaymentMethod,
		PaymentStatus:  m.PaymentStatus,
		Status:         m.Status,
		TrackingNumber: m.TrackingNumber,
		Notes:          m.Notes,
		Items:          make([]trade.OrderItem, len(m.Items)),
	}
	for i := range m.Items {
		o.Items[i] = m.Items[i].ToDomain()
	}
	return o
}

// FromDomain populates the persistence model, items included.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.AggregateModel = aggregateColumns(o.BaseAggregateRoot)
	m.UserID = o.UserID
	m.FullName = o.FullName
	m.Email = o.Email
	m.Phone = o.Phone
	m.Address = o.Address
	m.City = o.City
	m.State = o.State
	m.Pincode = o.Pincode
	m.Subtotal = o.Subtotal
	m.CouponCode = o.CouponCode
	m.CouponDiscount = o.CouponDiscount
	m.ShippingCost = o.ShippingCost
	m.GiftWrapCost = o.GiftWrapCost
	m.TotalAmount = o.TotalAmount
	m.PaymentMethod = o.PaymentMethod
	m.PaymentStatus = o.PaymentStatus
	m.Status = o.Status
	m.TrackingNumber = o.TrackingNumber
	m.Notes = o.Notes
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i] = OrderItemModelFromDomain(o.Items[i])
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is a priced line snapshot of an order.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	SizeID      *uuid.UUID      `gorm:"type:uuid"`
	SizeName    string          `gorm:"type:varchar(10)"`
	Quantity    int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() trade.OrderItem {
	return trade.OrderItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		SizeID:      m.SizeID,
		SizeName:    m.SizeName,
		Quantity:    m.Quantity,
		Price:       m.Price,
	}
}

// OrderItemModelFromDomain creates a persistence model from a domain OrderItem.
func OrderItemModelFromDomain(item trade.OrderItem) OrderItemModel {
	return OrderItemModel{
		ID:          item.ID,
		OrderID:     item.OrderID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		SizeID:      item.SizeID,
		SizeName:    item.SizeName,
		Quantity:    item.Quantity,
		Price:       item.Price,
	}
}
