package checkout

import (
	"time"

	"github.com/google/uuid"
	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/cart"
)

// AddressRequest is the shipping step of checkout
type AddressRequest struct {
	FirstName  string `json:"first_name" binding:"required,max=100"`
	LastName   string `json:"last_name" binding:"required,max=100"`
	Email      string `json:"email" binding:"required,email,max=254"`
	Phone      string `json:"phone" binding:"required,max=20,phone"`
	Address    string `json:"address" binding:"required,max=500"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"required,max=100"`
	Zipcode    string `json:"zipcode" binding:"required,max=10"`
	OrderNotes string `json:"order_notes" binding:"max=1000"`
}

func (r AddressRequest) toAddress() cart.ShippingAddress {
	return cart.ShippingAddress{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Phone:      r.Phone,
		Address:    r.Address,
		City:       r.City,
		State:      r.State,
		Zipcode:    r.Zipcode,
		OrderNotes: r.OrderNotes,
	}
}

// PlaceOrderRequest is the payment step of checkout. Customer fields are
// optional and override the saved address.
type PlaceOrderRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=cod online upi"`
	FirstName     string `json:"first_name" binding:"max=100"`
	LastName      string `json:"last_name" binding:"max=100"`
	Email         string `json:"email" binding:"omitempty,email,max=254"`
	Phone         string `json:"phone" binding:"max=20"`
	Address       string `json:"address" binding:"max=500"`
	City          string `json:"city" binding:"max=100"`
	State         string `json:"state" binding:"max=100"`
	Zipcode       string `json:"zipcode" binding:"max=10"`
	OrderNotes    string `json:"order_notes" binding:"max=1000"`
}

func (r PlaceOrderRequest) overrides() cart.ShippingAddress {
	return cart.ShippingAddress{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Phone:      r.Phone,
		Address:    r.Address,
		City:       r.City,
		State:      r.State,
		Zipcode:    r.Zipcode,
		OrderNotes: r.OrderNotes,
	}
}

// StateResponse describes the checkout session
type StateResponse struct {
	SessionID uuid.UUID             `json:"session_id"`
	Step      cart.CheckoutStep     `json:"step"`
	Address   *cart.ShippingAddress `json:"address,omitempty"`
	StartedAt time.Time             `json:"started_at"`
}

func toStateResponse(state *cart.CheckoutState) *StateResponse {
	return &StateResponse{
		SessionID: state.SessionID,
		Step:      state.Step,
		Address:   state.Address,
		StartedAt: state.StartedAt,
	}
}

// ReviewResponse is the order summary shown before payment
type ReviewResponse struct {
	Checkout StateResponse  `json:"checkout"`
	Items    []cartapp.Line `json:"items"`
	Totals   cart.Totals    `json:"totals"`
	// CouponMessage explains why an applied coupon no longer counts
	CouponMessage string `json:"coupon_message,omitempty"`
}
