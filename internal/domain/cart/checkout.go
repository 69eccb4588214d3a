package cart

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CheckoutStep is the step a checkout session is on
type CheckoutStep string

const (
	CheckoutStepAddress CheckoutStep = "address"
	CheckoutStepPayment CheckoutStep = "payment"
)

// ShippingAddress is the customer and delivery data collected at checkout
type ShippingAddress struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	Zipcode    string `json:"zipcode"`
	OrderNotes string `json:"order_notes,omitempty"`
}

// FullName joins first and last name
func (a ShippingAddress) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
}

// Merge returns a copy of a with every non-empty field of override applied
func (a ShippingAddress) Merge(override ShippingAddress) ShippingAddress {
	pick := func(base, over string) string {
		if strings.TrimSpace(over) != "" {
			return over
		}
		return base
	}
	return ShippingAddress{
		FirstName:  pick(a.FirstName, override.FirstName),
		LastName:   pick(a.LastName, override.LastName),
		Email:      pick(a.Email, override.Email),
		Phone:      pick(a.Phone, override.Phone),
		Address:    pick(a.Address, override.Address),
		City:       pick(a.City, override.City),
		State:      pick(a.State, override.State),
		Zipcode:    pick(a.Zipcode, override.Zipcode),
		OrderNotes: pick(a.OrderNotes, override.OrderNotes),
	}
}

// CheckoutState tracks an in-progress checkout on the cart
type CheckoutState struct {
	SessionID uuid.UUID        `json:"session_id"`
	Step      CheckoutStep     `json:"step"`
	Address   *ShippingAddress `json:"address,omitempty"`
	StartedAt time.Time        `json:"started_at"`
}
