package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	tradeapp "github.com/storefront/backend/internal/application/trade"
)

// CheckoutService runs the checkout state machine
type CheckoutService interface {
	Begin(ctx context.Context, sessionID string) (*checkoutapp.StateResponse, error)
	SaveAddress(ctx context.Context, sessionID string, checkoutID uuid.UUID, req checkoutapp.AddressRequest) (*checkoutapp.StateResponse, error)
	Review(ctx context.Context, sessionID string, checkoutID uuid.UUID) (*checkoutapp.ReviewResponse, error)
	PlaceOrder(ctx context.Context, sessionID string, checkoutID uuid.UUID, userID *uuid.UUID, req checkoutapp.PlaceOrderRequest) (*tradeapp.OrderResponse, error)
}

// CheckoutHandler serves the checkout endpoints
type CheckoutHandler struct {
	BaseHandler
	checkout CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkout CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Begin godoc
// @ID           beginCheckout
// @Summary      Start checkout
// @Description  Opens a checkout session for a non-empty cart
// @Tags         checkout
// @Produce      json
// @Success      201 {object} dto.Response{data=checkoutapp.StateResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /checkout [post]
func (h *CheckoutHandler) Begin(c *gin.Context) {
	sessionID, ok := h.requireSession(c)
	if !ok {
		return
	}
	state, err := h.checkout.Begin(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, state)
}

// Review godoc
// @ID           reviewCheckout
// @Summary      Review checkout
// @Description  Returns the checkout state with repriced lines and totals
// @Tags         checkout
// @Produce      json
// @Param        session_id path string true "Checkout session ID" format(uuid)
// @Success      200 {object} dto.Response{data=checkoutapp.ReviewResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /checkout/{session_id} [get]
func (h *CheckoutHandler) Review(c *gin.Context) {
	sessionID, ok := h.requireSession(c)
	if !ok {
		return
	}
	checkoutID, ok := h.parseUUIDParam(c, "session_id")
	if !ok {
		return
	}
	review, err := h.checkout.Review(c.Request.Context(), sessionID, checkoutID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, review)
}

// SaveAddress godoc
// @ID           saveCheckoutAddress
// @Summary      Save shipping address
// @Description  Stores the shipping address and advances the checkout to the payment step
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        session_id path string true "Checkout session ID" format(uuid)
// @Param        request body checkoutapp.AddressRequest true "Shipping address"
// @Success      200 {object} dto.Response{data=checkoutapp.StateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /checkout/{session_id}/address [put]
func (h *CheckoutHandler) SaveAddress(c *gin.Context) {
	sessionID, ok := h.requireSession(c)
	if !ok {
		return
	}
	checkoutID, ok := h.parseUUIDParam(c, "session_id")
	if !ok {
		return
	}
	var req checkoutapp.AddressRequest
	if !h.bindJSON(c, &req) {
		return
	}
	state, err := h.checkout.SaveAddress(c.Request.Context(), sessionID, checkoutID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, state)
}

// PlaceOrder godoc
// @ID           placeOrder
// @Summary      Place order
// @Description  Reprices the cart, decrements stock, redeems the coupon and creates the order in one transaction. Clears the cart on success. Signed-in customers get the order linked to their account.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        session_id path string true "Checkout session ID" format(uuid)
// @Param        request body checkoutapp.PlaceOrderRequest true "Payment method and optional address override"
// @Success      201 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /checkout/{session_id}/place-order [post]
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	sessionID, ok := h.requireSession(c)
	if !ok {
		return
	}
	checkoutID, ok := h.parseUUIDParam(c, "session_id")
	if !ok {
		return
	}
	var req checkoutapp.PlaceOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.checkout.PlaceOrder(c.Request.Context(), sessionID, checkoutID, optionalUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}
