package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	cartapp "github.com/storefront/backend/internal/application/cart"
)

// CartService is the session cart
type CartService interface {
	View(ctx context.Context, sessionID string) (*cartapp.View, error)
	Count(ctx context.Context, sessionID string) (int, error)
	Add(ctx context.Context, sessionID string, req cartapp.ItemRequest) (*cartapp.CountResponse, error)
	Remove(ctx context.Context, sessionID string, req cartapp.ItemRequest) (*cartapp.CountResponse, error)
	UpdateQuantity(ctx context.Context, sessionID string, req cartapp.ItemRequest) (*cartapp.CountResponse, error)
	BulkUpdate(ctx context.Context, sessionID string, req cartapp.BulkUpdateRequest) (*cartapp.CountResponse, error)
	SetGiftWrap(ctx context.Context, sessionID string, on bool) (*cartapp.CountResponse, error)
	SaveForLater(ctx context.Context, sessionID string, req cartapp.ItemRequest) (*cartapp.CountResponse, error)
	MoveToCart(ctx context.Context, sessionID string, req cartapp.ItemRequest) (*cartapp.CountResponse, error)
	ApplyCoupon(ctx context.Context, sessionID string, code string) (*cartapp.View, error)
	RemoveCoupon(ctx context.Context, sessionID string) (*cartapp.View, error)
}

// CartHandler serves the cart endpoints. Every call is scoped to the
// shopper's session.
type CartHandler struct {
	BaseHandler
	cart CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cart CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

// CartCountData is the body of the count endpoint
type CartCountData struct {
	CartCount int `json:"cart_count" example:"3"`
}

// View godoc
// @ID           getCart
// @Summary      View cart
// @Description  Priced lines, saved-for-later items, totals, suggestions and recently viewed products
// @Tags         cart
// @Produce      json
// @Param        X-Session-ID header string false "Session ID (cookie is used when absent)"
// @Success      200 {object} dto.Response{data=cartapp.View}
// @Router       /cart [get]
func (h *CartHandler) View(c *gin.Context) {
	sessionID, ok := h.requireSession(c)
	if !ok {
		return
	}
	view, err := h.cart.View(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Count godoc
// @ID           getCartCount
// @Summary      Cart item count
// @Description  Sum of line quantities in the cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=CartCountData}
// @Router       /cart/count [get]
func (h *CartHandler) Count(c *gin.Context) {
	sessionID, ok := h.requireSession(c)
	if !ok {
		return
	}
	count, err := h.cart.Count(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CartCountData{CartCount: count})
}

// Add godoc
// @ID           addCartItem
// @Summary      Add to cart
// @Description  Adds quantity (default 1) of the product and size. Fails when the result would exceed available stock.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.ItemRequest true "Item"
// @Success      200 {object} dto.Response{data=cartapp.CountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart/items [post]
func (h *CartHandler) Add(c *gin.Context) {
	h.itemAction(c, h.cart.Add)
}

// UpdateQuantity godoc
// @ID           updateCartItem
// @Summary      Set line quantity
// @Description  Sets the quantity of a line. Zero removes it.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.ItemRequest true "Item"
// @Success      200 {object} dto.Response{data=cartapp.CountResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart/items [put]
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	h.itemAction(c, h.cart.UpdateQuantity)
}

// Remove godoc
// @ID           removeCartItem
// @Summary      Remove from cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.ItemRequest true "Item"
// @Success      200 {object} dto.Response{data=cartapp.CountResponse}
// @Router       /cart/items [delete]
func (h *CartHandler) Remove(c *gin.Context) {
	h.itemAction(c, h.cart.Remove)
}

// SaveForLater godoc
// @ID           saveCartItemForLater
// @Summary      Save for later
// @Description  Moves a line from the cart to the saved-for-later list
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.ItemRequest true "Item"
// @Success      200 {object} dto.Response{data=cartapp.CountResponse}
// @Router       /cart/save-for-later [post]
func (h *CartHandler) SaveForLater(c *gin.Context) {
	h.itemAction(c, h.cart.SaveForLater)
}

// MoveToCart godoc
// @ID           moveSavedItemToCart
// @Summary      Move to cart
// @Description  Moves a saved-for-later line back into the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.ItemRequest true "Item"
// @Success      200 {object} dto.Response{data=cartapp.CountResponse}
// @Router       /cart/move-to-cart [post]
func (h *CartHandler) MoveToCart(c *gin.Context) {
	h.itemAction(c, h.cart.MoveToCart)
}

// BulkUpdate godoc
// @ID           bulkUpdateCart
// @Summary      Bulk update quantities
// @Description  Sets quantities for several lines keyed by line key. Zero removes the line.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.BulkUpdateRequest true "Quantities"
// @Success      200 {object} dto.Response{data=cartapp.CountResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart/items [patch]
func (h *CartHandler) BulkUpdate(c *gin.Context) {
	sessionID, ok := h.requireSession(c)
	if !ok {
		return
	}
	var req cartapp.BulkUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.cart.BulkUpdate(c.Request.Context(), sessionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetGiftWrap godoc
// @ID           setCartGiftWrap
// @Summary      Toggle gift wrap
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.GiftWrapRequest true "Gift wrap"
// @Success      200 {object} dto.Response{data=cartapp.CountResponse}
// @Router       /cart/gift-wrap [post]
func (h *CartHandler) SetGiftWrap(c *gin.Context) {
	sessionID, ok := h.requireSession(c)
	if !ok {
		return
	}
	var req cartapp.GiftWrapRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.cart.SetGiftWrap(c.Request.Context(), sessionID, req.GiftWrap)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ApplyCoupon godoc
// @ID           applyCartCoupon
// @Summary      Apply coupon
// @Description  Validates the code against the cart subtotal and returns the repriced cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.CouponRequest true "Coupon code"
// @Success      200 {object} dto.Response{data=cartapp.View}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart/coupon [post]
func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	sessionID, ok := h.requireSession(c)
	if !ok {
		return
	}
	var req cartapp.CouponRequest
	if !h.bindJSON(c, &req) {
		return
	}
	view, err := h.cart.ApplyCoupon(c.Request.Context(), sessionID, req.Code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// RemoveCoupon godoc
// @ID           removeCartCoupon
// @Summary      Remove coupon
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=cartapp.View}
// @Router       /cart/coupon [delete]
func (h *CartHandler) RemoveCoupon(c *gin.Context) {
	sessionID, ok := h.requireSession(c)
	if !ok {
		return
	}
	view, err := h.cart.RemoveCoupon(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

type itemActionFunc func(ctx context.Context, sessionID string, req cartapp.ItemRequest) (*cartapp.CountResponse, error)

func (h *CartHandler) itemAction(c *gin.Context, action itemActionFunc) {
	sessionID, ok := h.requireSession(c)
	if !ok {
		return
	}
	var req cartapp.ItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := action(c.Request.Context(), sessionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
