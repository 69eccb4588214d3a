package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/promotion"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// CouponAdmin manages discount coupons
type CouponAdmin interface {
	List(ctx context.Context, query promotion.CouponQuery) (shared.Paginated[promotion.CouponResponse], error)
	GetByID(ctx context.Context, id uuid.UUID) (*promotion.CouponResponse, error)
	Create(ctx context.Context, req promotion.CouponRequest) (*promotion.CouponResponse, error)
	Update(ctx context.Context, id uuid.UUID, req promotion.CouponRequest) (*promotion.CouponResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CouponHandler serves the staff coupon endpoints
type CouponHandler struct {
	BaseHandler
	coupons CouponAdmin
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(coupons CouponAdmin) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

// List godoc
// @ID           adminListCoupons
// @Summary      List coupons
// @Tags         admin-coupons
// @Produce      json
// @Param        search query string false "Code"
// @Param        active query bool false "Active flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]promotion.CouponResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /admin/coupons [get]
func (h *CouponHandler) List(c *gin.Context) {
	var query promotion.CouponQuery
	if !h.bindQuery(c, &query) {
		return
	}
	result, err := h.coupons.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(result))
}

// Get godoc
// @ID           adminGetCoupon
// @Summary      Get coupon
// @Tags         admin-coupons
// @Produce      json
// @Param        id path string true "Coupon ID" format(uuid)
// @Success      200 {object} dto.Response{data=promotion.CouponResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/coupons/{id} [get]
func (h *CouponHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	coupon, err := h.coupons.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, coupon)
}

// Create godoc
// @ID           adminCreateCoupon
// @Summary      Create coupon
// @Description  Codes are stored upper-case and must be unique
// @Tags         admin-coupons
// @Accept       json
// @Produce      json
// @Param        request body promotion.CouponRequest true "Coupon"
// @Success      201 {object} dto.Response{data=promotion.CouponResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	var req promotion.CouponRequest
	if !h.bindJSON(c, &req) {
		return
	}
	coupon, err := h.coupons.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, coupon)
}

// Update godoc
// @ID           adminUpdateCoupon
// @Summary      Update coupon
// @Tags         admin-coupons
// @Accept       json
// @Produce      json
// @Param        id path string true "Coupon ID" format(uuid)
// @Param        request body promotion.CouponRequest true "Coupon"
// @Success      200 {object} dto.Response{data=promotion.CouponResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/coupons/{id} [put]
func (h *CouponHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req promotion.CouponRequest
	if !h.bindJSON(c, &req) {
		return
	}
	coupon, err := h.coupons.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, coupon)
}

// Delete godoc
// @ID           adminDeleteCoupon
// @Summary      Delete coupon
// @Tags         admin-coupons
// @Param        id path string true "Coupon ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/coupons/{id} [delete]
func (h *CouponHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.coupons.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
