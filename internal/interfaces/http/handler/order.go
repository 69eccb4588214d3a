package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// OrderService reads and manages placed orders
type OrderService interface {
	GetByID(ctx context.Context, orderID uuid.UUID) (*tradeapp.OrderResponse, error)
	ListForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) (shared.Paginated[tradeapp.OrderResponse], error)
	List(ctx context.Context, query tradeapp.OrderListQuery) (shared.Paginated[tradeapp.OrderResponse], error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, req tradeapp.UpdateStatusRequest) (*tradeapp.OrderResponse, error)
	MarkPaid(ctx context.Context, orderID uuid.UUID, req tradeapp.MarkPaidRequest) (*tradeapp.OrderResponse, error)
	BulkUpdateStatus(ctx context.Context, req tradeapp.BulkStatusRequest) (*tradeapp.BulkStatusResult, error)
	Export(ctx context.Context, query tradeapp.OrderListQuery, w io.Writer) error
}

// OrderHandler serves the order confirmation, account history and
// back-office order endpoints
type OrderHandler struct {
	BaseHandler
	orders OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// GetConfirmation godoc
// @ID           getOrderConfirmation
// @Summary      Order confirmation
// @Description  Returns a placed order with its items and totals
// @Tags         orders
// @Produce      json
// @Param        order_id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{order_id} [get]
func (h *OrderHandler) GetConfirmation(c *gin.Context) {
	orderID, ok := h.parseUUIDParam(c, "order_id")
	if !ok {
		return
	}
	order, err := h.orders.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ListMine godoc
// @ID           listMyOrders
// @Summary      My orders
// @Description  Orders placed while signed in, newest first
// @Tags         account
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse,meta=dto.Meta}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /account/orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var page dto.PageRequest
	if !h.bindQuery(c, &page) {
		return
	}
	page = page.Normalize()

	result, err := h.orders.ListForUser(c.Request.Context(), userID, page.Page, page.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(result))
}

// List godoc
// @ID           adminListOrders
// @Summary      List orders (admin)
// @Tags         admin-orders
// @Produce      json
// @Param        status query string false "Order status" Enums(pending, processing, shipped, delivered, cancelled)
// @Param        search query string false "Customer name, email or phone"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var query tradeapp.OrderListQuery
	if !h.bindQuery(c, &query) {
		return
	}
	result, err := h.orders.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(result))
}

// Export godoc
// @ID           adminExportOrders
// @Summary      Export orders as CSV
// @Description  Streams every order matching the filters as a CSV attachment
// @Tags         admin-orders
// @Produce      text/csv
// @Param        status query string false "Order status"
// @Param        search query string false "Customer name, email or phone"
// @Success      200 {file} file
// @Security     BearerAuth
// @Router       /admin/orders/export [get]
func (h *OrderHandler) Export(c *gin.Context) {
	var query tradeapp.OrderListQuery
	if !h.bindQuery(c, &query) {
		return
	}

	header := c.Writer.Header()
	header.Set("Content-Type", "text/csv; charset=utf-8")
	header.Set("Content-Disposition", `attachment; filename="`+tradeapp.ExportFilename+`"`)

	if err := h.orders.Export(c.Request.Context(), query, c.Writer); err != nil {
		if !c.Writer.Written() {
			header.Del("Content-Type")
			header.Del("Content-Disposition")
			h.HandleError(c, err)
			return
		}
		logger.L(c.Request.Context()).Error("Order export aborted mid-stream", zap.Error(err))
	}
}

// UpdateStatus godoc
// @ID           adminUpdateOrderStatus
// @Summary      Update order status
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body tradeapp.UpdateStatusRequest true "New status"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/status [post]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orders.UpdateStatus(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// MarkPaid godoc
// @ID           adminMarkOrderPaid
// @Summary      Mark order paid
// @Description  Sets the payment flag. An omitted "paid" marks the order paid.
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body tradeapp.MarkPaidRequest false "Payment flag"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/mark-paid [post]
func (h *OrderHandler) MarkPaid(c *gin.Context) {
	orderID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req tradeapp.MarkPaidRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orders.MarkPaid(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// BulkUpdateStatus godoc
// @ID           adminBulkUpdateOrderStatus
// @Summary      Bulk update order status
// @Description  Applies the status to each order independently and reports which succeeded
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.BulkStatusRequest true "Orders and status"
// @Success      200 {object} dto.Response{data=tradeapp.BulkStatusResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/bulk-status [post]
func (h *OrderHandler) BulkUpdateStatus(c *gin.Context) {
	var req tradeapp.BulkStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.orders.BulkUpdateStatus(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
