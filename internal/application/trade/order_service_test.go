package trade

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *trade.Order {
	t.Helper()
	order, err := trade.NewOrder(trade.Customer{
		FullName: "asha rao",
		Email:    "asha@example.com",
		Phone:    "9876543210",
		Address:  "12 MG Road\nFlat 4",
		City:     "Pune",
		State:    "MH",
		Pincode:  "411001",
	}, trade.PaymentMethodCOD, "Leave at door")
	require.NoError(t, err)

	_, err = order.AddItem(uuid.New(), "Desi Ghee", nil, "", 2, decimal.NewFromInt(450))
	require.NoError(t, err)
	require.NoError(t, order.SetTotals(trade.OrderTotals{
		Subtotal:       decimal.NewFromInt(900),
		CouponDiscount: decimal.Zero,
		ShippingCost:   decimal.NewFromInt(50),
		GiftWrapCost:   decimal.Zero,
		TotalAmount:    decimal.NewFromInt(950),
	}))
	return order
}

func TestOrderService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := NewOrderService(repo, nil)
		order := newTestOrder(t)
		repo.On("FindByID", ctx, order.ID).Return(order, nil)

		resp, err := service.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, resp.OrderID)
		assert.Equal(t, "Cash on Delivery", resp.PaymentMethodLabel)
		assert.Equal(t, "Unpaid", resp.PaymentStatusLabel)
		assert.Equal(t, 2, resp.ItemCount)
		assert.Equal(t, "900", resp.Items[0].TotalPrice.String())
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := NewOrderService(repo, nil)
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := service.GetByID(ctx, id)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestOrderService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	service := NewOrderService(repo, nil)
	order := newTestOrder(t)

	matchesFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "pending" && f.Search == "asha" && f.Page == 2
	})
	repo.On("FindAll", ctx, matchesFilter).Return([]trade.Order{*order}, nil)
	repo.On("Count", ctx, matchesFilter).Return(int64(21), nil)

	result, err := service.List(ctx, OrderListQuery{Status: "pending", Search: " asha ", Page: 2})
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, int64(21), result.Total)
	assert.Equal(t, 2, result.TotalPages)
}

func TestOrderService_ListForUser(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	service := NewOrderService(repo, nil)
	userID := uuid.New()
	order := newTestOrder(t)
	order.AssignUser(userID)

	repo.On("FindByUser", ctx, userID, mock.Anything).Return([]trade.Order{*order}, nil)
	repo.On("CountByUser", ctx, userID).Return(int64(1), nil)

	result, err := service.ListForUser(ctx, userID, 0, 0)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, &userID, result.Items[0].UserID)
	assert.Equal(t, 20, result.PageSize)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("legal transition publishes event", func(t *testing.T) {
		repo := new(MockOrderRepository)
		publisher := new(MockEventPublisher)
		service := NewOrderService(repo, nil)
		service.SetEventPublisher(publisher)

		order := newTestOrder(t)
		require.NoError(t, order.TransitionTo(trade.OrderStatusProcessing, ""))
		order.ClearDomainEvents()

		repo.On("FindByID", ctx, order.ID).Return(order, nil)
		repo.On("Save", ctx, order).Return(nil)
		publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == trade.EventTypeOrderStatusChanged
		})).Return(nil)

		resp, err := service.UpdateStatus(ctx, order.ID, UpdateStatusRequest{Status: "shipped", TrackingNumber: " TRK123 "})
		require.NoError(t, err)
		assert.Equal(t, "shipped", resp.Status)
		assert.Equal(t, "TRK123", resp.TrackingNumber)
		assert.Empty(t, order.GetDomainEvents())
		publisher.AssertExpectations(t)
	})

	t.Run("illegal transition", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := NewOrderService(repo, nil)
		order := newTestOrder(t)
		repo.On("FindByID", ctx, order.ID).Return(order, nil)

		_, err := service.UpdateStatus(ctx, order.ID, UpdateStatusRequest{Status: "delivered"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot move order from pending to delivered")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestOrderService_MarkPaid(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	service := NewOrderService(repo, nil)
	order := newTestOrder(t)
	repo.On("FindByID", ctx, order.ID).Return(order, nil)
	repo.On("Save", ctx, order).Return(nil)

	resp, err := service.MarkPaid(ctx, order.ID, MarkPaidRequest{})
	require.NoError(t, err)
	assert.True(t, resp.PaymentStatus)
	assert.Equal(t, "Paid", resp.PaymentStatusLabel)

	unpaid := false
	resp, err = service.MarkPaid(ctx, order.ID, MarkPaidRequest{Paid: &unpaid})
	require.NoError(t, err)
	assert.False(t, resp.PaymentStatus)
}

func TestOrderService_BulkUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	service := NewOrderService(repo, nil)

	pending := newTestOrder(t)
	delivered := newTestOrder(t)
	require.NoError(t, delivered.TransitionTo(trade.OrderStatusProcessing, ""))
	require.NoError(t, delivered.TransitionTo(trade.OrderStatusShipped, ""))
	require.NoError(t, delivered.TransitionTo(trade.OrderStatusDelivered, ""))
	missing := uuid.New()

	repo.On("FindByID", ctx, pending.ID).Return(pending, nil)
	repo.On("FindByID", ctx, delivered.ID).Return(delivered, nil)
	repo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
	repo.On("Save", ctx, pending).Return(nil)

	result, err := service.BulkUpdateStatus(ctx, BulkStatusRequest{
		OrderIDs: []uuid.UUID{pending.ID, delivered.ID, missing},
		Status:   "cancelled",
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{pending.ID}, result.Updated)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, delivered.ID, result.Failed[0].OrderID)
	assert.Equal(t, "Order not found.", result.Failed[1].Error)
	assert.Equal(t, trade.OrderStatusCancelled, pending.Status)
}

func TestOrderService_BulkUpdateStatus_InfrastructureError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	service := NewOrderService(repo, nil)
	id := uuid.New()
	repo.On("FindByID", ctx, id).Return(nil, errors.New("connection reset"))

	_, err := service.BulkUpdateStatus(ctx, BulkStatusRequest{OrderIDs: []uuid.UUID{id}, Status: "cancelled"})
	assert.EqualError(t, err, "connection reset")
}

func TestOrderService_Export(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	service := NewOrderService(repo, nil)
	order := newTestOrder(t)

	repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == exportBatchSize
	})).Return([]trade.Order{*order}, nil)

	var buf bytes.Buffer
	require.NoError(t, service.Export(ctx, OrderListQuery{}, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, exportHeader, records[0])

	row := records[1]
	assert.Equal(t, order.ID.String(), row[0])
	assert.Equal(t, "12 MG Road Flat 4", row[5])
	assert.Equal(t, "2x Desi Ghee", row[9])
	assert.Equal(t, "950.00", row[10])
	assert.Equal(t, "Cash on Delivery", row[11])
	assert.Equal(t, "Unpaid", row[12])
	assert.Equal(t, "Pending", row[13])
}
