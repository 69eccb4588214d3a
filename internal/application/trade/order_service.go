package trade

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// ErrOrderNotFound is returned when an order ID is unknown
var ErrOrderNotFound = shared.NewDomainError("ORDER_NOT_FOUND", "Order not found.")

// OrderService handles order queries and back-office order operations
type OrderService struct {
	orderRepo      trade.OrderRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for status change events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetByID returns an order for the confirmation page
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// ListForUser returns the orders of a registered user, newest first
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) (shared.Paginated[OrderResponse], error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	orders, err := s.orderRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	total, err := s.orderRepo.CountByUser(ctx, userID)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	return shared.NewPaginated(ToOrderResponses(orders), total, filter.Page, filter.PageSize), nil
}

// List returns the back-office order list
func (s *OrderService) List(ctx context.Context, query OrderListQuery) (shared.Paginated[OrderResponse], error) {
	filter := query.toFilter()
	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	return shared.NewPaginated(ToOrderResponses(orders), total, filter.Page, filter.PageSize), nil
}

// UpdateStatus moves an order to the requested status when the transition
// is legal.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.TransitionTo(trade.OrderStatus(req.Status), strings.TrimSpace(req.TrackingNumber)); err != nil {
		return nil, err
	}
	if err := s.save(ctx, order); err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// MarkPaid sets the payment status of an order
func (s *OrderService) MarkPaid(ctx context.Context, orderID uuid.UUID, req MarkPaidRequest) (*OrderResponse, error) {
	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	paid := true
	if req.Paid != nil {
		paid = *req.Paid
	}
	order.MarkPaid(paid)
	if err := s.save(ctx, order); err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// BulkUpdateStatus applies a status to several orders. Orders that cannot
// make the transition are reported and skipped.
func (s *OrderService) BulkUpdateStatus(ctx context.Context, req BulkStatusRequest) (*BulkStatusResult, error) {
	result := &BulkStatusResult{
		Updated: make([]uuid.UUID, 0, len(req.OrderIDs)),
		Failed:  make([]BulkStatusFailure, 0),
	}
	target := trade.OrderStatus(req.Status)

	for _, id := range req.OrderIDs {
		order, err := s.find(ctx, id)
		if err == nil {
			err = order.TransitionTo(target, "")
		}
		if err == nil {
			err = s.save(ctx, order)
		}
		if err != nil {
			var domainErr *shared.DomainError
			if !errors.As(err, &domainErr) {
				return nil, err
			}
			result.Failed = append(result.Failed, BulkStatusFailure{OrderID: id, Error: domainErr.Message})
			continue
		}
		result.Updated = append(result.Updated, id)
	}

	s.logger.Info("bulk order status update",
		zap.String("status", req.Status),
		zap.Int("updated", len(result.Updated)),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

func (s *OrderService) find(ctx context.Context, orderID uuid.UUID) (*trade.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) save(ctx context.Context, order *trade.Order) error {
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return err
	}

	if err := shared.PublishPending(ctx, s.eventPublisher, order); err != nil {
		s.logger.Warn("failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
	return nil
}

func (q OrderListQuery) toFilter() shared.Filter {
	filter := shared.DefaultFilter()
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 {
		filter.PageSize = q.PageSize
	}
	filter.Search = strings.TrimSpace(q.Search)
	if q.Status != "" {
		filter.Filters["status"] = q.Status
	}
	return filter
}
