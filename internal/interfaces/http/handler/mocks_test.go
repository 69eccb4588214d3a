package handler

import (
	"context"
	"io"

	"github.com/google/uuid"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	engagementapp "github.com/storefront/backend/internal/application/engagement"
	"github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/application/promotion"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/engagement"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockProductService implements ProductReader and ProductAdmin
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Shop(ctx context.Context, query catalogapp.ShopQuery) (shared.Paginated[catalogapp.ProductResponse], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(shared.Paginated[catalogapp.ProductResponse]), args.Error(1)
}

func (m *MockProductService) Featured(ctx context.Context, limit int) ([]catalogapp.ProductResponse, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) Search(ctx context.Context, query string) ([]catalogapp.ProductResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) Detail(ctx context.Context, id uuid.UUID) (*catalogapp.ProductDetailResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductDetailResponse), args.Error(1)
}

func (m *MockProductService) AdminList(ctx context.Context, query catalogapp.AdminProductQuery) (shared.Paginated[catalogapp.AdminProductResponse], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(shared.Paginated[catalogapp.AdminProductResponse]), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductService) SetSizeStocks(ctx context.Context, id uuid.UUID, req catalogapp.SetSizeStocksRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) RequestImageUpload(ctx context.Context, id uuid.UUID, req catalogapp.ImageUploadRequest) (*catalogapp.ImageUploadResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ImageUploadResponse), args.Error(1)
}

// MockCategoryService implements CategoryReader and CategoryAdmin
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context) ([]catalogapp.CategoryResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalogapp.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.CategoryResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, req catalogapp.CreateCategoryRequest) (*catalogapp.CategoryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateCategoryRequest) (*catalogapp.CategoryResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCategoryService) ListSizes(ctx context.Context) ([]catalogapp.SizeResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalogapp.SizeResponse), args.Error(1)
}

func (m *MockCategoryService) CreateSize(ctx context.Context, req catalogapp.CreateSizeRequest) (*catalogapp.SizeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.SizeResponse), args.Error(1)
}

// MockCartService implements CartService and ViewTracker
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) countResult(args mock.Arguments) (*cartapp.CountResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.CountResponse), args.Error(1)
}

func (m *MockCartService) viewResult(args mock.Arguments) (*cartapp.View, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.View), args.Error(1)
}

func (m *MockCartService) View(ctx context.Context, sessionID string) (*cartapp.View, error) {
	return m.viewResult(m.Called(ctx, sessionID))
}

func (m *MockCartService) Count(ctx context.Context, sessionID string) (int, error) {
	args := m.Called(ctx, sessionID)
	return args.Int(0), args.Error(1)
}

func (m *MockCartService) Add(ctx context.Context, sessionID string, req cartapp.ItemRequest) (*cartapp.CountResponse, error) {
	return m.countResult(m.Called(ctx, sessionID, req))
}

func (m *MockCartService) Remove(ctx context.Context, sessionID string, req cartapp.ItemRequest) (*cartapp.CountResponse, error) {
	return m.countResult(m.Called(ctx, sessionID, req))
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, sessionID string, req cartapp.ItemRequest) (*cartapp.CountResponse, error) {
	return m.countResult(m.Called(ctx, sessionID, req))
}

func (m *MockCartService) BulkUpdate(ctx context.Context, sessionID string, req cartapp.BulkUpdateRequest) (*cartapp.CountResponse, error) {
	return m.countResult(m.Called(ctx, sessionID, req))
}

func (m *MockCartService) SetGiftWrap(ctx context.Context, sessionID string, on bool) (*cartapp.CountResponse, error) {
	return m.countResult(m.Called(ctx, sessionID, on))
}

func (m *MockCartService) SaveForLater(ctx context.Context, sessionID string, req cartapp.ItemRequest) (*cartapp.CountResponse, error) {
	return m.countResult(m.Called(ctx, sessionID, req))
}

func (m *MockCartService) MoveToCart(ctx context.Context, sessionID string, req cartapp.ItemRequest) (*cartapp.CountResponse, error) {
	return m.countResult(m.Called(ctx, sessionID, req))
}

func (m *MockCartService) ApplyCoupon(ctx context.Context, sessionID string, code string) (*cartapp.View, error) {
	return m.viewResult(m.Called(ctx, sessionID, code))
}

func (m *MockCartService) RemoveCoupon(ctx context.Context, sessionID string) (*cartapp.View, error) {
	return m.viewResult(m.Called(ctx, sessionID))
}

func (m *MockCartService) TrackViewed(ctx context.Context, sessionID string, productID uuid.UUID) error {
	return m.Called(ctx, sessionID, productID).Error(0)
}

// MockCheckoutService implements CheckoutService
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Begin(ctx context.Context, sessionID string) (*checkoutapp.StateResponse, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkoutapp.StateResponse), args.Error(1)
}

func (m *MockCheckoutService) SaveAddress(ctx context.Context, sessionID string, checkoutID uuid.UUID, req checkoutapp.AddressRequest) (*checkoutapp.StateResponse, error) {
	args := m.Called(ctx, sessionID, checkoutID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkoutapp.StateResponse), args.Error(1)
}

func (m *MockCheckoutService) Review(ctx context.Context, sessionID string, checkoutID uuid.UUID) (*checkoutapp.ReviewResponse, error) {
	args := m.Called(ctx, sessionID, checkoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkoutapp.ReviewResponse), args.Error(1)
}

func (m *MockCheckoutService) PlaceOrder(ctx context.Context, sessionID string, checkoutID uuid.UUID, userID *uuid.UUID, req checkoutapp.PlaceOrderRequest) (*tradeapp.OrderResponse, error) {
	args := m.Called(ctx, sessionID, checkoutID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderResponse), args.Error(1)
}

// MockOrderService implements OrderService
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) orderResult(args mock.Arguments) (*tradeapp.OrderResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderResponse), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*tradeapp.OrderResponse, error) {
	return m.orderResult(m.Called(ctx, orderID))
}

func (m *MockOrderService) ListForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) (shared.Paginated[tradeapp.OrderResponse], error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).(shared.Paginated[tradeapp.OrderResponse]), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, query tradeapp.OrderListQuery) (shared.Paginated[tradeapp.OrderResponse], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(shared.Paginated[tradeapp.OrderResponse]), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req tradeapp.UpdateStatusRequest) (*tradeapp.OrderResponse, error) {
	return m.orderResult(m.Called(ctx, orderID, req))
}

func (m *MockOrderService) MarkPaid(ctx context.Context, orderID uuid.UUID, req tradeapp.MarkPaidRequest) (*tradeapp.OrderResponse, error) {
	return m.orderResult(m.Called(ctx, orderID, req))
}

func (m *MockOrderService) BulkUpdateStatus(ctx context.Context, req tradeapp.BulkStatusRequest) (*tradeapp.BulkStatusResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.BulkStatusResult), args.Error(1)
}

func (m *MockOrderService) Export(ctx context.Context, query tradeapp.OrderListQuery, w io.Writer) error {
	args := m.Called(ctx, query, w)
	if content, ok := args.Get(1).(string); ok && content != "" {
		_, _ = io.WriteString(w, content)
	}
	return args.Error(0)
}

// MockAuthService implements AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) authResult(args mock.Arguments) (*identity.AuthResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.AuthResult), args.Error(1)
}

func (m *MockAuthService) Register(ctx context.Context, req identity.RegisterRequest) (*identity.AuthResult, error) {
	return m.authResult(m.Called(ctx, req))
}

func (m *MockAuthService) Login(ctx context.Context, req identity.LoginRequest) (*identity.AuthResult, error) {
	return m.authResult(m.Called(ctx, req))
}

func (m *MockAuthService) Refresh(ctx context.Context, req identity.RefreshRequest) (*identity.AuthResult, error) {
	return m.authResult(m.Called(ctx, req))
}

func (m *MockAuthService) Logout(ctx context.Context, input identity.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockAuthService) Me(ctx context.Context, userID uuid.UUID) (*identity.UserInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.UserInfo), args.Error(1)
}

// MockEngagementService implements EngagementService
type MockEngagementService struct {
	mock.Mock
}

func (m *MockEngagementService) Contact(ctx context.Context, req engagementapp.ContactRequest) (*engagementapp.Acknowledgement, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagementapp.Acknowledgement), args.Error(1)
}

func (m *MockEngagementService) Subscribe(ctx context.Context, req engagementapp.SubscribeRequest) (*engagementapp.Acknowledgement, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagementapp.Acknowledgement), args.Error(1)
}

func (m *MockEngagementService) Page(slug string) (*engagement.Page, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagement.Page), args.Error(1)
}

// MockCouponService implements CouponAdmin
type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) List(ctx context.Context, query promotion.CouponQuery) (shared.Paginated[promotion.CouponResponse], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(shared.Paginated[promotion.CouponResponse]), args.Error(1)
}

func (m *MockCouponService) GetByID(ctx context.Context, id uuid.UUID) (*promotion.CouponResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.CouponResponse), args.Error(1)
}

func (m *MockCouponService) Create(ctx context.Context, req promotion.CouponRequest) (*promotion.CouponResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.CouponResponse), args.Error(1)
}

func (m *MockCouponService) Update(ctx context.Context, id uuid.UUID, req promotion.CouponRequest) (*promotion.CouponResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.CouponResponse), args.Error(1)
}

func (m *MockCouponService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

var (
	_ ProductReader     = (*MockProductService)(nil)
	_ ProductAdmin      = (*MockProductService)(nil)
	_ CategoryReader    = (*MockCategoryService)(nil)
	_ CategoryAdmin     = (*MockCategoryService)(nil)
	_ CartService       = (*MockCartService)(nil)
	_ ViewTracker       = (*MockCartService)(nil)
	_ CheckoutService   = (*MockCheckoutService)(nil)
	_ OrderService      = (*MockOrderService)(nil)
	_ AuthService       = (*MockAuthService)(nil)
	_ EngagementService = (*MockEngagementService)(nil)
	_ CouponAdmin       = (*MockCouponService)(nil)
)
