package gin

import (
	"context"
	"time"

	"github.com/carzone/server/internal/domain/auth"
	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- cart ---

type MockCartDomain struct {
	mock.Mock
}

func (m *MockCartDomain) cart(args mock.Arguments) (*model.Cart, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartDomain) GetCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	return m.cart(m.Called(ctx, userID))
}

func (m *MockCartDomain) AddItem(ctx context.Context, userID uuid.UUID, req *model.AddToCartRequest) (*model.Cart, error) {
	return m.cart(m.Called(ctx, userID, req))
}

func (m *MockCartDomain) UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*model.Cart, error) {
	return m.cart(m.Called(ctx, userID, productID, quantity))
}

func (m *MockCartDomain) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*model.Cart, error) {
	return m.cart(m.Called(ctx, userID, productID))
}

func (m *MockCartDomain) ClearCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	return m.cart(m.Called(ctx, userID))
}

// --- order ---

type MockOrderDomain struct {
	mock.Mock
}

func (m *MockOrderDomain) order(args mock.Arguments) (*model.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderDomain) Checkout(ctx context.Context, userID uuid.UUID, req *model.CheckoutRequest) (*model.Order, error) {
	return m.order(m.Called(ctx, userID, req))
}

func (m *MockOrderDomain) GetOrder(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Order, error) {
	return m.order(m.Called(ctx, actor, id))
}

func (m *MockOrderDomain) ListOrders(ctx context.Context, actor model.Actor, filter *model.OrderFilter) ([]*model.Order, int64, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderDomain) CancelOrder(ctx context.Context, actor model.Actor, id uuid.UUID, reason string) (*model.Order, error) {
	return m.order(m.Called(ctx, actor, id, reason))
}

func (m *MockOrderDomain) UpdateStatus(ctx context.Context, id uuid.UUID, req *model.UpdateOrderStatusRequest) (*model.Order, error) {
	return m.order(m.Called(ctx, id, req))
}

func (m *MockOrderDomain) NextActions(ctx context.Context, id uuid.UUID) (*model.OrderActions, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderActions), args.Error(1)
}

func (m *MockOrderDomain) GetOrderByPaymentIntentID(ctx context.Context, intentID string) (*model.Order, error) {
	return m.order(m.Called(ctx, intentID))
}

func (m *MockOrderDomain) AttachPaymentIntent(ctx context.Context, id uuid.UUID, provider model.PaymentProvider, intentID, replaces string) error {
	return m.Called(ctx, id, provider, intentID, replaces).Error(0)
}

func (m *MockOrderDomain) ListAwaitingPayment(ctx context.Context, olderThan time.Duration, limit int) ([]*model.Order, error) {
	args := m.Called(ctx, olderThan, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *MockOrderDomain) MarkPaid(ctx context.Context, id uuid.UUID, intentID string, paidAt time.Time) error {
	return m.Called(ctx, id, intentID, paidAt).Error(0)
}

func (m *MockOrderDomain) MarkPaymentFailed(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderDomain) MarkRefunded(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderDomain) HasPurchased(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

// --- payment ---

type MockPaymentDomain struct {
	mock.Mock
}

func (m *MockPaymentDomain) intent(args mock.Arguments) (*model.PaymentIntentResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentIntentResponse), args.Error(1)
}

func (m *MockPaymentDomain) CreatePaymentIntent(ctx context.Context, userID, orderID uuid.UUID) (*model.PaymentIntentResponse, error) {
	return m.intent(m.Called(ctx, userID, orderID))
}

func (m *MockPaymentDomain) CreateAlipayPayment(ctx context.Context, userID, orderID uuid.UUID, returnURL string) (*model.PaymentIntentResponse, error) {
	return m.intent(m.Called(ctx, userID, orderID, returnURL))
}

func (m *MockPaymentDomain) ConfirmPayment(ctx context.Context, userID, orderID uuid.UUID, intentID string) (*model.Order, error) {
	args := m.Called(ctx, userID, orderID, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockPaymentDomain) HandleWebhook(ctx context.Context, provider model.PaymentProvider, payload []byte, headers map[string]string) (string, error) {
	args := m.Called(ctx, provider, payload, headers)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentDomain) Reconcile(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// --- catalog ---

type MockCatalogDomain struct {
	mock.Mock
}

func (m *MockCatalogDomain) products(args mock.Arguments) ([]*model.Product, int64, error) {
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogDomain) product(args mock.Arguments) (*model.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogDomain) category(args mock.Arguments) (*model.Category, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCatalogDomain) ListProducts(ctx context.Context, filter *model.ProductFilter) ([]*model.Product, int64, error) {
	return m.products(m.Called(ctx, filter))
}

func (m *MockCatalogDomain) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return m.product(m.Called(ctx, id))
}

func (m *MockCatalogDomain) ListManagedProducts(ctx context.Context, actor model.Actor, filter *model.ProductFilter) ([]*model.Product, int64, error) {
	return m.products(m.Called(ctx, actor, filter))
}

func (m *MockCatalogDomain) CreateProduct(ctx context.Context, actor model.Actor, req *model.CreateProductRequest) (*model.Product, error) {
	return m.product(m.Called(ctx, actor, req))
}

func (m *MockCatalogDomain) UpdateProduct(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error) {
	return m.product(m.Called(ctx, actor, id, req))
}

func (m *MockCatalogDomain) DeleteProduct(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockCatalogDomain) CreateImageUpload(ctx context.Context, actor model.Actor, productID uuid.UUID, req *model.ImageUploadRequest) (*model.ImageUploadResponse, error) {
	args := m.Called(ctx, actor, productID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImageUploadResponse), args.Error(1)
}

func (m *MockCatalogDomain) ListCategories(ctx context.Context) ([]*model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Category), args.Error(1)
}

func (m *MockCatalogDomain) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return m.category(m.Called(ctx, id))
}

func (m *MockCatalogDomain) CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	return m.category(m.Called(ctx, req))
}

func (m *MockCatalogDomain) UpdateCategory(ctx context.Context, id uuid.UUID, req *model.UpdateCategoryRequest) (*model.Category, error) {
	return m.category(m.Called(ctx, id, req))
}

func (m *MockCatalogDomain) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// --- review ---

type MockReviewDomain struct {
	mock.Mock
}

func (m *MockReviewDomain) ListReviews(ctx context.Context, filter *model.ReviewFilter) ([]*model.Review, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewDomain) CreateReview(ctx context.Context, actor model.Actor, productID uuid.UUID, req *model.CreateReviewRequest) (*model.Review, error) {
	args := m.Called(ctx, actor, productID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockReviewDomain) UpdateReview(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateReviewRequest) (*model.Review, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockReviewDomain) DeleteReview(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

// --- admin ---

type MockAdminDomain struct {
	mock.Mock
}

func (m *MockAdminDomain) Stats(ctx context.Context) (*model.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardStats), args.Error(1)
}

func (m *MockAdminDomain) Reset(ctx context.Context, actor model.Actor, req *model.ResetDataRequest) (*model.ResetDataResult, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ResetDataResult), args.Error(1)
}

// --- auth ---

type MockAuthDomain struct {
	mock.Mock
}

func (m *MockAuthDomain) authResponse(args mock.Arguments) (*model.AuthResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockAuthDomain) Register(ctx context.Context, req *model.RegisterRequest, client auth.ClientInfo) (*model.AuthResponse, error) {
	return m.authResponse(m.Called(ctx, req, client))
}

func (m *MockAuthDomain) Login(ctx context.Context, req *model.LoginRequest, client auth.ClientInfo) (*model.AuthResponse, error) {
	return m.authResponse(m.Called(ctx, req, client))
}

func (m *MockAuthDomain) InitiateOAuth(ctx context.Context, provider string) (*model.OAuthURLResponse, error) {
	args := m.Called(ctx, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OAuthURLResponse), args.Error(1)
}

func (m *MockAuthDomain) CompleteOAuth(ctx context.Context, provider string, req *model.OAuthCallbackRequest, client auth.ClientInfo) (*model.AuthResponse, error) {
	return m.authResponse(m.Called(ctx, provider, req, client))
}

func (m *MockAuthDomain) RefreshToken(ctx context.Context, refreshToken string, client auth.ClientInfo) (*model.TokenPair, error) {
	args := m.Called(ctx, refreshToken, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TokenPair), args.Error(1)
}

func (m *MockAuthDomain) GetMe(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthDomain) Logout(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockAuthDomain) ValidateAccessToken(token string) (*outbound.JWTClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.JWTClaims), args.Error(1)
}

func (m *MockAuthDomain) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
