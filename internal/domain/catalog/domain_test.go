package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Mock Implementations ---

type MockProductDB struct {
	mock.Mock
}

func (m *MockProductDB) Create(ctx context.Context, product *model.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductDB) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductDB) List(ctx context.Context, filter *model.ProductFilter) ([]*model.Product, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*model.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductDB) Update(ctx context.Context, product *model.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductDB) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductDB) LockByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockProductDB) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	return m.Called(ctx, id, delta).Error(0)
}

func (m *MockProductDB) UpdateRating(ctx context.Context, id uuid.UUID, summary model.RatingSummary) error {
	return m.Called(ctx, id, summary).Error(0)
}

type MockCategoryDB struct {
	mock.Mock
}

func (m *MockCategoryDB) Create(ctx context.Context, category *model.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryDB) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryDB) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryDB) List(ctx context.Context) ([]*model.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.Category), args.Error(1)
}

func (m *MockCategoryDB) Update(ctx context.Context, category *model.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryDB) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCategoryDB) CountProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCache) SetProduct(ctx context.Context, product *model.Product, ttl time.Duration) error {
	return m.Called(ctx, product, ttl).Error(0)
}

func (m *MockCache) GetCategories(ctx context.Context) ([]*model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Category), args.Error(1)
}

func (m *MockCache) SetCategories(ctx context.Context, categories []*model.Category, ttl time.Duration) error {
	return m.Called(ctx, categories, ttl).Error(0)
}

func (m *MockCache) InvalidateProducts(ctx context.Context, ids ...uuid.UUID) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *MockCache) InvalidateCategories(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCache) Flush(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) PresignUpload(ctx context.Context, key, contentType string) (*outbound.PresignedUpload, error) {
	args := m.Called(ctx, key, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.PresignedUpload), args.Error(1)
}

func (m *MockImageStorage) PublicURL(key string) string {
	return m.Called(key).String(0)
}

func (m *MockImageStorage) KeyFromURL(url string) (string, bool) {
	args := m.Called(url)
	return args.String(0), args.Bool(1)
}

func (m *MockImageStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// --- Helpers ---

type fixture struct {
	products   *MockProductDB
	categories *MockCategoryDB
	cache      *MockCache
	images     *MockImageStorage
	domain     CatalogDomain
}

func newFixture() *fixture {
	f := &fixture{
		products:   new(MockProductDB),
		categories: new(MockCategoryDB),
		cache:      new(MockCache),
		images:     new(MockImageStorage),
	}
	f.domain = NewCatalogDomain(f.products, f.categories, f.cache, f.images, DefaultConfig(), nil, zap.NewNop())
	return f
}

func seller() model.Actor {
	return model.Actor{UserID: uuid.New(), Role: model.UserRoleSeller}
}

func ptr[T any](v T) *T { return &v }

// --- Tests ---

func TestListProducts_NormalizesFilter(t *testing.T) {
	f := newFixture()
	filter := &model.ProductFilter{}
	filter.SortBy = "popularity"
	filter.PageSize = 500
	filter.IncludeInactive = true

	f.products.On("List", mock.Anything, filter).Return([]*model.Product{}, int64(0), nil)

	_, _, err := f.domain.ListProducts(context.Background(), filter)
	require.NoError(t, err)

	assert.Equal(t, "created_at", filter.SortBy)
	assert.Equal(t, model.SortDesc, filter.SortOrder)
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 100, filter.PageSize)
	assert.False(t, filter.IncludeInactive)
}

func TestListProducts_KeepsValidSort(t *testing.T) {
	f := newFixture()
	filter := &model.ProductFilter{}
	filter.SortBy = "Price"
	filter.SortOrder = "ASC"

	f.products.On("List", mock.Anything, filter).Return([]*model.Product{}, int64(0), nil)

	_, _, err := f.domain.ListProducts(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, "price", filter.SortBy)
	assert.True(t, filter.IsAsc())
}

func TestListProducts_RejectsInvertedPriceRange(t *testing.T) {
	f := newFixture()
	filter := &model.ProductFilter{MinPrice: ptr(int64(5000)), MaxPrice: ptr(int64(100))}

	_, _, err := f.domain.ListProducts(context.Background(), filter)
	assert.ErrorIs(t, err, ErrInvalidPriceRange)
	f.products.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestListProducts_RejectsBadRating(t *testing.T) {
	f := newFixture()
	_, _, err := f.domain.ListProducts(context.Background(), &model.ProductFilter{MinRating: ptr(7.0)})
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestGetProduct_CacheHit(t *testing.T) {
	f := newFixture()
	p := &model.Product{ID: uuid.New(), IsActive: true}
	f.cache.On("GetProduct", mock.Anything, p.ID).Return(p, nil)

	got, err := f.domain.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Same(t, p, got)
	f.products.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetProduct_CacheMissLoadsAndStores(t *testing.T) {
	f := newFixture()
	p := &model.Product{ID: uuid.New(), IsActive: true}
	f.cache.On("GetProduct", mock.Anything, p.ID).Return(nil, nil)
	f.products.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	f.cache.On("SetProduct", mock.Anything, p, DefaultConfig().CacheTTL).Return(nil)

	got, err := f.domain.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	f.cache.AssertExpectations(t)
}

func TestGetProduct_CacheErrorFallsBackToDB(t *testing.T) {
	f := newFixture()
	p := &model.Product{ID: uuid.New(), IsActive: true}
	f.cache.On("GetProduct", mock.Anything, p.ID).Return(nil, errors.New("redis down"))
	f.products.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	f.cache.On("SetProduct", mock.Anything, p, mock.Anything).Return(errors.New("redis down"))

	got, err := f.domain.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestGetProduct_InactiveIsNotFound(t *testing.T) {
	f := newFixture()
	p := &model.Product{ID: uuid.New(), IsActive: false}
	f.cache.On("GetProduct", mock.Anything, p.ID).Return(nil, nil)
	f.products.On("GetByID", mock.Anything, p.ID).Return(p, nil)

	_, err := f.domain.GetProduct(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestListManagedProducts_SellerSeesOwnOnly(t *testing.T) {
	f := newFixture()
	actor := seller()
	filter := &model.ProductFilter{}
	f.products.On("List", mock.Anything, filter).Return([]*model.Product{}, int64(0), nil)

	_, _, err := f.domain.ListManagedProducts(context.Background(), actor, filter)
	require.NoError(t, err)
	require.NotNil(t, filter.SellerID)
	assert.Equal(t, actor.UserID, *filter.SellerID)
	assert.True(t, filter.IncludeInactive)
}

func TestListManagedProducts_CustomerForbidden(t *testing.T) {
	f := newFixture()
	_, _, err := f.domain.ListManagedProducts(context.Background(),
		model.Actor{UserID: uuid.New(), Role: model.UserRoleCustomer}, &model.ProductFilter{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateProduct(t *testing.T) {
	f := newFixture()
	actor := seller()
	categoryID := uuid.New()
	f.categories.On("GetByID", mock.Anything, categoryID).Return(&model.Category{ID: categoryID}, nil)
	f.products.On("Create", mock.Anything, mock.AnythingOfType("*model.Product")).Return(nil)

	p, err := f.domain.CreateProduct(context.Background(), actor, &model.CreateProductRequest{
		CategoryID: categoryID,
		Name:       "  Model S  ",
		Price:      7999000,
		Stock:      3,
	})
	require.NoError(t, err)
	assert.Equal(t, "Model S", p.Name)
	assert.Equal(t, actor.UserID, p.SellerID)
	assert.Equal(t, "usd", p.Currency)
	assert.True(t, p.IsActive)
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	f := newFixture()
	categoryID := uuid.New()
	f.categories.On("GetByID", mock.Anything, categoryID).Return(nil, nil)

	_, err := f.domain.CreateProduct(context.Background(), seller(), &model.CreateProductRequest{
		CategoryID: categoryID, Name: "X", Price: 100,
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestUpdateProduct_OtherSellerForbidden(t *testing.T) {
	f := newFixture()
	p := &model.Product{ID: uuid.New(), SellerID: uuid.New(), IsActive: true}
	f.products.On("GetByID", mock.Anything, p.ID).Return(p, nil)

	_, err := f.domain.UpdateProduct(context.Background(), seller(), p.ID, &model.UpdateProductRequest{Price: ptr(int64(10))})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateProduct_AdminUpdatesAndInvalidates(t *testing.T) {
	f := newFixture()
	admin := model.Actor{UserID: uuid.New(), Role: model.UserRoleAdmin}
	p := &model.Product{
		ID:       uuid.New(),
		SellerID: uuid.New(),
		Price:    100,
		Images:   []string{"https://cdn.example.com/products/a.jpg", "https://elsewhere.example.com/b.jpg"},
	}
	f.products.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	f.products.On("Update", mock.Anything, p).Return(nil)
	f.cache.On("InvalidateProducts", mock.Anything, []uuid.UUID{p.ID}).Return(nil)
	f.images.On("KeyFromURL", "https://cdn.example.com/products/a.jpg").Return("products/a.jpg", true)
	f.images.On("KeyFromURL", "https://elsewhere.example.com/b.jpg").Return("", false)
	f.images.On("Delete", mock.Anything, "products/a.jpg").Return(nil)

	got, err := f.domain.UpdateProduct(context.Background(), admin, p.ID, &model.UpdateProductRequest{
		Price:  ptr(int64(250)),
		Stock:  ptr(0),
		Images: []string{},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(250), got.Price)
	assert.Equal(t, 0, got.Stock)
	f.cache.AssertExpectations(t)
	f.images.AssertExpectations(t)
}

func TestUpdateProduct_RejectsNegativeStock(t *testing.T) {
	f := newFixture()
	actor := seller()
	p := &model.Product{ID: uuid.New(), SellerID: actor.UserID}
	f.products.On("GetByID", mock.Anything, p.ID).Return(p, nil)

	_, err := f.domain.UpdateProduct(context.Background(), actor, p.ID, &model.UpdateProductRequest{Stock: ptr(-1)})
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	f.products.On("GetByID", mock.Anything, id).Return(nil, nil)

	err := f.domain.DeleteProduct(context.Background(), seller(), id)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateImageUpload(t *testing.T) {
	f := newFixture()
	actor := seller()
	p := &model.Product{ID: uuid.New(), SellerID: actor.UserID}
	expires := time.Now().Add(15 * time.Minute)

	f.products.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	f.images.On("PresignUpload", mock.Anything, mock.AnythingOfType("string"), "image/png").
		Return(&outbound.PresignedUpload{URL: "https://s3/upload", Method: "PUT", ExpiresAt: expires}, nil)
	f.images.On("PublicURL", mock.AnythingOfType("string")).Return("https://cdn/img.png")

	resp, err := f.domain.CreateImageUpload(context.Background(), actor, p.ID, &model.ImageUploadRequest{
		Filename: "front.PNG", ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "PUT", resp.Method)
	assert.Equal(t, "https://cdn/img.png", resp.PublicURL)
	assert.Contains(t, resp.Key, "products/"+p.ID.String()+"/")
	assert.Contains(t, resp.Key, ".png")
}

func TestCreateImageUpload_NoStorage(t *testing.T) {
	d := NewCatalogDomain(new(MockProductDB), new(MockCategoryDB), nil, nil, nil, nil, zap.NewNop())
	_, err := d.CreateImageUpload(context.Background(), seller(), uuid.New(), &model.ImageUploadRequest{})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestListCategories_CachesResult(t *testing.T) {
	f := newFixture()
	cats := []*model.Category{{ID: uuid.New(), Name: "SUVs", Slug: "suvs"}}
	f.cache.On("GetCategories", mock.Anything).Return(nil, nil)
	f.categories.On("List", mock.Anything).Return(cats, nil)
	f.cache.On("SetCategories", mock.Anything, cats, mock.Anything).Return(nil)

	got, err := f.domain.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	f.cache.AssertExpectations(t)
}

func TestCreateCategory_DerivesSlug(t *testing.T) {
	f := newFixture()
	f.categories.On("GetBySlug", mock.Anything, "electric-cars").Return(nil, nil)
	f.categories.On("Create", mock.Anything, mock.AnythingOfType("*model.Category")).Return(nil)
	f.cache.On("InvalidateCategories", mock.Anything).Return(nil)

	c, err := f.domain.CreateCategory(context.Background(), &model.CreateCategoryRequest{Name: "Electric Cars!"})
	require.NoError(t, err)
	assert.Equal(t, "electric-cars", c.Slug)
}

func TestCreateCategory_DuplicateSlug(t *testing.T) {
	f := newFixture()
	f.categories.On("GetBySlug", mock.Anything, "suvs").Return(&model.Category{ID: uuid.New()}, nil)

	_, err := f.domain.CreateCategory(context.Background(), &model.CreateCategoryRequest{Name: "SUVs"})
	assert.ErrorIs(t, err, ErrCategoryExists)
}

func TestCreateCategory_DuplicateNameFromDB(t *testing.T) {
	f := newFixture()
	f.categories.On("GetBySlug", mock.Anything, "trucks").Return(nil, nil)
	f.categories.On("Create", mock.Anything, mock.Anything).Return(outbound.ErrDuplicate)

	_, err := f.domain.CreateCategory(context.Background(), &model.CreateCategoryRequest{Name: "Trucks"})
	assert.ErrorIs(t, err, ErrCategoryExists)
}

func TestDeleteCategory_InUse(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	f.categories.On("GetByID", mock.Anything, id).Return(&model.Category{ID: id}, nil)
	f.categories.On("CountProducts", mock.Anything, id).Return(int64(2), nil)

	err := f.domain.DeleteCategory(context.Background(), id)
	assert.ErrorIs(t, err, ErrCategoryInUse)
	f.categories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Electric Cars":      "electric-cars",
		"  Sports & Luxury ": "sports-luxury",
		"4x4 / Off-road":     "4x4-off-road",
		"---":                "",
		"Überauto":           "berauto",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}
