package catalog

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/carzone/server/internal/utils/metrics"
	"github.com/carzone/server/internal/utils/random"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogDomain defines the catalog domain service interface.
type CatalogDomain interface {
	// ListProducts returns active products matching the filter.
	ListProducts(ctx context.Context, filter *model.ProductFilter) ([]*model.Product, int64, error)

	// GetProduct returns an active product.
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// ListManagedProducts lists products the actor may edit, inactive ones included.
	// Sellers only see their own products.
	ListManagedProducts(ctx context.Context, actor model.Actor, filter *model.ProductFilter) ([]*model.Product, int64, error)

	CreateProduct(ctx context.Context, actor model.Actor, req *model.CreateProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, actor model.Actor, id uuid.UUID) error

	// CreateImageUpload presigns an upload URL for a new product image.
	CreateImageUpload(ctx context.Context, actor model.Actor, productID uuid.UUID, req *model.ImageUploadRequest) (*model.ImageUploadResponse, error)

	ListCategories(ctx context.Context) ([]*model.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error)
	CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *model.UpdateCategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type catalogDomain struct {
	productDB  outbound.ProductDatabasePort
	categoryDB outbound.CategoryDatabasePort
	cache      outbound.CatalogCachePort
	images     outbound.ImageStoragePort
	config     *Config
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewCatalogDomain creates a new catalog domain service.
// cache and images may be nil when Redis or object storage is not configured.
func NewCatalogDomain(
	productDB outbound.ProductDatabasePort,
	categoryDB outbound.CategoryDatabasePort,
	cache outbound.CatalogCachePort,
	images outbound.ImageStoragePort,
	config *Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) CatalogDomain {
	if config == nil {
		config = DefaultConfig()
	}
	return &catalogDomain{
		productDB:  productDB,
		categoryDB: categoryDB,
		cache:      cache,
		images:     images,
		config:     config,
		metrics:    m,
		logger:     logger,
	}
}

// --- Products ---

func (d *catalogDomain) ListProducts(ctx context.Context, filter *model.ProductFilter) ([]*model.Product, int64, error) {
	if err := normalizeFilter(filter, d.config.DefaultPageSize, d.config.MaxPageSize); err != nil {
		return nil, 0, err
	}
	filter.IncludeInactive = false
	return d.productDB.List(ctx, filter)
}

func (d *catalogDomain) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	if d.cache != nil {
		cached, err := d.cache.GetProduct(ctx, id)
		if err != nil {
			d.logger.Warn("product cache read failed", zap.String("product_id", id.String()), zap.Error(err))
		} else if cached != nil {
			d.metrics.RecordCacheHit("product")
			return cached, nil
		}
		d.metrics.RecordCacheMiss("product")
	}

	product, err := d.productDB.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}

	if d.cache != nil {
		if err := d.cache.SetProduct(ctx, product, d.config.CacheTTL); err != nil {
			d.logger.Warn("product cache write failed", zap.String("product_id", id.String()), zap.Error(err))
		}
	}
	return product, nil
}

func (d *catalogDomain) ListManagedProducts(ctx context.Context, actor model.Actor, filter *model.ProductFilter) ([]*model.Product, int64, error) {
	if !actor.Role.CanManageCatalog() {
		return nil, 0, ErrForbidden
	}
	if err := normalizeFilter(filter, d.config.DefaultPageSize, d.config.MaxPageSize); err != nil {
		return nil, 0, err
	}
	filter.IncludeInactive = true
	if !actor.IsAdmin() {
		sellerID := actor.UserID
		filter.SellerID = &sellerID
	}
	return d.productDB.List(ctx, filter)
}

func (d *catalogDomain) CreateProduct(ctx context.Context, actor model.Actor, req *model.CreateProductRequest) (*model.Product, error) {
	if !actor.Role.CanManageCatalog() {
		return nil, ErrForbidden
	}
	if err := d.requireCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || req.Price <= 0 || req.Stock < 0 {
		return nil, ErrInvalidProduct
	}

	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = d.config.Currency
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	product := &model.Product{
		ID:          uuid.New(),
		SellerID:    actor.UserID,
		CategoryID:  req.CategoryID,
		Name:        name,
		Description: req.Description,
		Brand:       strings.TrimSpace(req.Brand),
		Price:       req.Price,
		Currency:    currency,
		Stock:       req.Stock,
		Images:      req.Images,
		Tags:        req.Tags,
		IsActive:    active,
	}
	if err := d.productDB.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	d.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("seller_id", actor.UserID.String()),
	)
	return product, nil
}

func (d *catalogDomain) UpdateProduct(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error) {
	product, err := d.managedProduct(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
		if err := d.requireCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *req.CategoryID
		product.Category = nil
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrInvalidProduct
		}
		product.Name = name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Brand != nil {
		product.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, ErrInvalidProduct
		}
		product.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, ErrInvalidProduct
		}
		product.Stock = *req.Stock
	}
	if req.Images != nil {
		d.deleteRemovedImages(ctx, product.Images, req.Images)
		product.Images = req.Images
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := d.productDB.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	d.invalidateProduct(ctx, id)
	return product, nil
}

func (d *catalogDomain) DeleteProduct(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	if _, err := d.managedProduct(ctx, actor, id); err != nil {
		return err
	}
	// Images stay in storage: order history still links to the product.
	if err := d.productDB.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	d.invalidateProduct(ctx, id)

	d.logger.Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

func (d *catalogDomain) CreateImageUpload(ctx context.Context, actor model.Actor, productID uuid.UUID, req *model.ImageUploadRequest) (*model.ImageUploadResponse, error) {
	if d.images == nil {
		return nil, ErrStorageUnavailable
	}
	if _, err := d.managedProduct(ctx, actor, productID); err != nil {
		return nil, err
	}

	key := imageKey(productID, req.Filename, req.ContentType)
	upload, err := d.images.PresignUpload(ctx, key, req.ContentType)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	return &model.ImageUploadResponse{
		UploadURL: upload.URL,
		Method:    upload.Method,
		PublicURL: d.images.PublicURL(key),
		Key:       key,
		ExpiresAt: upload.ExpiresAt,
	}, nil
}

func (d *catalogDomain) managedProduct(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Product, error) {
	if !actor.Role.CanManageCatalog() {
		return nil, ErrForbidden
	}
	product, err := d.productDB.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !actor.CanManageProduct(product.SellerID) {
		return nil, ErrForbidden
	}
	return product, nil
}

func (d *catalogDomain) requireCategory(ctx context.Context, id uuid.UUID) error {
	category, err := d.categoryDB.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	return nil
}

func (d *catalogDomain) invalidateProduct(ctx context.Context, id uuid.UUID) {
	if d.cache == nil {
		return
	}
	if err := d.cache.InvalidateProducts(ctx, id); err != nil {
		d.logger.Warn("product cache invalidation failed", zap.String("product_id", id.String()), zap.Error(err))
	}
}

// deleteRemovedImages removes stored objects that an update dropped from the product.
func (d *catalogDomain) deleteRemovedImages(ctx context.Context, before, after []string) {
	if d.images == nil {
		return
	}
	kept := make(map[string]struct{}, len(after))
	for _, u := range after {
		kept[u] = struct{}{}
	}
	for _, u := range before {
		if _, ok := kept[u]; ok {
			continue
		}
		key, ours := d.images.KeyFromURL(u)
		if !ours {
			continue
		}
		if err := d.images.Delete(ctx, key); err != nil {
			d.logger.Warn("failed to delete product image", zap.String("key", key), zap.Error(err))
		}
	}
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

func imageKey(productID uuid.UUID, filename, contentType string) string {
	ext, ok := imageExtensions[contentType]
	if !ok {
		ext = strings.ToLower(path.Ext(filename))
	}
	return fmt.Sprintf("products/%s/%d-%s%s", productID, time.Now().Unix(), random.LowerAlphaNum(8), ext)
}

// --- Categories ---

func (d *catalogDomain) ListCategories(ctx context.Context) ([]*model.Category, error) {
	if d.cache != nil {
		cached, err := d.cache.GetCategories(ctx)
		if err != nil {
			d.logger.Warn("category cache read failed", zap.Error(err))
		} else if cached != nil {
			d.metrics.RecordCacheHit("categories")
			return cached, nil
		}
		d.metrics.RecordCacheMiss("categories")
	}

	categories, err := d.categoryDB.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	if d.cache != nil {
		if err := d.cache.SetCategories(ctx, categories, d.config.CacheTTL); err != nil {
			d.logger.Warn("category cache write failed", zap.Error(err))
		}
	}
	return categories, nil
}

func (d *catalogDomain) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := d.categoryDB.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (d *catalogDomain) CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	slug := Slugify(req.Slug)
	if slug == "" {
		slug = Slugify(req.Name)
	}
	if slug == "" {
		return nil, ErrInvalidCategory
	}

	existing, err := d.categoryDB.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get category by slug: %w", err)
	}
	if existing != nil {
		return nil, ErrCategoryExists
	}

	category := &model.Category{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: req.Description,
	}
	if err := d.categoryDB.Create(ctx, category); err != nil {
		if errors.Is(err, outbound.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	d.invalidateCategories(ctx)
	return category, nil
}

func (d *catalogDomain) UpdateCategory(ctx context.Context, id uuid.UUID, req *model.UpdateCategoryRequest) (*model.Category, error) {
	category, err := d.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrInvalidCategory
		}
		category.Name = name
	}
	if req.Slug != nil {
		slug := Slugify(*req.Slug)
		if slug == "" {
			return nil, ErrInvalidCategory
		}
		if slug != category.Slug {
			existing, err := d.categoryDB.GetBySlug(ctx, slug)
			if err != nil {
				return nil, fmt.Errorf("get category by slug: %w", err)
			}
			if existing != nil && existing.ID != id {
				return nil, ErrCategoryExists
			}
			category.Slug = slug
		}
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := d.categoryDB.Update(ctx, category); err != nil {
		if errors.Is(err, outbound.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	d.invalidateCategories(ctx)
	return category, nil
}

func (d *catalogDomain) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := d.GetCategory(ctx, id); err != nil {
		return err
	}

	count, err := d.categoryDB.CountProducts(ctx, id)
	if err != nil {
		return fmt.Errorf("count category products: %w", err)
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	if err := d.categoryDB.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	d.invalidateCategories(ctx)
	return nil
}

func (d *catalogDomain) invalidateCategories(ctx context.Context) {
	if d.cache == nil {
		return
	}
	if err := d.cache.InvalidateCategories(ctx); err != nil {
		d.logger.Warn("category cache invalidation failed", zap.Error(err))
	}
}
