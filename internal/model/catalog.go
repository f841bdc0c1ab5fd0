package model

import (
	"time"

	"github.com/carzone/server/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Category groups products in the catalog.
type Category struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM.
func (Category) TableName() string {
	return "categories"
}

// Product is a sellable catalog item. Price is in minor units.
type Product struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	SellerID    uuid.UUID      `json:"seller_id" gorm:"type:uuid;not null;index"`
	CategoryID  uuid.UUID      `json:"category_id" gorm:"type:uuid;not null;index"`
	Category    *Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Name        string         `json:"name" gorm:"not null;index"`
	Description string         `json:"description,omitempty"`
	Brand       string         `json:"brand,omitempty" gorm:"index"`
	Price       int64          `json:"price" gorm:"not null;index"`
	Currency    string         `json:"currency" gorm:"not null;default:usd"`
	Stock       int            `json:"stock" gorm:"not null;default:0"`
	Images      pq.StringArray `json:"images" gorm:"type:text[]"`
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`
	IsActive    bool           `json:"is_active" gorm:"not null;default:true"`
	RatingAvg   float64        `json:"rating_avg" gorm:"not null;default:0;index"`
	ReviewCount int            `json:"review_count" gorm:"not null;default:0"`
	CreatedAt   time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the table name for GORM.
func (Product) TableName() string {
	return "products"
}

// IsPurchasable reports whether the product can go into a cart at all.
func (p *Product) IsPurchasable() bool {
	return p.IsActive && p.Stock > 0
}

// PrimaryImage returns the first image URL, if any.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ProductSortField is a column the product list can be ordered by.
type ProductSortField string

const (
	ProductSortPrice     ProductSortField = "price"
	ProductSortName      ProductSortField = "name"
	ProductSortCreatedAt ProductSortField = "created_at"
	ProductSortRating    ProductSortField = "rating"
)

// Column returns the database column for the sort field, falling back to created_at.
func (f ProductSortField) Column() string {
	switch f {
	case ProductSortPrice:
		return "price"
	case ProductSortName:
		return "name"
	case ProductSortRating:
		return "rating_avg"
	default:
		return "created_at"
	}
}

// IsValid returns true if the field is sortable.
func (f ProductSortField) IsValid() bool {
	switch f {
	case ProductSortPrice, ProductSortName, ProductSortCreatedAt, ProductSortRating:
		return true
	}
	return false
}

// ProductFilter composes search, filtering, sorting and pagination for the product list.
type ProductFilter struct {
	Query           string     `form:"q"`
	CategoryID      *uuid.UUID `form:"-"`
	Brand           string     `form:"brand"`
	MinPrice        *int64     `form:"min_price"`
	MaxPrice        *int64     `form:"max_price"`
	InStock         bool       `form:"in_stock"`
	MinRating       *float64   `form:"min_rating"`
	SellerID        *uuid.UUID `form:"-"`
	IncludeInactive bool       `form:"-"`
	SortRequest
	pagination.Pagination
}

// CreateCategoryRequest represents a new category.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"omitempty,max=120"`
	Description string `json:"description" binding:"max=1000"`
}

// UpdateCategoryRequest represents a partial category update.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CreateProductRequest represents a new product.
type CreateProductRequest struct {
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	Name        string    `json:"name" binding:"required,max=200"`
	Description string    `json:"description" binding:"max=10000"`
	Brand       string    `json:"brand" binding:"max=100"`
	Price       int64     `json:"price" binding:"required,gt=0"`
	Currency    string    `json:"currency" binding:"omitempty,len=3"`
	Stock       int       `json:"stock" binding:"gte=0"`
	Images      []string  `json:"images" binding:"max=20,dive,url"`
	Tags        []string  `json:"tags" binding:"max=20"`
	IsActive    *bool     `json:"is_active,omitempty"`
}

// UpdateProductRequest represents a partial product update.
type UpdateProductRequest struct {
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Brand       *string    `json:"brand,omitempty"`
	Price       *int64     `json:"price,omitempty"`
	Stock       *int       `json:"stock,omitempty"`
	Images      []string   `json:"images,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

// ImageUploadRequest asks for a presigned upload URL for a product image.
type ImageUploadRequest struct {
	Filename    string `json:"filename" binding:"required,max=200"`
	ContentType string `json:"content_type" binding:"required,oneof=image/jpeg image/png image/webp"`
}

// ImageUploadResponse carries a presigned upload URL and the resulting public URL.
type ImageUploadResponse struct {
	UploadURL string    `json:"upload_url"`
	Method    string    `json:"method"`
	PublicURL string    `json:"public_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}
