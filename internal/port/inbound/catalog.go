package inbound

import "github.com/gin-gonic/gin"

// CatalogHttpPort defines HTTP handler interface for the public catalog.
type CatalogHttpPort interface {
	// ListProducts handles GET /products
	ListProducts(c *gin.Context)

	// GetProduct handles GET /products/:id
	GetProduct(c *gin.Context)

	// ListCategories handles GET /categories
	ListCategories(c *gin.Context)

	// GetCategory handles GET /categories/:id
	GetCategory(c *gin.Context)
}

// CatalogAdminHttpPort defines HTTP handler interface for catalog management.
type CatalogAdminHttpPort interface {
	// ListManagedProducts handles GET /admin/products
	ListManagedProducts(c *gin.Context)

	// CreateProduct handles POST /admin/products
	CreateProduct(c *gin.Context)

	// UpdateProduct handles PUT /admin/products/:id
	UpdateProduct(c *gin.Context)

	// DeleteProduct handles DELETE /admin/products/:id
	DeleteProduct(c *gin.Context)

	// CreateImageUpload handles POST /admin/products/:id/images
	CreateImageUpload(c *gin.Context)

	// CreateCategory handles POST /admin/categories
	CreateCategory(c *gin.Context)

	// UpdateCategory handles PUT /admin/categories/:id
	UpdateCategory(c *gin.Context)

	// DeleteCategory handles DELETE /admin/categories/:id
	DeleteCategory(c *gin.Context)
}
