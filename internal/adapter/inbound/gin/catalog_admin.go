package gin

import (
	"net/http"

	"github.com/carzone/server/internal/domain/catalog"
	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/inbound"
	"github.com/gin-gonic/gin"
)

// catalogAdminHandler implements inbound.CatalogAdminHttpPort.
type catalogAdminHandler struct {
	catalogDomain catalog.CatalogDomain
}

// NewCatalogAdminHandler creates a new catalog management HTTP handler.
func NewCatalogAdminHandler(catalogDomain catalog.CatalogDomain) inbound.CatalogAdminHttpPort {
	return &catalogAdminHandler{catalogDomain: catalogDomain}
}

// ListManagedProducts lists products the caller may edit, inactive ones included.
//
//	@Summary	List managed products
//	@Tags		Seller
//	@Security	BearerAuth
//	@Produce	json
//	@Param		page		query		int	false	"Page"
//	@Param		page_size	query		int	false	"Page size"
//	@Success	200			{object}	model.PaginatedResponse[model.Product]
//	@Router		/admin/products [get]
func (h *catalogAdminHandler) ListManagedProducts(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	filter, ok := bindProductFilter(c)
	if !ok {
		return
	}

	products, total, err := h.catalogDomain.ListManagedProducts(c.Request.Context(), actor, filter)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewPaginatedResponse(products, total, filter.Pagination))
}

// CreateProduct adds a product owned by the caller.
//
//	@Summary	Create product
//	@Tags		Seller
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		model.CreateProductRequest	true	"Product"
//	@Success	201		{object}	model.Product
//	@Failure	400		{object}	errors.ErrorResponse
//	@Router		/admin/products [post]
func (h *catalogAdminHandler) CreateProduct(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req model.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	product, err := h.catalogDomain.CreateProduct(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct applies a partial update.
//
//	@Summary	Update product
//	@Tags		Seller
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Product ID"
//	@Param		request	body		model.UpdateProductRequest	true	"Changes"
//	@Success	200		{object}	model.Product
//	@Failure	403		{object}	errors.ErrorResponse
//	@Router		/admin/products/{id} [put]
func (h *catalogAdminHandler) UpdateProduct(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	product, err := h.catalogDomain.UpdateProduct(c.Request.Context(), actor, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product.
//
//	@Summary	Delete product
//	@Tags		Seller
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Product ID"
//	@Success	204
//	@Router		/admin/products/{id} [delete]
func (h *catalogAdminHandler) DeleteProduct(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogDomain.DeleteProduct(c.Request.Context(), actor, id); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateImageUpload presigns an upload URL for a product image. The client
// PUTs the file to upload_url, then adds public_url to the product.
//
//	@Summary	Presign product image upload
//	@Tags		Seller
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Product ID"
//	@Param		request	body		model.ImageUploadRequest	true	"File info"
//	@Success	201		{object}	model.ImageUploadResponse
//	@Failure	503		{object}	errors.ErrorResponse
//	@Router		/admin/products/{id}/images [post]
func (h *catalogAdminHandler) CreateImageUpload(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.catalogDomain.CreateImageUpload(c.Request.Context(), actor, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// CreateCategory adds a category. The slug is derived from the name when omitted.
//
//	@Summary	Create category
//	@Tags		Admin
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		model.CreateCategoryRequest	true	"Category"
//	@Success	201		{object}	model.Category
//	@Failure	409		{object}	errors.ErrorResponse
//	@Router		/admin/categories [post]
func (h *catalogAdminHandler) CreateCategory(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	category, err := h.catalogDomain.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory applies a partial update.
//
//	@Summary	Update category
//	@Tags		Admin
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Category ID"
//	@Param		request	body		model.UpdateCategoryRequest	true	"Changes"
//	@Success	200		{object}	model.Category
//	@Router		/admin/categories/{id} [put]
func (h *catalogAdminHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	category, err := h.catalogDomain.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes an empty category.
//
//	@Summary	Delete category
//	@Tags		Admin
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Category ID"
//	@Success	204
//	@Failure	409	{object}	errors.ErrorResponse
//	@Router		/admin/categories/{id} [delete]
func (h *catalogAdminHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogDomain.DeleteCategory(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
