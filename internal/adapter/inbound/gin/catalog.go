package gin

import (
	"net/http"

	"github.com/carzone/server/internal/domain/catalog"
	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/inbound"
	apperrors "github.com/carzone/server/internal/utils/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// catalogHandler implements inbound.CatalogHttpPort.
type catalogHandler struct {
	catalogDomain catalog.CatalogDomain
}

// NewCatalogHandler creates a new public catalog HTTP handler.
func NewCatalogHandler(catalogDomain catalog.CatalogDomain) inbound.CatalogHttpPort {
	return &catalogHandler{catalogDomain: catalogDomain}
}

// bindProductFilter binds the product list query. UUID filters are parsed
// by hand since form binding does not understand uuid.UUID.
func bindProductFilter(c *gin.Context) (*model.ProductFilter, bool) {
	var filter model.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindError(c, err)
		return nil, false
	}

	for name, dst := range map[string]**uuid.UUID{
		"category_id": &filter.CategoryID,
		"seller_id":   &filter.SellerID,
	} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			appErr := apperrors.ValidationError("invalid " + name)
			c.AbortWithStatusJSON(appErr.StatusCode, appErr.ToResponse())
			return nil, false
		}
		*dst = &id
	}
	return &filter, true
}

// ListProducts searches the catalog.
//
//	@Summary		List products
//	@Description	Search, filter, sort and paginate active products
//	@Tags			Catalog
//	@Produce		json
//	@Param			q			query		string	false	"Search in name and description"
//	@Param			category_id	query		string	false	"Category ID"
//	@Param			brand		query		string	false	"Brand"
//	@Param			min_price	query		int		false	"Minimum price in minor units"
//	@Param			max_price	query		int		false	"Maximum price in minor units"
//	@Param			in_stock	query		bool	false	"Only products with stock"
//	@Param			min_rating	query		number	false	"Minimum average rating"
//	@Param			sort_by		query		string	false	"price, name, rating or created_at"
//	@Param			sort_order	query		string	false	"asc or desc"
//	@Param			page		query		int		false	"Page"
//	@Param			page_size	query		int		false	"Page size"
//	@Success		200			{object}	model.PaginatedResponse[model.Product]
//	@Failure		400			{object}	errors.ErrorResponse
//	@Router			/products [get]
func (h *catalogHandler) ListProducts(c *gin.Context) {
	filter, ok := bindProductFilter(c)
	if !ok {
		return
	}

	products, total, err := h.catalogDomain.ListProducts(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewPaginatedResponse(products, total, filter.Pagination))
}

// GetProduct returns one active product.
//
//	@Summary	Get product
//	@Tags		Catalog
//	@Produce	json
//	@Param		id	path		string	true	"Product ID"
//	@Success	200	{object}	model.Product
//	@Failure	404	{object}	errors.ErrorResponse
//	@Router		/products/{id} [get]
func (h *catalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.catalogDomain.GetProduct(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// ListCategories returns every category.
//
//	@Summary	List categories
//	@Tags		Catalog
//	@Produce	json
//	@Success	200	{array}	model.Category
//	@Router		/categories [get]
func (h *catalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogDomain.ListCategories(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	if categories == nil {
		categories = []*model.Category{}
	}

	c.JSON(http.StatusOK, categories)
}

// GetCategory returns one category.
//
//	@Summary	Get category
//	@Tags		Catalog
//	@Produce	json
//	@Param		id	path		string	true	"Category ID"
//	@Success	200	{object}	model.Category
//	@Failure	404	{object}	errors.ErrorResponse
//	@Router		/categories/{id} [get]
func (h *catalogHandler) GetCategory(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	category, err := h.catalogDomain.GetCategory(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}
