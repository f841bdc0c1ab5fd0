package gin

import (
	"net/http"

	"github.com/carzone/server/internal/domain/review"
	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/inbound"
	"github.com/gin-gonic/gin"
)

// reviewHandler implements inbound.ReviewHttpPort.
type reviewHandler struct {
	reviewDomain review.ReviewDomain
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(reviewDomain review.ReviewDomain) inbound.ReviewHttpPort {
	return &reviewHandler{reviewDomain: reviewDomain}
}

// ListReviews returns a product's reviews, newest first.
//
//	@Summary	List product reviews
//	@Tags		Reviews
//	@Produce	json
//	@Param		id			path		string	true	"Product ID"
//	@Param		min_rating	query		int		false	"Minimum rating"
//	@Param		page		query		int		false	"Page"
//	@Param		page_size	query		int		false	"Page size"
//	@Success	200			{object}	model.PaginatedResponse[model.Review]
//	@Router		/products/{id}/reviews [get]
func (h *reviewHandler) ListReviews(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var filter model.ReviewFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindError(c, err)
		return
	}
	filter.ProductID = productID

	reviews, total, err := h.reviewDomain.ListReviews(c.Request.Context(), &filter)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewPaginatedResponse(reviews, total, filter.Pagination))
}

// CreateReview reviews a product the caller bought.
//
//	@Summary	Create review
//	@Tags		Reviews
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Product ID"
//	@Param		request	body		model.CreateReviewRequest	true	"Review"
//	@Success	201		{object}	model.Review
//	@Failure	403		{object}	errors.ErrorResponse
//	@Failure	409		{object}	errors.ErrorResponse
//	@Router		/products/{id}/reviews [post]
func (h *reviewHandler) CreateReview(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	r, err := h.reviewDomain.CreateReview(c.Request.Context(), actor, productID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, r)
}

// UpdateReview edits a review. Owners and admins only.
//
//	@Summary	Update review
//	@Tags		Reviews
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Review ID"
//	@Param		request	body		model.UpdateReviewRequest	true	"Changes"
//	@Success	200		{object}	model.Review
//	@Router		/reviews/{id} [put]
func (h *reviewHandler) UpdateReview(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	r, err := h.reviewDomain.UpdateReview(c.Request.Context(), actor, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

// DeleteReview removes a review. Owners and admins only.
//
//	@Summary	Delete review
//	@Tags		Reviews
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Review ID"
//	@Success	204
//	@Router		/reviews/{id} [delete]
func (h *reviewHandler) DeleteReview(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.reviewDomain.DeleteReview(c.Request.Context(), actor, id); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
