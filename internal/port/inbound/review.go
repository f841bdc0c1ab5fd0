package inbound

import "github.com/gin-gonic/gin"

// ReviewHttpPort defines HTTP handler interface for product reviews.
type ReviewHttpPort interface {
	// ListReviews handles GET /products/:id/reviews
	ListReviews(c *gin.Context)

	// CreateReview handles POST /products/:id/reviews
	CreateReview(c *gin.Context)

	// UpdateReview handles PUT /reviews/:id
	UpdateReview(c *gin.Context)

	// DeleteReview handles DELETE /reviews/:id
	DeleteReview(c *gin.Context)
}
