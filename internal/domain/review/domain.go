package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/carzone/server/internal/utils/pagination"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewDomain defines the review domain service interface.
type ReviewDomain interface {
	// ListReviews lists the reviews of an active product, newest first.
	ListReviews(ctx context.Context, filter *model.ReviewFilter) ([]*model.Review, int64, error)

	// CreateReview adds the actor's review. Only purchasers may review, once per product.
	CreateReview(ctx context.Context, actor model.Actor, productID uuid.UUID, req *model.CreateReviewRequest) (*model.Review, error)

	UpdateReview(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateReviewRequest) (*model.Review, error)
	DeleteReview(ctx context.Context, actor model.Actor, id uuid.UUID) error
}

type reviewDomain struct {
	reviewDB  outbound.ReviewDatabasePort
	productDB outbound.ProductDatabasePort
	userDB    outbound.UserDatabasePort
	purchases outbound.PurchaseVerifierPort
	cache     outbound.CatalogCachePort
	tx        outbound.TransactionPort
	logger    *zap.Logger
}

// NewReviewDomain creates a new review domain service. cache may be nil.
func NewReviewDomain(
	reviewDB outbound.ReviewDatabasePort,
	productDB outbound.ProductDatabasePort,
	userDB outbound.UserDatabasePort,
	purchases outbound.PurchaseVerifierPort,
	cache outbound.CatalogCachePort,
	tx outbound.TransactionPort,
	logger *zap.Logger,
) ReviewDomain {
	return &reviewDomain{
		reviewDB:  reviewDB,
		productDB: productDB,
		userDB:    userDB,
		purchases: purchases,
		cache:     cache,
		tx:        tx,
		logger:    logger,
	}
}

func (d *reviewDomain) ListReviews(ctx context.Context, filter *model.ReviewFilter) ([]*model.Review, int64, error) {
	if filter == nil {
		filter = &model.ReviewFilter{}
	}
	if _, err := d.activeProduct(ctx, filter.ProductID); err != nil {
		return nil, 0, err
	}
	if filter.MinRating < 0 || filter.MinRating > 5 {
		return nil, 0, ErrInvalidRating
	}
	filter.Normalize(pagination.DefaultPageSize, pagination.MaxPageSize)
	return d.reviewDB.List(ctx, filter)
}

func (d *reviewDomain) CreateReview(ctx context.Context, actor model.Actor, productID uuid.UUID, req *model.CreateReviewRequest) (*model.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if _, err := d.activeProduct(ctx, productID); err != nil {
		return nil, err
	}

	bought, err := d.purchases.HasPurchased(ctx, actor.UserID, productID)
	if err != nil {
		return nil, fmt.Errorf("check purchase: %w", err)
	}
	if !bought {
		return nil, ErrNotPurchased
	}

	existing, err := d.reviewDB.GetByUserAndProduct(ctx, actor.UserID, productID)
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyReviewed
	}

	author := "Customer"
	if u, err := d.userDB.FindByID(ctx, actor.UserID); err == nil && u != nil {
		author = u.Name
	}

	r := &model.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    actor.UserID,
		Author:    author,
		Rating:    req.Rating,
		Title:     strings.TrimSpace(req.Title),
		Body:      strings.TrimSpace(req.Body),
	}

	err = d.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := d.reviewDB.Create(ctx, r); err != nil {
			if errors.Is(err, outbound.ErrDuplicate) {
				return ErrAlreadyReviewed
			}
			return fmt.Errorf("create review: %w", err)
		}
		return d.refreshRating(ctx, productID)
	})
	if err != nil {
		return nil, err
	}

	d.invalidate(ctx, productID)
	d.logger.Info("review created",
		zap.String("review_id", r.ID.String()),
		zap.String("product_id", productID.String()),
		zap.Int("rating", r.Rating),
	)
	return r, nil
}

func (d *reviewDomain) UpdateReview(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateReviewRequest) (*model.Review, error) {
	r, err := d.ownedReview(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			return nil, ErrInvalidRating
		}
		r.Rating = *req.Rating
	}
	if req.Title != nil {
		r.Title = strings.TrimSpace(*req.Title)
	}
	if req.Body != nil {
		r.Body = strings.TrimSpace(*req.Body)
	}

	err = d.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := d.reviewDB.Update(ctx, r); err != nil {
			return fmt.Errorf("update review: %w", err)
		}
		if req.Rating == nil {
			return nil
		}
		return d.refreshRating(ctx, r.ProductID)
	})
	if err != nil {
		return nil, err
	}

	d.invalidate(ctx, r.ProductID)
	return r, nil
}

func (d *reviewDomain) DeleteReview(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	r, err := d.ownedReview(ctx, actor, id)
	if err != nil {
		return err
	}

	err = d.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := d.reviewDB.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete review: %w", err)
		}
		return d.refreshRating(ctx, r.ProductID)
	})
	if err != nil {
		return err
	}

	d.invalidate(ctx, r.ProductID)
	d.logger.Info("review deleted",
		zap.String("review_id", id.String()),
		zap.String("by", actor.UserID.String()),
	)
	return nil
}

func (d *reviewDomain) activeProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := d.productDB.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p == nil || !p.IsActive {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// ownedReview loads a review the actor may change. Admins may moderate any review.
func (d *reviewDomain) ownedReview(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Review, error) {
	r, err := d.reviewDB.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	if r == nil {
		return nil, ErrReviewNotFound
	}
	if r.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return r, nil
}

func (d *reviewDomain) refreshRating(ctx context.Context, productID uuid.UUID) error {
	summary, err := d.reviewDB.Summary(ctx, productID)
	if err != nil {
		return fmt.Errorf("summarize ratings: %w", err)
	}
	if err := d.productDB.UpdateRating(ctx, productID, summary); err != nil {
		return fmt.Errorf("update product rating: %w", err)
	}
	return nil
}

func (d *reviewDomain) invalidate(ctx context.Context, productID uuid.UUID) {
	if d.cache == nil {
		return
	}
	if err := d.cache.InvalidateProducts(ctx, productID); err != nil {
		d.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}
