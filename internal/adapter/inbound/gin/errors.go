package gin

import (
	"errors"
	"net/http"

	"github.com/carzone/server/internal/domain/admin"
	"github.com/carzone/server/internal/domain/auth"
	"github.com/carzone/server/internal/domain/cart"
	"github.com/carzone/server/internal/domain/catalog"
	"github.com/carzone/server/internal/domain/order"
	"github.com/carzone/server/internal/domain/payment"
	"github.com/carzone/server/internal/domain/review"
	"github.com/carzone/server/internal/domain/user"
	"github.com/carzone/server/internal/shared/logger"
	apperrors "github.com/carzone/server/internal/utils/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleError maps domain errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	appErr := toAppError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context(), zap.L()).Error("request failed",
			zap.String("code", appErr.Code),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(appErr.StatusCode, appErr.ToResponse())
}

// bindError reports a malformed request body or query.
func bindError(c *gin.Context, err error) {
	appErr := apperrors.ValidationError(err.Error())
	c.AbortWithStatusJSON(appErr.StatusCode, appErr.ToResponse())
}

func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	// user
	case errors.Is(err, user.ErrUserNotFound):
		return apperrors.NotFound("user")
	case errors.Is(err, user.ErrEmailAlreadyExists):
		return apperrors.Conflict("EMAIL_EXISTS", "email already registered")
	case errors.Is(err, user.ErrInvalidCredentials):
		return apperrors.New("INVALID_CREDENTIALS", "invalid email or password", http.StatusUnauthorized, apperrors.ErrUnauthorized)
	case errors.Is(err, user.ErrAccountSuspended):
		return apperrors.New("ACCOUNT_SUSPENDED", "account suspended", http.StatusForbidden, apperrors.ErrForbidden)
	case errors.Is(err, user.ErrPasswordTooShort):
		return apperrors.ValidationError(user.ErrPasswordTooShort.Error())
	case errors.Is(err, user.ErrInvalidRole), errors.Is(err, user.ErrInvalidStatus):
		return apperrors.ValidationError(err.Error())
	case errors.Is(err, user.ErrCannotModifySelf):
		return apperrors.New("CANNOT_MODIFY_SELF", user.ErrCannotModifySelf.Error(), http.StatusForbidden, apperrors.ErrForbidden)

	// auth
	case errors.Is(err, auth.ErrInvalidToken):
		return apperrors.New("INVALID_TOKEN", "invalid token", http.StatusUnauthorized, apperrors.ErrUnauthorized)
	case errors.Is(err, auth.ErrExpiredToken):
		return apperrors.New("TOKEN_EXPIRED", "token has expired", http.StatusUnauthorized, apperrors.ErrUnauthorized)
	case errors.Is(err, auth.ErrRevokedToken):
		return apperrors.New("TOKEN_REVOKED", "token has been revoked", http.StatusUnauthorized, apperrors.ErrUnauthorized)
	case errors.Is(err, auth.ErrInvalidOAuthProvider):
		return apperrors.NotFound("oauth provider")
	case errors.Is(err, auth.ErrInvalidOAuthState), errors.Is(err, auth.ErrInvalidOAuthCode):
		return apperrors.BadRequest(err.Error())
	case errors.Is(err, auth.ErrOAuthEmailMissing):
		return apperrors.Unprocessable("OAUTH_EMAIL_MISSING", auth.ErrOAuthEmailMissing.Error())
	case errors.Is(err, auth.ErrOAuthFailed):
		return apperrors.Upstream("oauth sign-in failed", err)

	// catalog
	case errors.Is(err, catalog.ErrProductNotFound), errors.Is(err, cart.ErrProductNotFound), errors.Is(err, review.ErrProductNotFound):
		return apperrors.NotFound("product")
	case errors.Is(err, catalog.ErrCategoryNotFound):
		return apperrors.NotFound("category")
	case errors.Is(err, catalog.ErrCategoryExists):
		return apperrors.Conflict("CATEGORY_EXISTS", catalog.ErrCategoryExists.Error())
	case errors.Is(err, catalog.ErrCategoryInUse):
		return apperrors.Conflict("CATEGORY_IN_USE", catalog.ErrCategoryInUse.Error())
	case errors.Is(err, catalog.ErrInvalidPriceRange), errors.Is(err, catalog.ErrInvalidRating),
		errors.Is(err, catalog.ErrInvalidProduct), errors.Is(err, catalog.ErrInvalidCategory):
		return apperrors.ValidationError(err.Error())
	case errors.Is(err, catalog.ErrForbidden):
		return apperrors.Forbidden(catalog.ErrForbidden.Error())
	case errors.Is(err, catalog.ErrStorageUnavailable):
		return apperrors.ServiceUnavailable(catalog.ErrStorageUnavailable.Error())

	// cart
	case errors.Is(err, cart.ErrProductUnavailable), errors.Is(err, order.ErrProductUnavailable):
		return apperrors.Unprocessable("PRODUCT_UNAVAILABLE", "product is not available")
	case errors.Is(err, cart.ErrInsufficientStock), errors.Is(err, order.ErrInsufficientStock):
		return apperrors.Unprocessable("INSUFFICIENT_STOCK", "insufficient stock")
	case errors.Is(err, cart.ErrQuantityLimit):
		return apperrors.Unprocessable("QUANTITY_LIMIT", cart.ErrQuantityLimit.Error())
	case errors.Is(err, cart.ErrItemNotInCart):
		return apperrors.New("ITEM_NOT_IN_CART", cart.ErrItemNotInCart.Error(), http.StatusNotFound, apperrors.ErrNotFound)
	case errors.Is(err, cart.ErrCurrencyMismatch), errors.Is(err, order.ErrCurrencyMismatch):
		return apperrors.Unprocessable("CURRENCY_MISMATCH", "cart cannot mix currencies")

	// order
	case errors.Is(err, order.ErrOrderNotFound), errors.Is(err, payment.ErrOrderNotFound):
		return apperrors.NotFound("order")
	case errors.Is(err, order.ErrCartEmpty):
		return apperrors.Unprocessable("CART_EMPTY", order.ErrCartEmpty.Error())
	case errors.Is(err, order.ErrInvalidStatus):
		return apperrors.ValidationError(order.ErrInvalidStatus.Error())
	case errors.Is(err, order.ErrInvalidTransition):
		return apperrors.Conflict("INVALID_TRANSITION", order.ErrInvalidTransition.Error())
	case errors.Is(err, order.ErrOrderNotCancellable):
		return apperrors.Conflict("ORDER_NOT_CANCELLABLE", order.ErrOrderNotCancellable.Error())
	case errors.Is(err, order.ErrPaymentAlreadyStarted):
		return apperrors.Conflict("PAYMENT_IN_PROGRESS", order.ErrPaymentAlreadyStarted.Error())

	// payment
	case errors.Is(err, payment.ErrOrderCancelled):
		return apperrors.Conflict("ORDER_CANCELLED", payment.ErrOrderCancelled.Error())
	case errors.Is(err, payment.ErrOrderAlreadyPaid):
		return apperrors.Conflict("ORDER_ALREADY_PAID", payment.ErrOrderAlreadyPaid.Error())
	case errors.Is(err, payment.ErrOrderNotPayable):
		return apperrors.Conflict("ORDER_NOT_PAYABLE", payment.ErrOrderNotPayable.Error())
	case errors.Is(err, payment.ErrIntentMismatch):
		return apperrors.BadRequest(payment.ErrIntentMismatch.Error())
	case errors.Is(err, payment.ErrPaymentNotFound):
		return apperrors.NotFound("payment")
	case errors.Is(err, payment.ErrProviderNotAvailable):
		return apperrors.ServiceUnavailable("payment provider not available")
	case errors.Is(err, payment.ErrProviderFailure):
		return apperrors.Upstream("payment provider request failed", err)
	case errors.Is(err, payment.ErrInvalidWebhook):
		return apperrors.BadRequest("invalid webhook payload")

	// review
	case errors.Is(err, review.ErrReviewNotFound):
		return apperrors.NotFound("review")
	case errors.Is(err, review.ErrNotPurchased):
		return apperrors.New("NOT_PURCHASED", review.ErrNotPurchased.Error(), http.StatusForbidden, apperrors.ErrForbidden)
	case errors.Is(err, review.ErrAlreadyReviewed):
		return apperrors.Conflict("ALREADY_REVIEWED", review.ErrAlreadyReviewed.Error())
	case errors.Is(err, review.ErrInvalidRating):
		return apperrors.ValidationError(review.ErrInvalidRating.Error())
	case errors.Is(err, review.ErrForbidden):
		return apperrors.Forbidden(review.ErrForbidden.Error())

	case errors.Is(err, admin.ErrResetNotConfirmed):
		return apperrors.ValidationError(admin.ErrResetNotConfirmed.Error())

	default:
		return apperrors.Internal("", err)
	}
}
