package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/quangdo/shopcart-api/internal/entity"
	"github.com/quangdo/shopcart-api/internal/logging"
)

// Every response uses the {status, message?, data?} envelope.

func respondOK(c *gin.Context, code int, data any) {
	c.JSON(code, gin.H{"status": "success", "data": data})
}

func respondMessage(c *gin.Context, code int, message string, data any) {
	body := gin.H{"status": "success", "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(code, body)
}

func respondError(c *gin.Context, code int, message string, data any) {
	body := gin.H{"status": "error", "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(code, body)
}

// fail maps domain errors onto the envelope. Anything unrecognized is a 500
// with internals withheld from the client.
func fail(c *gin.Context, err error) {
	var (
		ise *domain.InsufficientStockError
		uie *domain.UnavailableItemsError
		ite *domain.InvalidTransitionError
	)

	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrCartNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		respondError(c, http.StatusNotFound, err.Error(), nil)

	case errors.Is(err, domain.ErrProductUnavailable):
		respondError(c, http.StatusConflict, "product is unavailable", nil)

	case errors.As(err, &ise):
		respondError(c, http.StatusConflict, err.Error(), gin.H{
			"productId": ise.ProductID,
			"requested": ise.Requested,
			"available": ise.Available,
		})

	case errors.As(err, &uie):
		respondError(c, http.StatusConflict, "some items are no longer available", gin.H{
			"unavailableItems": uie.Lines,
		})

	case errors.Is(err, domain.ErrEmptyCart):
		respondError(c, http.StatusBadRequest, "cart is empty", nil)

	case errors.Is(err, domain.ErrInvalidQuantity):
		respondError(c, http.StatusBadRequest, "invalid quantity", nil)

	case errors.Is(err, domain.ErrInvalidPaymentStatus):
		respondError(c, http.StatusBadRequest, "invalid payment status", nil)

	case errors.Is(err, domain.ErrForbidden):
		respondError(c, http.StatusForbidden, "forbidden", nil)

	case errors.As(err, &ite):
		respondError(c, http.StatusConflict, err.Error(), nil)

	case errors.Is(err, domain.ErrDuplicate):
		respondError(c, http.StatusConflict, "duplicate request", nil)

	case errors.Is(err, domain.ErrOrderNotDeletable):
		respondError(c, http.StatusConflict, err.Error(), nil)

	default:
		logging.From(c).Error("unhandled error", "error", err)
		respondError(c, http.StatusInternalServerError, "internal server error", nil)
	}
}
