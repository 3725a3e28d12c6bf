package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCartNotFound       = errors.New("cart not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicate          = errors.New("duplicate idempotency key")
	ErrOrderNotDeletable  = errors.New("only pending orders can be deleted")

	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// InsufficientStockError carries how many units are actually available so the
// client can adjust the line instead of guessing.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Reasons a cart line can fail checkout validation.
const (
	ReasonNotFound          = "not_found"          // product deleted from the catalog
	ReasonInactive          = "inactive"           // product deactivated by an admin
	ReasonOutOfStock        = "out_of_stock"       // active, zero stock
	ReasonInsufficientStock = "insufficient_stock" // active, some stock, less than requested
)

// UnavailableLine describes one cart line that failed checkout validation.
type UnavailableLine struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
	Reason    string `json:"reason"`
}

// UnavailableItemsError is the all-or-nothing checkout validation failure.
// It lists every offending line, not just the first.
type UnavailableItemsError struct {
	Lines []UnavailableLine
}

func (e *UnavailableItemsError) Error() string {
	return fmt.Sprintf("%d cart item(s) unavailable", len(e.Lines))
}

// InvalidTransitionError rejects an order status change the lifecycle table
// does not allow.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition %s -> %s", e.From, e.To)
}
