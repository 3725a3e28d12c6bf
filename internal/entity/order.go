package domain

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// orderTransitions is the lifecycle table. Cancellation is reachable from
// pending/confirmed only; everything else walks forward one hop at a time.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped},
	OrderShipped:    {OrderDelivered},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

func ValidOrderStatus(s OrderStatus) bool {
	_, ok := orderTransitions[s]
	return ok
}

func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderItem is a denormalized copy of the product at checkout time. It is
// intentionally decoupled from live catalog state so historical orders stay
// accurate after product edits.
type OrderItem struct {
	ProductID      string
	Name           string
	ImageURL       string
	UnitPriceCents int64
	Quantity       int
}

type ShippingAddress struct {
	FullName   string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
}

// Order is the record of a completed checkout. Items and money fields are
// computed once at creation and frozen; only the two status fields and their
// side-effect fields move afterwards.
type Order struct {
	ID          string
	OrderNumber string
	UserID      string
	Email       string
	Items       []OrderItem

	SubtotalCents int64
	ShippingCents int64
	TaxCents      int64
	TotalCents    int64
	Currency      string

	OrderStatus   OrderStatus
	PaymentStatus PaymentStatus

	ShippingAddress ShippingAddress
	Notes           string
	AdminNotes      string

	TrackingNumber    string
	EstimatedDelivery *time.Time
	DeliveredAt       *time.Time
	CancelledAt       *time.Time
	CancelReason      string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TransitionOptions carries every side-effect parameter a status change can
// take, so tracking assignment and the generic status update share one code
// path instead of two that drift apart.
type TransitionOptions struct {
	TrackingNumber    string
	EstimatedDelivery *time.Time
	CancelReason      string
	AdminNotes        string

	// Force skips the lifecycle table. Callers must log forced transitions.
	Force bool

	// Now defaults to time.Now().UTC() when zero.
	Now time.Time
}

// Transition is the single entry point that mutates OrderStatus.
func (o *Order) Transition(to OrderStatus, opts TransitionOptions) error {
	if !ValidOrderStatus(to) {
		return &InvalidTransitionError{From: o.OrderStatus, To: to}
	}
	if !opts.Force && !o.OrderStatus.CanTransitionTo(to) {
		return &InvalidTransitionError{From: o.OrderStatus, To: to}
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	o.OrderStatus = to
	o.UpdatedAt = now
	if opts.AdminNotes != "" {
		o.AdminNotes = opts.AdminNotes
	}

	switch to {
	case OrderShipped:
		if opts.TrackingNumber != "" {
			o.TrackingNumber = opts.TrackingNumber
		}
		if opts.EstimatedDelivery != nil {
			o.EstimatedDelivery = opts.EstimatedDelivery
		}
	case OrderDelivered:
		o.DeliveredAt = &now
		// Cash on delivery: payment is collected when the parcel lands.
		o.PaymentStatus = PaymentPaid
	case OrderCancelled:
		o.CancelledAt = &now
		o.CancelReason = opts.CancelReason
	}
	return nil
}

// CancellableByUser limits owner-initiated cancellation to orders that have
// not entered fulfilment yet.
func (o *Order) CancellableByUser() bool {
	return o.OrderStatus == OrderPending || o.OrderStatus == OrderConfirmed
}

// Deletable permits the admin-only hard delete.
func (o *Order) Deletable() bool {
	return o.OrderStatus == OrderPending
}
