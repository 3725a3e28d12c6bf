package usecase

// Published to RabbitMQ on checkout; consumed by the email worker.
type OrderCreatedMsg struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	TotalCents  int64  `json:"totalCents"`
	Currency    string `json:"currency"`
	ItemCount   int    `json:"itemCount"`
}

// Published to RabbitMQ on every status transition.
type OrderStatusMsg struct {
	OrderID        string `json:"orderId"`
	OrderNumber    string `json:"orderNumber"`
	UserID         string `json:"userId"`
	Email          string `json:"email"`
	Status         string `json:"status"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	CancelReason   string `json:"cancelReason,omitempty"`
}

// Sent by the payment provider on Kafka.
type PaymentStatusChangedMsg struct {
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"` // e.g. "PAID", "FAILED", "REFUNDED"
}
