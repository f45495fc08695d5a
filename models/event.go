package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "order_created"
	EventOrderPaid          = "order_paid"
	EventOrderStatusUpdated = "order_status_updated"
)

type OrderEvent struct {
	EventID         string          `json:"event_id"`
	EventType       string          `json:"event_type"`
	OrderID         string          `json:"order_id"`
	UserID          string          `json:"user_id"`
	Status          OrderStatus     `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	RazorpayOrderID string          `json:"razorpay_order_id,omitempty"`
	OccurredAt      time.Time       `json:"occurred_at"`
}
