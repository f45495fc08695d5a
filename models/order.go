package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

// Sellers may write any other value after payment.
const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

type OrderItem struct {
	ProductID string          `json:"product"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID                string          `json:"_id"`
	UserID            string          `json:"user"`
	Items             []OrderItem     `json:"items"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	Status            OrderStatus     `json:"status"`
	RazorpayOrderID   string          `json:"razorpayOrderId"`
	RazorpayPaymentID string          `json:"razorpayPaymentId,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

type OrderItemDetail struct {
	Product  *ProductDetail  `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderDetail is an order with its buyer and products expanded.
type OrderDetail struct {
	ID                string            `json:"_id"`
	User              *UserSummary      `json:"user"`
	Items             []OrderItemDetail `json:"items"`
	TotalAmount       decimal.Decimal   `json:"totalAmount"`
	Status            OrderStatus       `json:"status"`
	RazorpayOrderID   string            `json:"razorpayOrderId"`
	RazorpayPaymentID string            `json:"razorpayPaymentId,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// PaymentIntent is the gateway-side order the client pays against.
type PaymentIntent struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

type CreatedOrder struct {
	Order         OrderDetail   `json:"order"`
	RazorpayOrder PaymentIntent `json:"razorpayOrder"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

type VerifiedPayment struct {
	Message string      `json:"message"`
	Order   OrderDetail `json:"order"`
}

type UpdateStatusRequest struct {
	Status OrderStatus `json:"status"`
}
