package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/DivyaP1063/shophub/middleware"
	"github.com/DivyaP1063/shophub/models"
	"github.com/DivyaP1063/shophub/orders"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type OrderService interface {
	Create(ctx context.Context, buyer *models.User) (*models.CreatedOrder, error)
	VerifyPayment(ctx context.Context, req models.VerifyPaymentRequest) (*models.VerifiedPayment, error)
	UpdateStatus(ctx context.Context, seller *models.User, orderID string, status models.OrderStatus) (*models.OrderDetail, error)
	ListForBuyer(ctx context.Context, buyer *models.User) ([]models.OrderDetail, error)
	ListForSeller(ctx context.Context, seller *models.User) ([]models.OrderDetail, error)
}

type OrderHandler struct {
	orders OrderService
	logger *zap.Logger
}

func NewOrderHandler(orders OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	ctx, span := otel.Tracer("shophub").Start(c.Request.Context(), "CreateOrder")
	defer span.End()

	user, ok := currentUser(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	created, err := h.orders.Create(ctx, user)
	if err != nil {
		respondError(c, h.logger, "Failed to create order", err)
		return
	}

	middleware.RecordOrderCreated()
	c.JSON(http.StatusCreated, created)
}

func (h *OrderHandler) GetUserOrders(c *gin.Context) {
	ctx, span := otel.Tracer("shophub").Start(c.Request.Context(), "GetUserOrders")
	defer span.End()

	user, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := h.orders.ListForBuyer(ctx, user)
	if err != nil {
		respondError(c, h.logger, "Failed to fetch orders", err)
		return
	}

	span.SetAttributes(attribute.Int("orders.count", len(list)))
	c.JSON(http.StatusOK, list)
}

func (h *OrderHandler) GetSellerOrders(c *gin.Context) {
	ctx, span := otel.Tracer("shophub").Start(c.Request.Context(), "GetSellerOrders")
	defer span.End()

	user, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := h.orders.ListForSeller(ctx, user)
	if err != nil {
		respondError(c, h.logger, "Failed to fetch seller orders", err)
		return
	}

	span.SetAttributes(attribute.Int("orders.count", len(list)))
	c.JSON(http.StatusOK, list)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	ctx, span := otel.Tracer("shophub").Start(c.Request.Context(), "UpdateOrderStatus")
	defer span.End()

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orderID := c.Param("orderId")
	span.SetAttributes(
		attribute.String("order.id", orderID),
		attribute.String("order.status", string(req.Status)),
	)

	order, err := h.orders.UpdateStatus(ctx, user, orderID, req.Status)
	if err != nil {
		respondError(c, h.logger, "Failed to update order status", err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) VerifyPayment(c *gin.Context) {
	ctx, span := otel.Tracer("shophub").Start(c.Request.Context(), "VerifyPayment")
	defer span.End()

	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.String("razorpay.order_id", req.RazorpayOrderID))

	res, err := h.orders.VerifyPayment(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrInvalidSignature):
			middleware.RecordPaymentVerified("invalid_signature")
		case errors.Is(err, orders.ErrOrderNotFound):
			middleware.RecordPaymentVerified("not_found")
		default:
			middleware.RecordPaymentVerified("error")
		}
		respondError(c, h.logger, "Failed to verify payment", err)
		return
	}

	middleware.RecordPaymentVerified("paid")
	c.JSON(http.StatusOK, res)
}
