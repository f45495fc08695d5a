package handlers

import (
	"context"
	"net/http"

	"github.com/DivyaP1063/shophub/models"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type CartService interface {
	Get(ctx context.Context, userID string) (*models.CartDetail, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*models.CartDetail, error)
	SetItem(ctx context.Context, userID, productID string, quantity int) (*models.CartDetail, error)
	RemoveItem(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

type CartHandler struct {
	carts  CartService
	logger *zap.Logger
}

func NewCartHandler(carts CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		logger: logger,
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	ctx, span := otel.Tracer("shophub").Start(c.Request.Context(), "GetCart")
	defer span.End()

	user, ok := currentUser(c)
	if !ok {
		return
	}

	cart, err := h.carts.Get(ctx, user.ID)
	if err != nil {
		respondError(c, h.logger, "Failed to fetch cart", err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	ctx, span := otel.Tracer("shophub").Start(c.Request.Context(), "AddCartItem")
	defer span.End()

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(
		attribute.String("product.id", req.ProductID),
		attribute.Int("quantity", req.Quantity),
	)

	cart, err := h.carts.AddItem(ctx, user.ID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, h.logger, "Failed to add item to cart", err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	ctx, span := otel.Tracer("shophub").Start(c.Request.Context(), "UpdateCartItem")
	defer span.End()

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.SetCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(
		attribute.String("product.id", req.ProductID),
		attribute.Int("quantity", req.Quantity),
	)

	cart, err := h.carts.SetItem(ctx, user.ID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, h.logger, "Failed to update cart item", err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	ctx, span := otel.Tracer("shophub").Start(c.Request.Context(), "RemoveCartItem")
	defer span.End()

	user, ok := currentUser(c)
	if !ok {
		return
	}

	productID := c.Param("productId")
	span.SetAttributes(attribute.String("product.id", productID))

	if err := h.carts.RemoveItem(ctx, user.ID, productID); err != nil {
		respondError(c, h.logger, "Failed to remove cart item", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	ctx, span := otel.Tracer("shophub").Start(c.Request.Context(), "ClearCart")
	defer span.End()

	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.carts.Clear(ctx, user.ID); err != nil {
		respondError(c, h.logger, "Failed to clear cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
